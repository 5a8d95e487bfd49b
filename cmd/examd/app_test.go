package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/exam-api/internal/config"
	"github.com/phrazzld/exam-api/internal/events"
	"github.com/phrazzld/exam-api/internal/task"
)

const finalExam = `{
  "title": "Final Exam",
  "items": [
    {"title": "Logic", "items": [
      {"text": "2+2=?", "key": "4"},
      {"text": "3*3=?", "key": "9"}
    ]},
    {"title": "Object Orientation", "items": [
      {"text": "What is polymorphism?", "key": "B"}
    ]}
  ]
}`

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{MaxOpenConns: 1},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-characters",
			TokenLifetimeMinutes: 60,
		},
		Exam:   config.ExamConfig{TimeLimitMinutes: 60},
		Events: config.EventsConfig{WorkerCount: 1, QueueSize: 16},
	}
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func (c *testClient) do(method, path, body string, out interface{}) int {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func newTestApp(t *testing.T) (*application, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	server := httptest.NewServer(app.setupRouter())
	t.Cleanup(server.Close)
	return app, server
}

func (app *application) tokenFor(t *testing.T, candidateID uuid.UUID) string {
	t.Helper()
	token, err := app.jwtService.GenerateToken(context.Background(), candidateID)
	require.NoError(t, err)
	return token
}

type sessionBody struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	Answers  []string `json:"answers"`
}

func TestHealth(t *testing.T) {
	_, server := newTestApp(t)

	resp, err := server.Client().Get(server.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestAPIRequiresToken(t *testing.T) {
	_, server := newTestApp(t)
	client := &testClient{t: t, server: server}

	assert.Equal(t, http.StatusUnauthorized, client.do(http.MethodPost, "/api/exams", finalExam, nil))

	client.token = "not-a-jwt"
	assert.Equal(t, http.StatusUnauthorized, client.do(http.MethodGet, "/api/sessions/"+uuid.NewString(), "", nil))
}

func TestSessionLifecycle(t *testing.T) {
	app, server := newTestApp(t)
	candidateID := uuid.New()
	client := &testClient{t: t, server: server, token: app.tokenFor(t, candidateID)}

	var created struct {
		ID            string `json:"id"`
		QuestionCount int    `json:"question_count"`
	}
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, "/api/exams", finalExam, &created))
	assert.Equal(t, 3, created.QuestionCount)

	renderReq, err := http.NewRequest(http.MethodGet, server.URL+"/api/exams/"+created.ID+"/render", nil)
	require.NoError(t, err)
	renderReq.Header.Set("Authorization", "Bearer "+client.token)
	renderResp, err := server.Client().Do(renderReq)
	require.NoError(t, err)
	rendered, err := io.ReadAll(renderResp.Body)
	require.NoError(t, renderResp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"--- SECTION: Final Exam ---",
		"  --- SECTION: Logic ---",
		"    Question: 2+2=? (A/B/C/D)",
		"    Question: 3*3=? (A/B/C/D)",
		"  --- SECTION: Object Orientation ---",
		"    Question: What is polymorphism? (A/B/C/D)",
		"",
	}, "\n"), string(rendered))

	var sess sessionBody
	require.Equal(t, http.StatusCreated,
		client.do(http.MethodPost, "/api/sessions", `{"exam_id":"`+created.ID+`"}`, &sess))
	base := "/api/sessions/" + sess.ID

	require.Equal(t, http.StatusOK, client.do(http.MethodPost, base+"/answers", `{"answer":"4"}`, &sess))

	var cp struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
	}
	require.Equal(t, http.StatusCreated, client.do(http.MethodPost, base+"/checkpoints", "", &cp))
	assert.Equal(t, 1, cp.Position)

	require.Equal(t, http.StatusOK, client.do(http.MethodPost, base+"/answers", `{"answer":"10"}`, &sess))
	assert.Equal(t, 2, sess.Position)
	assert.Equal(t, []string{"4", "10"}, sess.Answers)

	require.Equal(t, http.StatusOK,
		client.do(http.MethodPost, base+"/restore", `{"checkpoint_id":"`+cp.ID+`"}`, &sess))
	assert.Equal(t, 1, sess.Position)
	assert.Equal(t, []string{"4"}, sess.Answers)

	var checkpoints []json.RawMessage
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, base+"/checkpoints", "", &checkpoints))
	assert.Len(t, checkpoints, 1)

	require.Equal(t, http.StatusOK, client.do(http.MethodPost, base+"/answers", `{"answer":"9"}`, &sess))

	var grade struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, client.do(http.MethodGet, base+"/grade", "", &grade))
	assert.Equal(t, 2, grade.Score)
	assert.Equal(t, 3, grade.Total)

	other := &testClient{t: t, server: server, token: app.tokenFor(t, uuid.New())}
	assert.Equal(t, http.StatusForbidden, other.do(http.MethodGet, base, "", nil))
}

func TestStartSessionUnknownExam(t *testing.T) {
	app, server := newTestApp(t)
	client := &testClient{t: t, server: server, token: app.tokenFor(t, uuid.New())}

	var resp map[string]interface{}
	status := client.do(http.MethodPost, "/api/sessions", `{"exam_id":"`+uuid.NewString()+`"}`, &resp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Exam not found", resp["error"])
}

func TestRunMigrationRejectsBadInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	err := runMigration(context.Background(), testConfig(), "sideways", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")

	err = runMigration(context.Background(), testConfig(), "up", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires database.url")
}

func TestNewApplicationRejectsShortSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = "short"

	_, err := newApplication(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe for the worker goroutines writing logs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEventDeliveryFailureIsLogged(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	app, err := newApplication(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	event, err := events.NewSessionEvent(events.AnswerRecorded, uuid.New(), uuid.New(),
		events.AnswerPayload{Position: 0, Answer: "4"})
	require.NoError(t, err)
	failing := events.EventHandlerFunc(func(context.Context, *events.SessionEvent) error {
		return errors.New("subscriber unavailable")
	})
	require.NoError(t, app.eventQueue.Enqueue(task.NewEventTask(context.Background(), failing, event)))

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "session event delivery failed")
	}, time.Second, 10*time.Millisecond)

	out := logs.String()
	assert.Contains(t, out, `"event_type":"answer_recorded"`)
	assert.Contains(t, out, `"event_id":"`+event.ID.String()+`"`)
	assert.Contains(t, out, `"error":"subscriber unavailable"`)
}
