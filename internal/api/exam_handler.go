package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/phrazzld/exam-api/internal/api/shared"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/examfile"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/service"
)

// ExamHandler handles exam definition requests.
type ExamHandler struct {
	examService service.ExamService
	logger      *slog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService service.ExamService, logger *slog.Logger) *ExamHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ExamHandler")
	}
	return &ExamHandler{
		examService: examService,
		logger:      logger.With(slog.String("component", "exam_handler")),
	}
}

// CreateExam handles POST /api/exams. The body is an exam definition in
// JSON, or in YAML when the content type says so.
func (h *ExamHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := handleCandidateID(w, r, log); !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, shared.MaxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		HandleAPIError(w, r, domain.ErrEmptyContent, "")
		return
	}

	var def *examfile.Definition
	if isYAML(r.Header.Get("Content-Type")) {
		def, err = examfile.Parse(body)
	} else {
		def, err = examfile.ParseJSON(body)
	}
	if err != nil {
		log.Debug("exam definition rejected", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	created, err := h.examService.CreateExam(r.Context(), def)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, examToResponse(created))
}

// GetExam handles GET /api/exams/{id}.
func (h *ExamHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, examID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	e, err := h.examService.GetExam(r.Context(), examID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, examToResponse(e))
}

// RenderExam handles GET /api/exams/{id}/render. The tree is returned as
// plain text unless the client accepts only JSON.
func (h *ExamHandler) RenderExam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, examID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	rendered, err := h.examService.RenderExam(r.Context(), examID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if wantsJSON(r.Header.Get("Accept")) {
		shared.RespondWithJSON(w, r, http.StatusOK, RenderResponse{
			ID:       examID.String(),
			Rendered: rendered,
		})
		return
	}
	shared.RespondWithText(w, r, http.StatusOK, rendered)
}

func isYAML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	}
	return false
}

func wantsJSON(accept string) bool {
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/plain")
}
