package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/api/shared"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/platform/logger"
	"github.com/phrazzld/exam-api/internal/service"
)

// SessionHandler handles exam attempt requests.
type SessionHandler struct {
	sessionService service.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, ok := handleCandidateID(w, r, log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}
	examID, err := uuid.Parse(req.ExamID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("exam_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}

	status, err := h.sessionService.Start(r.Context(), candidateID, examID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionStatusToResponse(status))
}

// GetSession handles GET /api/sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	status, err := h.sessionService.GetSession(r.Context(), candidateID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionStatusToResponse(status))
}

// SubmitAnswer handles POST /api/sessions/{id}/answers.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AnswerRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}

	status, err := h.sessionService.Answer(r.Context(), candidateID, sessionID, *req.Answer)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("answer recorded",
		slog.String("session_id", sessionID.String()),
		slog.Int("position", status.Session.Position))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionStatusToResponse(status))
}

// SaveCheckpoint handles POST /api/sessions/{id}/checkpoints.
func (h *SessionHandler) SaveCheckpoint(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	cp, err := h.sessionService.SaveCheckpoint(r.Context(), candidateID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, checkpointToResponse(cp))
}

// ListCheckpoints handles GET /api/sessions/{id}/checkpoints.
func (h *SessionHandler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	cps, err := h.sessionService.ListCheckpoints(r.Context(), candidateID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]CheckpointResponse, 0, len(cps))
	for _, cp := range cps {
		resp = append(resp, checkpointToResponse(cp))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RestoreCheckpoint handles POST /api/sessions/{id}/restore.
func (h *SessionHandler) RestoreCheckpoint(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req RestoreRequest
	if !parseAndValidateRequest(w, r, &req, log) {
		return
	}
	checkpointID, err := uuid.Parse(req.CheckpointID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("checkpoint_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}

	status, err := h.sessionService.Restore(r.Context(), candidateID, sessionID, checkpointID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("session restored",
		slog.String("session_id", sessionID.String()),
		slog.String("checkpoint_id", checkpointID.String()),
		slog.Int("position", status.Session.Position))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionStatusToResponse(status))
}

// GradeSession handles GET /api/sessions/{id}/grade.
func (h *SessionHandler) GradeSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	candidateID, sessionID, ok := handleCandidateAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	report, err := h.sessionService.Grade(r.Context(), candidateID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gradeReportToResponse(report))
}
