package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/api/shared"
	"github.com/phrazzld/exam-api/internal/domain"
	"github.com/phrazzld/exam-api/internal/platform/logger"
)

// getCandidateIDFromContext returns the candidate ID placed in the context
// by the auth middleware. A missing, mistyped or nil ID reports false.
func getCandidateIDFromContext(r *http.Request) (uuid.UUID, bool) {
	candidateID, ok := r.Context().Value(shared.CandidateIDContextKey).(uuid.UUID)
	if !ok || candidateID == uuid.Nil {
		return uuid.Nil, false
	}
	return candidateID, true
}

// getPathUUID parses the chi path parameter paramName as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// handleCandidateID extracts the candidate ID, writing a 401 response when
// it is absent.
func handleCandidateID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	candidateID, ok := getCandidateIDFromContext(r)
	if !ok {
		log.Warn("candidate ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return candidateID, true
}

// handleCandidateAndPathUUID extracts the candidate ID and the path UUID
// paramName. On failure it writes the error response and reports false.
func handleCandidateAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	candidateID, ok := handleCandidateID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName,
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return candidateID, pathID, true
}

// parseAndValidateRequest decodes the JSON body into req and validates it,
// writing a 400 response on failure.
func parseAndValidateRequest(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	if err := shared.DecodeJSON(w, r, req); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
