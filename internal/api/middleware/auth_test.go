package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/api/shared"
	"github.com/phrazzld/exam-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	candidateID := uuid.New()

	tests := []struct {
		name                string
		authHeader          string
		validateErr         error
		expectedStatus      int
		expectedCandidateID uuid.UUID
	}{
		{
			name:                "valid token",
			authHeader:          "Bearer valid-token",
			expectedStatus:      http.StatusOK,
			expectedCandidateID: candidateID,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    errors.Join(auth.ErrInvalidToken, errors.New("signature mismatch")),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("key store unavailable"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := auth.NewMockJWTService(candidateID)
			jwtService.ValidationError = tt.validateErr
			middleware := NewAuthMiddleware(jwtService)

			var captured uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := GetCandidateID(r); ok {
					captured = id
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Add("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedCandidateID, captured)
			}
		})
	}
}

func TestGetCandidateID(t *testing.T) {
	t.Parallel()

	candidateID := uuid.New()

	t.Run("context with candidate ID", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, err)
		req = req.WithContext(context.WithValue(req.Context(), shared.CandidateIDContextKey, candidateID))

		id, ok := GetCandidateID(req)
		assert.True(t, ok)
		assert.Equal(t, candidateID, id)
	})

	t.Run("context without candidate ID", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, err)

		id, ok := GetCandidateID(req)
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, id)
	})
}
