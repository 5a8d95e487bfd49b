package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exam-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestJWTService(t *testing.T, secret string, now func() time.Time) JWTService {
	t.Helper()
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 60,
	}, now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 5})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	candidateID := uuid.New()
	svc := newTestJWTService(t, testSecret, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), candidateID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, candidateID, claims.CandidateID)
	assert.Equal(t, candidateID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	candidateID := uuid.New()

	issue := func(t *testing.T, secret string, at time.Time) string {
		svc := newTestJWTService(t, secret, func() time.Time { return at })
		token, err := svc.GenerateToken(context.Background(), candidateID)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name     string
		token    func(t *testing.T) string
		secret   string
		validate time.Time
		wantErr  error
	}{
		{
			name:     "valid token",
			token:    func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			secret:   testSecret,
			validate: fixedTime.Add(30 * time.Minute),
		},
		{
			name:     "within clock skew after expiry",
			token:    func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			secret:   testSecret,
			validate: fixedTime.Add(time.Hour + time.Minute),
		},
		{
			name:     "expired token",
			token:    func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			secret:   testSecret,
			validate: fixedTime.Add(2 * time.Hour),
			wantErr:  ErrExpiredToken,
		},
		{
			name:     "issued in the future",
			token:    func(t *testing.T) string { return issue(t, testSecret, fixedTime.Add(time.Hour)) },
			secret:   testSecret,
			validate: fixedTime,
			wantErr:  ErrTokenNotYetValid,
		},
		{
			name:     "invalid signature",
			token:    func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			secret:   wrongSecret,
			validate: fixedTime,
			wantErr:  ErrInvalidToken,
		},
		{
			name:     "malformed token",
			token:    func(*testing.T) string { return "this.is.not.a.valid.jwt.token" },
			secret:   testSecret,
			validate: fixedTime,
			wantErr:  ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			validate := tt.validate
			svc := newTestJWTService(t, tt.secret, func() time.Time { return validate })
			claims, err := svc.ValidateToken(context.Background(), tt.token(t))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, candidateID, claims.CandidateID)
		})
	}
}

func TestMockJWTService(t *testing.T) {
	candidateID := uuid.New()
	mock := NewMockJWTService(candidateID)

	token, err := mock.GenerateToken(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token", token)

	claims, err := mock.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, candidateID, claims.CandidateID)

	mock.ValidationError = ErrExpiredToken
	_, err = mock.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
