package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MockJWTService is a mock implementation of JWTService for tests in other
// packages. Function fields take precedence over the fixed fields.
type MockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, candidateID uuid.UUID) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*Claims, error)

	Token           string  // Default token to return
	TokenError      error   // Default error for token generation
	ValidationError error   // Default error for token validation
	Claims          *Claims // Default claims to return
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a mock that issues "mock-jwt-token" and
// validates every token as belonging to candidateID.
func NewMockJWTService(candidateID uuid.UUID) *MockJWTService {
	now := time.Now()
	return &MockJWTService{
		Token: "mock-jwt-token",
		Claims: &Claims{
			CandidateID: candidateID,
			Subject:     candidateID.String(),
			IssuedAt:    now,
			ExpiresAt:   now.Add(time.Hour),
			ID:          uuid.New().String(),
		},
	}
}

// GenerateToken implements JWTService.GenerateToken.
func (m *MockJWTService) GenerateToken(ctx context.Context, candidateID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, candidateID)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements JWTService.ValidateToken.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
