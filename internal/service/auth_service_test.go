package service

import (
	"errors"
	"testing"

	"bilingual-reader/internal/domain"
)

func TestAuthService_ValidateToken(t *testing.T) {
	client := NewMockSupabaseClient()
	logger := NewMockLogger()

	service := NewAuthService(client, logger)

	user, err := service.ValidateToken("valid-token")
	if err != nil {
		t.Fatalf("expected no error for valid token, got %v", err)
	}
	if user.ID != "user-123" {
		t.Errorf("expected user ID 'user-123', got '%s'", user.ID)
	}
	if user.Email != "test@example.com" {
		t.Errorf("expected user email 'test@example.com', got '%s'", user.Email)
	}

	_, err = service.ValidateToken("invalid-token")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if logger.count("ERROR") != 1 {
		t.Errorf("expected one error log, got %v", logger.messages)
	}

	_, err = service.ValidateToken("")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for empty token, got %v", err)
	}
}
