package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "u-alice",
		Email: "alice@example.com",
	}
}

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u-alice" {
		t.Errorf("user id = %q, want u-alice", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", claims.Email)
	}
}

func TestJWTRejectsInvalidTokens(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other-secret", time.Hour).Generate(testUser())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := NewJWTManager("test-secret", -time.Minute).Generate(testUser())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}
