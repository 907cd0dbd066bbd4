package services

import (
	"context"
	"testing"

	"crewclock-backend/internal/models"
)

func TestLogin_ValidatesInput(t *testing.T) {
	// Nil deps: validation must reject before any store or redis access.
	svc := NewAuthService(nil, nil, nil)

	tests := []struct {
		name          string
		req           models.LoginRequest
		expectedField string
	}{
		{"bad email format", models.LoginRequest{Email: "not-an-email", Password: "pass"}, "email"},
		{"empty email", models.LoginRequest{Password: "pass"}, "email"},
		{"empty password", models.LoginRequest{Email: "worker@example.com"}, "password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}
			vErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if _, present := vErr.Fields[tc.expectedField]; !present {
				t.Errorf("Expected field %q in %v", tc.expectedField, vErr.Fields)
			}
		})
	}
}
