package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"crewclock-backend/internal/models"
	"crewclock-backend/internal/services"
)

// ─── Error Envelope Tests ───

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedTag  string
	}{
		{"conflict", &services.ConflictError{Message: "Already on the clock today"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "No open clock-in found for today"}, http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", &services.ForbiddenError{Message: "Clock-in is not allowed on Sunday"}, http.StatusForbidden, "FORBIDDEN"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid email or password"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"validation", &services.ValidationError{Fields: map[string]string{"email": "required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"rate limited", &services.RateLimitError{Message: "Too many requests"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/clock/in", nil)
			req.Header.Set("X-Request-ID", "req-123")

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.expectedCode {
				t.Errorf("Expected status %d, got %d", tc.expectedCode, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error.Code != tc.expectedTag {
				t.Errorf("Expected code %q, got %q", tc.expectedTag, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("Expected request_id 'req-123', got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "Success"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "Success" {
		t.Errorf("Expected message 'Success', got %q", result["message"])
	}
}

// ─── Clock Request Parsing Tests ───

func TestClockInRequest_OptionalLocation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		expectFix bool
	}{
		{"with fix", `{"location": {"lat": 35.37, "lng": -119.02}}`, true},
		{"without fix", `{}`, false},
		{"null fix", `{"location": null}`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req models.ClockInRequest
			if err := json.NewDecoder(bytes.NewReader([]byte(tc.body))).Decode(&req); err != nil {
				t.Fatalf("Failed to parse request body: %v", err)
			}

			if tc.expectFix && req.Location == nil {
				t.Error("Expected a location, got nil")
			}
			if !tc.expectFix && req.Location != nil {
				t.Errorf("Expected nil location, got %+v", req.Location)
			}
			if tc.expectFix && req.Location.Lat != 35.37 {
				t.Errorf("Expected lat 35.37, got %v", req.Location.Lat)
			}
		})
	}
}

// ─── Auth Request Parsing Tests ───

func TestLoginRequest_Parsing(t *testing.T) {
	body := map[string]string{
		"email":    "worker@example.com",
		"password": "StrongPass123!",
	}
	jsonBody, _ := json.Marshal(body)

	var req models.LoginRequest
	if err := json.NewDecoder(bytes.NewReader(jsonBody)).Decode(&req); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}

	if req.Email != "worker@example.com" {
		t.Errorf("Expected email 'worker@example.com', got %q", req.Email)
	}
	if req.Password != "StrongPass123!" {
		t.Errorf("Expected password to round-trip, got %q", req.Password)
	}
}
