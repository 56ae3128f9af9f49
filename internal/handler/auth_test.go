package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maplehr/maplehr/internal/handler/dto"
	"github.com/maplehr/maplehr/internal/service"
	"github.com/maplehr/maplehr/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthHandler(t *testing.T) (*AuthHandler, *service.AuthService) {
	t.Helper()
	st := memory.New()
	svc := service.NewAuthService(st, st, st)
	return NewAuthHandler(svc, testLogger()), svc
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.AuthResponse {
	t.Helper()
	var resp dto.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	h, _ := newAuthHandler(t)

	body := `{"email":"alice@example.com","password":"secret123","name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeAuthResponse(t, rec)
	if resp.User == nil {
		t.Fatal("expected user in response")
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected email: %s", resp.User.Email)
	}
	if resp.User.Name != "Alice" {
		t.Errorf("unexpected name: %s", resp.User.Name)
	}
	if len(resp.Token) != 64 {
		t.Errorf("expected 64-char token, got %d chars", len(resp.Token))
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h, _ := newAuthHandler(t)

	body := `{"email":"alice@example.com","password":"secret123","name":"Alice"}`

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first register failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "USER_EXISTS" {
		t.Errorf("unexpected error code: %s", resp.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, svc := newAuthHandler(t)

	if _, err := svc.Register(context.Background(), "bob@example.com", "hunter22", "Bob"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "valid credentials",
			body:     `{"email":"bob@example.com","password":"hunter22"}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     `{"email":"bob@example.com","password":"wrong"}`,
			wantCode: http.StatusUnauthorized,
			wantErr:  "INVALID_CREDENTIALS",
		},
		{
			name:     "unknown email",
			body:     `{"email":"nobody@example.com","password":"hunter22"}`,
			wantCode: http.StatusUnauthorized,
			wantErr:  "INVALID_CREDENTIALS",
		},
		{
			name:     "missing fields",
			body:     `{"email":"","password":""}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "MISSING_FIELDS",
		},
		{
			name:     "malformed json",
			body:     `{"email":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "INVALID_JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantErr != "" {
				if resp := decodeError(t, rec); resp.Code != tt.wantErr {
					t.Errorf("expected error code %s, got %s", tt.wantErr, resp.Code)
				}
			}
		})
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	h, svc := newAuthHandler(t)

	result, err := svc.Register(context.Background(), "carol@example.com", "secret123", "Carol")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var user map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user["email"] != "carol@example.com" {
		t.Errorf("unexpected email: %v", user["email"])
	}
	if _, ok := user["token"]; ok {
		t.Error("verify response must not contain a token")
	}
}

func TestAuthHandler_Verify_NoToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "No token provided" {
		t.Errorf("unexpected error message: %s", resp.Error)
	}
}

func TestAuthHandler_Verify_UnknownToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("ab", 32))
	rec := httptest.NewRecorder()

	h.Verify(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h, svc := newAuthHandler(t)

	result, err := svc.Register(context.Background(), "dave@example.com", "secret123", "Dave")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Logged out successfully" {
		t.Errorf("unexpected message: %s", resp.Message)
	}

	// The token is dead afterwards.
	if _, err := svc.VerifyToken(context.Background(), result.Token); err == nil {
		t.Error("expected verify to fail after logout")
	}
}

func TestAuthHandler_Logout_WithoutToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
