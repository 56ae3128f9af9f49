package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maplehr/maplehr/internal/model"
	"github.com/maplehr/maplehr/internal/store"
	"github.com/maplehr/maplehr/internal/store/memory"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	s := memory.New()
	return NewAuthService(s, s, s)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.User.Email != "alice@example.com" || reg.User.Name != "Alice" {
		t.Errorf("unexpected user: %+v", reg.User)
	}
	if reg.Token == "" {
		t.Error("Register should issue a token")
	}

	login, err := svc.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("Login resolved a different user: %s vs %s", login.User.ID, reg.User.ID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"missing email", "", "pw", "Name"},
		{"missing password", "a@b.com", "", "Name"},
		{"missing name", "a@b.com", "pw", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.email, tt.password, tt.userName); !errors.Is(err, ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Conflict(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "pw1", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Register(ctx, "alice@example.com", "pw2", "Imposter"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

// failingUserStore rejects every registration write.
type failingUserStore struct {
	*memory.Store
}

func (s *failingUserStore) CreateUserWithCredential(ctx context.Context, user *model.User, cred *model.Credential) error {
	return errors.New("connection reset")
}

func TestAuthService_Register_FailedWriteLeavesNoAccount(t *testing.T) {
	t.Parallel()
	mem := memory.New()
	svc := NewAuthService(&failingUserStore{mem}, mem, mem)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "erin@example.com", "pw", "Erin"); err == nil {
		t.Fatal("Register should fail when the store write fails")
	}

	// A failed registration must not strand the email: no user, no
	// credential, and a later attempt can still claim it.
	if _, err := mem.GetUserByEmail(ctx, "erin@example.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected no user after failed registration, got %v", err)
	}
	if _, err := mem.GetCredential(ctx, "erin@example.com"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected no credential after failed registration, got %v", err)
	}

	healthy := NewAuthService(mem, mem, mem)
	if _, err := healthy.Register(ctx, "erin@example.com", "pw", "Erin"); err != nil {
		t.Errorf("retry against a healthy store should succeed, got %v", err)
	}
	if _, err := healthy.Login(ctx, "erin@example.com", "pw"); err != nil {
		t.Errorf("login after retry should succeed, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "correct", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, errKnown := svc.Login(ctx, "alice@example.com", "wrong")
	_, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever")

	// Both failures must be the same error so callers cannot tell
	// whether the email exists.
	if !errors.Is(errKnown, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errKnown)
	}
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "pw"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.com", ""); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_MultipleTokensStayValid(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "pw", "Alice")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	first, err := svc.Login(ctx, "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	second, err := svc.Login(ctx, "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if first.Token == second.Token {
		t.Error("sequential logins should issue distinct tokens")
	}

	for _, token := range []string{reg.Token, first.Token, second.Token} {
		if _, err := svc.VerifyToken(ctx, token); err != nil {
			t.Errorf("token should be valid, got %v", err)
		}
	}
}

func TestAuthService_VerifyToken_NeverIssued(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.VerifyToken(ctx, "deadbeef"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.VerifyToken(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice@example.com", "pw", "Alice")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Logout(ctx, reg.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := svc.VerifyToken(ctx, reg.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("token should be revoked after logout, got %v", err)
	}

	// Logging out an already-removed token still succeeds.
	if err := svc.Logout(ctx, reg.Token); err != nil {
		t.Errorf("repeat Logout should succeed, got %v", err)
	}
	if err := svc.Logout(ctx, "never-issued"); err != nil {
		t.Errorf("Logout of unknown token should succeed, got %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Errorf("Logout with no token should succeed, got %v", err)
	}
}

func TestAuthService_LogoutLeavesOtherTokens(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "pw", "Alice"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	a, _ := svc.Login(ctx, "alice@example.com", "pw")
	b, _ := svc.Login(ctx, "alice@example.com", "pw")

	if err := svc.Logout(ctx, a.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := svc.VerifyToken(ctx, b.Token); err != nil {
		t.Errorf("logout of one token must not revoke another, got %v", err)
	}
}
