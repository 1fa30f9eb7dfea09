package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/SambhavSurthi/StockInsight/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService("test-secret", st)
}

func TestSignupLoginVerify(t *testing.T) {
	svc := testService(t)

	user, err := svc.Signup("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password must be stored hashed")
	}

	token, err := svc.Login("alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("expected user id %d, got %d", user.ID, userID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Signup("bob@example.com", "correct-horse"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login("bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email must also yield ErrInvalidCredentials, got %v", err)
	}
}

func TestVerify_RejectsGarbageAndForeignTokens(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Verify("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	other := testService(t)
	if _, err := other.Signup("carol@example.com", "password1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	token, err := other.Login("carol@example.com", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	other.secret = []byte("different-secret")
	if _, err := other.Verify(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := testService(t)
	if _, err := svc.Signup("dave@example.com", "password1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup("dave@example.com", "password2"); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}
