package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/araquari-cbm/stationhub/internal/auth"
	"github.com/araquari-cbm/stationhub/internal/shared"
	_ "github.com/araquari-cbm/stationhub/internal/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(nil, auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

func loginRequest(t *testing.T, sm *shared.SessionManager, body string) (*http.Request, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess)), sess
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	repo := &stubRepo{user: &auth.User{
		ID:           3,
		Email:        "chefe@cbm.example",
		Name:         "Cap. Moreira",
		PasswordHash: string(hash),
		IsActive:     true,
	}}
	handler, sm := newAuthHandler(t, repo)

	req, sess := loginRequest(t, sm, `{"email":"chefe@cbm.example","password":"hunter2hunter2"}`)
	res := httptest.NewRecorder()
	handler.MountRoutesForTest().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if sess.User() != "3" {
		t.Fatalf("expected session user 3, got %q", sess.User())
	}
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["email"] != "chefe@cbm.example" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{})

	req, sess := loginRequest(t, sm, `{"email":"nobody@cbm.example","password":"wrongpassword"}`)
	res := httptest.NewRecorder()
	handler.MountRoutesForTest().ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if sess.User() != "" {
		t.Fatalf("session user should stay empty, got %q", sess.User())
	}
}

func TestLoginInactiveUser(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	repo := &stubRepo{user: &auth.User{
		ID:           4,
		Email:        "ex@cbm.example",
		PasswordHash: string(hash),
		IsActive:     false,
	}}
	handler, sm := newAuthHandler(t, repo)

	req, _ := loginRequest(t, sm, `{"email":"ex@cbm.example","password":"hunter2hunter2"}`)
	res := httptest.NewRecorder()
	handler.MountRoutesForTest().ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginValidation(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{})

	req, _ := loginRequest(t, sm, `{"email":"not-an-email","password":"short"}`)
	res := httptest.NewRecorder()
	handler.MountRoutesForTest().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
