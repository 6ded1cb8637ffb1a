package access_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/shared"
)

type stubResolver struct {
	profiles map[int64]*access.Profile
	err      error
}

func (s *stubResolver) Profile(ctx context.Context, userID int64) (*access.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return access.DefaultProfile(userID), nil
}

func requestWithUser(t *testing.T, userID string) *http.Request {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", 0, false)

	req := httptest.NewRequest(http.MethodGet, "/notices", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireViewerUnauthenticated(t *testing.T) {
	mw := access.Middleware{Resolver: &stubResolver{}}
	handler := mw.RequireViewer(access.ModuleNotices)(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, ""))
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireViewerDenied(t *testing.T) {
	mw := access.Middleware{Resolver: &stubResolver{}}
	handler := mw.RequireViewer(access.ModuleNotices)(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, "42"))
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireViewerGranted(t *testing.T) {
	profile := access.DefaultProfile(42)
	profile.Levels[access.ModuleNotices] = access.LevelReader
	mw := access.Middleware{Resolver: &stubResolver{profiles: map[int64]*access.Profile{42: profile}}}

	var seen *access.Profile
	handler := mw.RequireViewer(access.ModuleNotices)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = access.ProfileFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, "42"))
	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, seen)
	require.Equal(t, int64(42), seen.UserID)
}

func TestRequireEditorRejectsReader(t *testing.T) {
	profile := access.DefaultProfile(42)
	profile.Levels[access.ModuleSocial] = access.LevelReader
	mw := access.Middleware{Resolver: &stubResolver{profiles: map[int64]*access.Profile{42: profile}}}
	handler := mw.RequireEditor(access.ModuleSocial)(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, "42"))
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireManager(t *testing.T) {
	manager := access.DefaultProfile(1)
	manager.Manager = true
	mw := access.Middleware{Resolver: &stubResolver{profiles: map[int64]*access.Profile{1: manager}}}
	handler := mw.RequireManager()(okHandler())

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, "1"))
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, requestWithUser(t, "2"))
	require.Equal(t, http.StatusForbidden, res.Code)
}
