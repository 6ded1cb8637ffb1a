package access

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/araquari-cbm/stationhub/internal/shared"
)

// ProfileResolver loads the effective profile for a user.
type ProfileResolver interface {
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

type profileContextKey struct{}

// ContextWithProfile stores the resolved profile in context.
func ContextWithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileContextKey{}, p)
}

// ProfileFromContext extracts the profile placed by the middleware.
func ProfileFromContext(ctx context.Context) *Profile {
	p, _ := ctx.Value(profileContextKey{}).(*Profile)
	return p
}

// Middleware wires permission gating for HTTP handlers.
type Middleware struct {
	Resolver ProfileResolver
	Logger   *slog.Logger
}

// RequireViewer admits users whose level for module is reader or editor.
func (m Middleware) RequireViewer(module Module) func(http.Handler) http.Handler {
	return m.require(module, CanView)
}

// RequireEditor admits users whose level for module is editor.
func (m Middleware) RequireEditor(module Module) func(http.Handler) http.Handler {
	return m.require(module, CanEdit)
}

// RequireManager admits users with the manager flag.
func (m Middleware) RequireManager() func(http.Handler) http.Handler {
	return m.require("", func(p *Profile, _ Module) bool { return IsManager(p) })
}

func (m Middleware) require(module Module, allowed func(*Profile, Module) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.currentUserID(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			profile, err := m.Resolver.Profile(r.Context(), userID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("access resolve profile", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !allowed(profile, module) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithProfile(r.Context(), profile)))
		})
	}
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("access parse user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}

// CurrentUserID exposes the session user resolution for handlers that need
// the actor without going through a gate.
func CurrentUserID(r *http.Request) (int64, bool) {
	return Middleware{}.currentUserID(r)
}
