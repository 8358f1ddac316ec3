package rbac

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// Actor identifies the authenticated user and the role granted at login.
type Actor struct {
	UserID int64
	Role   Role
}

// Middleware wires role authorization helpers for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRole ensures the current actor holds one of the listed roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r.Valid() {
			allowed[r] = struct{}{}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := m.CurrentActor(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[actor.Role]; ok {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAuthenticated ensures a logged-in actor without restricting the role.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return m.RequireRole()
}

// CurrentActor resolves the actor from the request session. An unparseable
// user id or unknown role yields false; callers treat that as a
// data-integrity signal and deny.
func (m Middleware) CurrentActor(r *http.Request) (Actor, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return Actor{}, false
	}
	userID, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("rbac parse user id", slog.String("value", sess.User()))
		}
		return Actor{}, false
	}
	role, ok := ParseRole(sess.Get(shared.SessionRoleKey))
	if !ok {
		if m.Logger != nil {
			m.Logger.Warn("rbac unknown role", slog.String("value", sess.Get(shared.SessionRoleKey)), slog.Int64("user_id", userID))
		}
		return Actor{}, false
	}
	return Actor{UserID: userID, Role: role}, true
}
