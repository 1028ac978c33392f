package middleware

import (
	"context"
	"net/http"

	"permitdesk/pkg/logger"
	"permitdesk/pkg/status"
)

const ActorRoleKey contextKey = "actor_role"

// ActorRoleHeader is set by the auth gateway once per request. This
// middleware is the single boundary adapter that reads it; everything below
// receives the role as an explicit parameter, so the role-gated core stays
// pure and testable.
const ActorRoleHeader = "X-Actor-Role"

func ActorRole(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := status.Role(r.Header.Get(ActorRoleHeader))
			if role == "" {
				role = status.RoleViewer
			}
			if !role.Valid() {
				log.Warn("Unknown actor role header",
					"role", string(role),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Unknown actor role"}`))
				return
			}
			ctx := context.WithValue(r.Context(), ActorRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleFromContext returns the acting role resolved at the boundary.
// Defaults to viewer, the role with no actions.
func RoleFromContext(ctx context.Context) status.Role {
	if role, ok := ctx.Value(ActorRoleKey).(status.Role); ok {
		return role
	}
	return status.RoleViewer
}
