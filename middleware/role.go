package middleware

import (
	"context"
	"net/http"

	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
)

type RoleLookup interface {
	GetRole(ctx context.Context, externalID string) (identity.Role, bool, error)
}

// RequireRole lets the request through only if the caller holds one of
// roles. It must run after the auth middleware.
func RequireRole(lookup RoleLookup, roles ...identity.Role) func(http.Handler) http.Handler {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := identity.CallerFrom(r.Context())
			if !ok {
				apperr.Unauthorized(w)
				return
			}

			role, found, err := lookup.GetRole(r.Context(), caller.ExternalID)
			if err != nil {
				logger.Sugar.Errorf("Role lookup failed for %s: %v", caller.ExternalID, err)
				apperr.WriteError(w, http.StatusInternalServerError, "Failed to check role")
				return
			}
			if _, ok := allowed[role]; !found || !ok {
				apperr.WriteError(w, http.StatusForbidden, "Admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
