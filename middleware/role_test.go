package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"formdesk/pkg/identity"

	"github.com/stretchr/testify/assert"
)

type stubLookup struct {
	roles map[string]identity.Role
	err   error
}

func (s stubLookup) GetRole(_ context.Context, externalID string) (identity.Role, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	r, ok := s.roles[externalID]
	return r, ok, nil
}

func TestRequireRole(t *testing.T) {
	lookup := stubLookup{roles: map[string]identity.Role{
		"user_admin": identity.RoleAdmin,
		"user_guest": identity.RoleGuest,
	}}

	tests := []struct {
		name   string
		caller string
		lookup RoleLookup
		status int
		body   string
	}{
		{"admin passes", "user_admin", lookup, http.StatusOK, ""},
		{"guest is forbidden", "user_guest", lookup, http.StatusForbidden, `{"error":"Admin role required"}`},
		{"no role is forbidden", "user_new", lookup, http.StatusForbidden, `{"error":"Admin role required"}`},
		{"no caller", "", lookup, http.StatusUnauthorized, `{"error":"Unauthorized"}`},
		{"lookup failure", "user_admin", stubLookup{err: errors.New("db down")}, http.StatusInternalServerError, `{"error":"Failed to check role"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/forms", nil)
			if tt.caller != "" {
				req = req.WithContext(identity.WithCaller(req.Context(), identity.Caller{ExternalID: tt.caller}))
			}
			rr := httptest.NewRecorder()
			RequireRole(tt.lookup, identity.RoleAdmin)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rr.Body.String())
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORSMiddleware("https://app.formdesk.test")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/forms", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.formdesk.test", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}
