// Package identity models the authenticated caller and the identity
// provider's metadata store, which holds the fast copy of each user's role.
package identity

import (
	"context"
	"fmt"
)

type contextKey string

const callerKey contextKey = "caller"

// Caller is the capability handed from the auth middleware to handlers and
// services. Holding one is proof the request was authenticated.
type Caller struct {
	// ExternalID is the token subject.
	ExternalID string
	// Email is the profile email from the token, possibly empty.
	Email string
}

// WithCaller attaches c to ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFrom returns the caller attached by the auth middleware.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	if !ok || c.ExternalID == "" {
		return Caller{}, false
	}
	return c, true
}

// Role is the access class of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleGuest Role = "GUEST"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleGuest
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}
