package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims are the claims read from the identity provider's session
// token.
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens and attaches an identity.Caller to
// the request context.
type Authenticator struct {
	keyfunc jwt.Keyfunc
	methods []string
	issuer  string
}

// NewHMACAuthenticator verifies HS256 tokens signed with secret.
func NewHMACAuthenticator(secret, issuer string) *Authenticator {
	key := []byte(secret)
	return &Authenticator{
		keyfunc: func(*jwt.Token) (interface{}, error) { return key, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		issuer:  issuer,
	}
}

// NewJWKSAuthenticator verifies RS256 tokens against the keys published at
// jwksURL. Keys are refreshed in the background until ctx is done.
func NewJWKSAuthenticator(ctx context.Context, jwksURL, issuer string) (*Authenticator, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS keyfunc: %w", err)
	}
	return &Authenticator{
		keyfunc: k.Keyfunc,
		methods: []string{jwt.SigningMethodRS256.Alg()},
		issuer:  issuer,
	}, nil
}

func (a *Authenticator) parse(tokenString string) (identity.Caller, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(a.methods)}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, a.keyfunc, opts...)
	if err != nil {
		return identity.Caller{}, err
	}
	if !token.Valid {
		return identity.Caller{}, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return identity.Caller{}, fmt.Errorf("sub claim is missing")
	}
	return identity.Caller{ExternalID: claims.Subject, Email: claims.Email}, nil
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Browsers cannot set headers on WebSocket upgrades, so the feed
		// passes its token in the query string.
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			authHeader := r.Header.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			apperr.Unauthorized(w)
			return
		}

		caller, err := a.parse(tokenString)
		if err != nil {
			logger.Sugar.Debugf("Invalid token: %v", err)
			apperr.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
	})
}
