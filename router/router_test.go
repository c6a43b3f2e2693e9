package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"formdesk/middleware"
	"formdesk/pkg/identity"
	"formdesk/socket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-secret"

type testEnv struct {
	handler  http.Handler
	mock     sqlmock.Sqlmock
	metadata *identity.MetadataStore
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := socket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	meta := identity.NewMetadataStore(16, time.Hour)
	h := Setup(Deps{
		DB:         db,
		Hub:        hub,
		Auth:       middleware.NewHMACAuthenticator(secret, ""),
		Metadata:   meta,
		CORSOrigin: "*",
	})
	return &testEnv{handler: h, mock: mock, metadata: meta}
}

func token(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.com",
		"exp":   jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func (e *testEnv) do(method, path, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	env := newEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", "", "").Code)

	env.mock.ExpectPing()
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/ready", "", "").Code)

	env.mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, env.do(http.MethodGet, "/health/ready", "", "").Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newEnv(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/forms"},
		{http.MethodPost, "/forms"},
		{http.MethodGet, "/role"},
		{http.MethodPost, "/role"},
		{http.MethodGet, "/ws"},
	} {
		rr := env.do(route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, route.path)
	}
}

func TestGuestCannotMutateForms(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.metadata.WriteRole(context.Background(), "user_guest", identity.RoleGuest))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := env.do(method, "/forms", `{}`, token(t, "user_guest"))
		assert.Equal(t, http.StatusForbidden, rr.Code, method)
		assert.JSONEq(t, `{"error":"Admin role required"}`, rr.Body.String())
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestAdminCreateIsValidatedBeforeStorage(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, env.metadata.WriteRole(context.Background(), "user_admin", identity.RoleAdmin))

	body := `{"name":"Asha","address":"","pin":"560001","phone":"9876543210"}`
	rr := env.do(http.MethodPost, "/forms", body, token(t, "user_admin"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"All fields are required"}`, rr.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRoleLookupFallsBackToUsersTable(t *testing.T) {
	env := newEnv(t)
	now := time.Now()

	env.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE external_id = $1")).
		WithArgs("user_admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "email", "role", "created_at", "updated_at"}).
			AddRow("u-1", "user_admin", "user_admin@example.com", "ADMIN", now, now))

	rr := env.do(http.MethodGet, "/role", "", token(t, "user_admin"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"role":"ADMIN"}`, rr.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGuestCanListForms(t *testing.T) {
	env := newEnv(t)
	now := time.Now()

	env.mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE external_id = $1")).
		WithArgs("user_guest").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-2"))
	env.mock.ExpectQuery(regexp.QuoteMeta("FROM forms ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "pin", "phone", "owner_id", "created_at", "updated_at"}).
			AddRow("f-1", "Asha", "12 Lake Rd", "560001", "9876543210", "u-1", now, now))

	rr := env.do(http.MethodGet, "/forms", "", token(t, "user_guest"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"f-1"`)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
