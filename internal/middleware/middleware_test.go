package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"health-directory/internal/platform/logger"
	"health-directory/internal/ports/auth"
)

type fakeVerifier map[string]auth.Claims

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	c, ok := f[token]
	if !ok {
		return auth.Claims{}, errors.New("bad token")
	}
	return c, nil
}

type fakeRoles map[string]string

func (f fakeRoles) RoleOf(_ context.Context, userID string) (string, error) {
	return f[userID], nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(c.UserID + "/" + c.Role))
}

func TestAuthContext_DevHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "u1")
	req.Header.Set("X-Debug-User-Role", "admin")

	// Sin DEV_AUTH el header de rol no cuenta.
	rec := httptest.NewRecorder()
	AuthContext(nil)(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)
	assert.Equal(t, "u1/", rec.Body.String())

	rec = httptest.NewRecorder()
	DevAuthContext()(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)
	assert.Equal(t, "u1/admin", rec.Body.String())
}

func TestRequireAdmin_RoleHeaderIgnoredOutsideDevAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := AuthContext(nil)(RequireAdmin(fakeRoles{})(ok))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Debug-User-ID", "u1")
	req.Header.Set("X-Debug-User-Role", "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthContext_BearerAndQueryToken(t *testing.T) {
	v := fakeVerifier{"tok": {UserID: "u2", Role: "user"}}
	h := AuthContext(v)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u2/user", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/alerts/ws?access_token=tok", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u2/user", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := DevAuthContext()(RequireAdmin(fakeRoles{"boss": auth.RoleAdmin})(ok))

	cases := []struct {
		user, role string
		want       int
	}{
		{"", "", http.StatusUnauthorized},
		{"u1", "", http.StatusForbidden},
		{"u1", "admin", http.StatusOK},
		{"boss", "", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if c.user != "" {
			req.Header.Set("X-Debug-User-ID", c.user)
		}
		if c.role != "" {
			req.Header.Set("X-Debug-User-Role", c.role)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, c.want, rec.Code, "user=%q role=%q", c.user, c.role)
	}
}

func TestRequestLog_LevelByStatusAndUser(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.FromZap(zap.New(core))

	h := AuthContext(nil)(RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Debug-User-ID", "u-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "u-1", entries[0].ContextMap()["user_id"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.EqualValues(t, http.StatusNotFound, entries[1].ContextMap()["status"])
	}
}
