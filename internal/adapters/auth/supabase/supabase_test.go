package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-directory/internal/platform/httpclient"
	"health-directory/internal/ports/auth"
)

func newGoTrue(t *testing.T, calls *int) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u-1","email":"ana@example.com","app_metadata":{"role":"admin"}}`))
		case "Bearer sneaky":
			_, _ = w.Write([]byte(`{"id":"u-2","user_metadata":{"role":"admin"}}`))
		case "Bearer boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	t.Cleanup(srv.Close)

	hc, err := httpclient.New(srv.URL+"/auth/v1", time.Second)
	require.NoError(t, err)
	return NewClientWithHTTP(hc, "anon")
}

func TestClient_GetUser(t *testing.T) {
	calls := 0
	c := newGoTrue(t, &calls)
	ctx := context.Background()

	claims, err := c.GetUser(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{UserID: "u-1", Email: "ana@example.com", Role: "admin"}, claims)

	// user_metadata no puede auto-asignarse admin.
	claims, err = c.GetUser(ctx, "sneaky")
	require.NoError(t, err)
	assert.Equal(t, "", claims.Role)

	_, err = c.GetUser(ctx, "bad")
	assert.True(t, errors.Is(err, ErrSupabaseUnauthorized))

	_, err = c.GetUser(ctx, "boom")
	assert.True(t, errors.Is(err, ErrSupabaseUpstream))
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{URL: "https://x.supabase.co"})
	assert.True(t, errors.Is(err, ErrSupabaseNotConfigured))
}

func TestVerifier_CachesUntilTTL(t *testing.T) {
	calls := 0
	v := NewVerifier(newGoTrue(t, &calls), 8, time.Minute)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c, err := v.Verify(ctx, "good")
		require.NoError(t, err)
		assert.Equal(t, "u-1", c.UserID)
	}
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Minute)
	_, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// Los errores no se cachean.
	_, err = v.Verify(ctx, "bad")
	assert.Error(t, err)
	_, err = v.Verify(ctx, "bad")
	assert.Error(t, err)
	assert.Equal(t, 4, calls)

	_, err = v.Verify(ctx, "  ")
	assert.True(t, errors.Is(err, ErrTokenEmpty))
}
