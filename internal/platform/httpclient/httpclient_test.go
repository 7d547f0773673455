package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SendsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-1", r.Header.Get("apikey"))
		assert.Equal(t, "eq.Pune", r.URL.Query().Get("city"))
		w.Header().Set("Content-Range", "0-0/3")
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "h1"}})
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", 0)
	require.NoError(t, err)
	c.Headers = map[string]string{"apikey": "k-1"}

	var out []map[string]string
	h, err := c.Do(context.Background(), Request{
		Path:  "rest/v1/hospitals",
		Query: url.Values{"city": {"eq.Pune"}},
		Out:   &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "0-0/3", h.Get("Content-Range"))
	assert.Equal(t, "h1", out[0]["id"])
}

func TestDo_Non2xxReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL, 0)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodGet, "/auth/v1/user", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestResolveURL_RelativeWithoutBase(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)
	_, err = c.resolveURL("rest/v1/x")
	assert.Error(t, err)
}
