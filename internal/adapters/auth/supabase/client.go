package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"health-directory/internal/platform/httpclient"
	"health-directory/internal/ports/auth"
)

var (
	ErrSupabaseNotConfigured = errors.New("supabase auth not configured")
	ErrSupabaseUnauthorized  = errors.New("supabase unauthorized")
	ErrSupabaseUpstream      = errors.New("supabase upstream error")
)

// Config del cliente GoTrue (auth de Supabase).
type Config struct {
	URL string
	// AnonKey va en el header apikey; el token del usuario en Authorization.
	AnonKey string
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" || strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, ErrSupabaseNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.New(base+"/auth/v1", timeout)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(hc, cfg.AnonKey), nil
}

// NewClientWithHTTP permite inyectar el client (tests).
func NewClientWithHTTP(hc *httpclient.Client, anonKey string) *Client {
	return &Client{http: hc, anonKey: strings.TrimSpace(anonKey)}
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// GetUser resuelve el token contra GET /auth/v1/user.
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if c == nil || c.http == nil {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrSupabaseUnauthorized
	}

	var out userResponse
	err := c.http.DoJSON(ctx, http.MethodGet, "/user", map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + token,
	}, nil, &out)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, ErrSupabaseUnauthorized
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrSupabaseUpstream, err)
		}
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing id", ErrSupabaseUpstream)
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
		Role:   roleFrom(out),
	}, nil
}

// roleFrom: app_metadata.role manda (sólo lo edita el service role);
// user_metadata.role sólo se acepta si no es admin.
func roleFrom(u userResponse) string {
	if r, ok := u.AppMetadata["role"].(string); ok && strings.TrimSpace(r) != "" {
		return strings.TrimSpace(r)
	}
	if r, ok := u.UserMetadata["role"].(string); ok {
		if r = strings.TrimSpace(r); r != "" && r != auth.RoleAdmin {
			return r
		}
	}
	return ""
}
