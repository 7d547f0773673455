package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"health-directory/internal/ports/auth"
)

var ErrTokenEmpty = errors.New("token is empty")

const (
	defaultCacheSize = 1024
	defaultCacheTTL  = time.Minute
)

// TokenResolver es lo que el verifier necesita del cliente.
type TokenResolver interface {
	GetUser(ctx context.Context, token string) (auth.Claims, error)
}

type cacheEntry struct {
	claims   auth.Claims
	storedAt time.Time
}

// Verifier implementa auth.AuthVerifier con un cache LRU de tokens válidos,
// para no pegarle a GoTrue en cada request (y en cada reconexión del websocket).
type Verifier struct {
	client TokenResolver
	cache  *lru.Cache[string, cacheEntry]
	ttl    time.Duration
	now    func() time.Time
}

var _ auth.AuthVerifier = (*Verifier)(nil)

// NewVerifier: size<=0 o ttl<=0 usan los defaults.
func NewVerifier(client TokenResolver, size int, ttl time.Duration) *Verifier {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache, _ := lru.New[string, cacheEntry](size)
	return &Verifier{client: client, cache: cache, ttl: ttl, now: time.Now}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrSupabaseNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	key := cacheKey(token)
	if e, ok := v.cache.Get(key); ok {
		if v.now().Sub(e.storedAt) < v.ttl {
			return e.claims, nil
		}
		v.cache.Remove(key)
	}

	claims, err := v.client.GetUser(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("supabase claims missing user id")
	}

	v.cache.Add(key, cacheEntry{claims: claims, storedAt: v.now()})
	return claims, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
