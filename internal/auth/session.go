// Package auth resolves the caller identity from the platform's token-cookie
// sessions. The AI layer trusts the identity as given; it only needs it to
// scope which channels are accessible.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// keyPrefix namespaces session keys in Redis.
const keyPrefix = "relay:session:"

// ErrSessionNotFound means the token does not map to an active session.
var ErrSessionNotFound = errors.New("session not found")

// Identity is the authenticated caller attached to each request.
type Identity struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
}

// SessionStore looks up session tokens in Redis.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a session store backed by the given Redis client.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Lookup resolves a session token to the identity it belongs to.
func (s *SessionStore) Lookup(ctx context.Context, token string) (*Identity, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &id, nil
}

type contextKey struct{}

// WithIdentity attaches an identity to the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity attached by the middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}

// Middleware authenticates requests via the "token" cookie or an
// Authorization bearer header and attaches the identity to the context.
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie("token"); err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			unauthorized(w, "Authentication required")
			return
		}

		id, err := s.Lookup(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) {
				logrus.Errorf("Session lookup failed: %v", err)
			}
			unauthorized(w, "Invalid or expired session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
