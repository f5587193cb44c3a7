package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableStore() *SessionStore {
	return NewSessionStore(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be reached without a valid session")
	})

	t.Run("Request without a token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ai", nil)
		rec := httptest.NewRecorder()

		unreachableStore().Middleware(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authentication required")
	})

	t.Run("Unresolvable session is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ai", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()

		unreachableStore().Middleware(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired session")
	})

	t.Run("Cookie token is also looked up", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ai", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
		rec := httptest.NewRecorder()

		unreachableStore().Middleware(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid or expired session")
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"Bearer header", "Bearer abc123", "abc123"},
		{"Missing header", "", ""},
		{"Non-bearer scheme", "Basic dXNlcg==", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.expected, bearerToken(req))
		})
	}
}

func TestIdentityContext(t *testing.T) {
	id := &Identity{UserID: "u1", WorkspaceID: "ws1"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
