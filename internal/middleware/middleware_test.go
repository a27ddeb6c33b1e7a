package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/dto"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/ratelimit"
)

const testSecret = "middleware-test-secret-0123456789"

func protected(t *testing.T, tokens *auth.TokenIssuer) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", id.Email)
		w.WriteHeader(http.StatusNoContent)
	})
	return AuthMiddleware(tokens, logging.Discard())(next)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	valid, err := tokens.Issue("a@x.com", 7)
	require.NoError(t, err)

	expired, err := auth.NewTokenIssuer(testSecret, time.Minute).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		Issue("a@x.com", 7)
	require.NoError(t, err)

	foreign, err := auth.NewTokenIssuer("another-secret-another-secret-0000", time.Hour).Issue("a@x.com", 7)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent, ""},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent, ""},
		{"missing header", "", http.StatusUnauthorized, "Not authenticated"},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid authentication credentials"},
		{"token without scheme", valid, http.StatusUnauthorized, "Invalid authentication credentials"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Not authenticated"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Invalid authentication credentials"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Invalid authentication credentials"},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, "Invalid authentication credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/crm", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected(t, tokens).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "a@x.com", rec.Header().Get("X-User"))
				return
			}
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			assert.Equal(t, tt.message, decodeError(t, rec).Message)
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestLogger_KeepsValidIncomingID(t *testing.T) {
	incoming := uuid.NewString()
	h := RequestLogger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))
}

type fakeLimiter struct {
	allowed int
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (*ratelimit.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	if f.allowed > 0 {
		f.allowed--
		return &ratelimit.Result{Allowed: true, Remaining: f.allowed, Limit: 2}, nil
	}
	return &ratelimit.Result{Allowed: false, Limit: 2, RetryAfter: 1500 * time.Millisecond}, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{allowed: 2}
	h := RateLimit(limiter, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	second := send()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests", decodeError(t, blocked).Error)

	assert.Equal(t, "192.0.2.1:/login", limiter.keys[0])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("connection refused")}
	h := RateLimit(limiter, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
