package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"KANBAN_CRM_BACK-END/internal/auth"
	"KANBAN_CRM_BACK-END/internal/logging"
	"KANBAN_CRM_BACK-END/internal/utils"
)

var errUnsupportedScheme = errors.New("unsupported authorization scheme")

type contextKey int

const (
	identityKey contextKey = iota
	requestIDKey
)

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity set by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// AuthMiddleware validates bearer tokens in the Authorization header and
// attaches the caller identity to the request context.
func AuthMiddleware(tokens *auth.TokenIssuer, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if errors.Is(err, auth.ErrMissingToken) {
				unauthorized(w, "Not authenticated")
				return
			}
			if err != nil {
				logger.Debug(r.Context(), "authorization header rejected", "reason", err.Error())
				unauthorized(w, "Invalid authentication credentials")
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				logger.Debug(r.Context(), "token rejected", "reason", err.Error())
				unauthorized(w, "Invalid authentication credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively. A missing header or an empty
// bearer token yields auth.ErrMissingToken; any other scheme is an error.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || strings.EqualFold(header, "Bearer") {
		return "", auth.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errUnsupportedScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", message)
}
