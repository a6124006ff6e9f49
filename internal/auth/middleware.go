package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type clientIDKey struct{}

// WithClientID stores the authenticated client id in the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// ClientIDFrom extracts the authenticated client id from the context.
func ClientIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey{}).(string)
	return id, ok && id != ""
}

// TokenFromRequest reads the session token from the Token header or an
// Authorization: Bearer header.
func TokenFromRequest(r *http.Request) string {
	if t := r.Header.Get("Token"); t != "" {
		return t
	}
	authz := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authz, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// Middleware resolves the request's session token and stores the client id in
// the context; requests without a valid token get 401.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID, err := s.Resolve(r.Context(), TokenFromRequest(r))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}
