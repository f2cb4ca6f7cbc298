// Package middleware resolves the owner a request acts for.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const ownerKey ContextKey = "owner"

// ClientIDHeader carries the owner id when tokens are not in use.
const ClientIDHeader = "X-Client-ID"

// AnonymousOwner is used when a request names no owner.
const AnonymousOwner = "anonymous"

const maxOwnerLength = 128

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (OwnerGetter, error)
}

// OwnerGetter extracts the owner id from token claims.
type OwnerGetter interface {
	GetOwnerID() string
}

// AuthMiddleware requires a valid bearer token and stores its owner in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			owner := claims.GetOwnerID()
			if owner == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// ClientIDMiddleware takes the owner from the X-Client-ID header, falling back to
// AnonymousOwner when it is missing or unusable.
func ClientIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(ClientIDHeader))
		if owner == "" || len(owner) > maxOwnerLength || strings.ContainsAny(owner, ": \t") {
			owner = AnonymousOwner
		}
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// WithOwner returns ctx carrying owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey, owner)
}

// Owner returns the request's owner, or AnonymousOwner when none was resolved.
func Owner(r *http.Request) string {
	if owner, ok := r.Context().Value(ownerKey).(string); ok && owner != "" {
		return owner
	}
	return AnonymousOwner
}
