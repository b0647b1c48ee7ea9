// Package middleware provides HTTP middleware for case-link authentication.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// caseKey is the context key for storing the authenticated case.
const caseKey ContextKey = "case"

// Case is the intake case a token was issued for.
type Case struct {
	Number      string `json:"caseNumber"`
	ClientName  string `json:"clientName"`
	EntityType  string `json:"entityType"`
	AccountType string `json:"accountType"`
}

// TokenValidator is an interface for validating case tokens.
// This allows the middleware to work with any token service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (CaseGetter, error)
}

// CaseGetter is an interface for extracting the case from token claims.
type CaseGetter interface {
	GetCase() Case
}

// AuthMiddleware creates middleware that validates bearer case tokens and adds
// the case to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := WithCase(r.Context(), claims.GetCase())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// WithCase returns a context carrying c.
func WithCase(ctx context.Context, c Case) context.Context {
	return context.WithValue(ctx, caseKey, c)
}

// GetCase extracts the authenticated case from the request context.
func GetCase(r *http.Request) (Case, error) {
	c, ok := r.Context().Value(caseKey).(Case)
	if !ok {
		return Case{}, fmt.Errorf("case not found in request context")
	}
	return c, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
