package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gmtc-io/crm/internal/platform/httpx"
)

type claimsContextKey struct{}

// ContextWithClaims stores verified token claims in context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts verified token claims from context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}

func claimsSubject(claims *Claims) (uuid.UUID, error) {
	if claims == nil {
		return uuid.Nil, httpx.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, httpx.ErrUnauthorized
	}
	return id, nil
}

// RequireToken rejects requests without a valid bearer token.
func (t *TokenIssuer) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "bearer token expected")
			return
		}
		claims, err := t.Verify(parts[1])
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}
