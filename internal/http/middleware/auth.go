package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrJamesThe3rd/fonda/internal/supabase"
)

type claimsKey struct{}

// Claims are the fields of a Supabase access token the API looks at.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ClaimsFromContext returns the verified claims of the current request, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// Auth verifies HS256 Supabase access tokens signed with secret. The raw token is
// forwarded to the store so row-level security applies to the caller.
func Auth(secret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	keyFunc := func(*jwt.Token) (any, error) {
		return secret, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
				slog.Warn("rejected access token", "error", err, "path", r.URL.Path)
				http.Error(w, "invalid access token", http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = supabase.WithAccessToken(ctx, raw)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var errMissingToken = errors.New("missing bearer token")

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("unsupported authorization scheme %q", scheme)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingToken
	}

	return token, nil
}
