package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"
	"github.com/google/uuid"
)

type authCtxKey string

const claimsCtxKey authCtxKey = "claims"

type Claims struct {
	Username string `json:"username"`
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

// jwtAuthMiddleware validates a bearer token when one is present. Requests
// without a token pass through anonymously; handlers that need an identity
// call claimsFromContext themselves.
func jwtAuthMiddleware(jwtKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, err := request.BearerExtractor{}.ExtractToken(r)
			if err != nil {
				if errors.Is(err, request.ErrNoTokenInRequest) {
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims,
				func(t *jwt.Token) (interface{}, error) {
					return jwtKey, nil
				})
			if err != nil || !parsed.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func claimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*Claims)
	return claims, ok
}

func (c *Claims) userUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserUUID)
}
