package middleware

import (
	"net/http"
	"os"
	"strings"

	"livemart-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// AuthMiddleware is passive: it resolves the actor from a bearer token when
// one is present and valid, and lets the request through either way.
// Handlers decide whether an authenticated actor is required.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtKey(), nil
		})

		if err != nil || !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			uid, hasID := claims["user_id"].(float64)
			if hasID {
				email, _ := claims["email"].(string)
				role, _ := claims["role"].(string)
				ctx := utils.SetUserContext(r.Context(), uint(uid), email, role)
				r = r.WithContext(ctx)
			}
		}

		next.ServeHTTP(w, r)
	})
}
