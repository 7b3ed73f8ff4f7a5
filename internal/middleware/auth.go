package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"mockinterview/api/internal/utils"
)

const userIDKey contextKey = "user_id"

const accessTokenType = "access"

// AccessClaims are the claims of an access token issued by the user service.
type AccessClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Authenticate checks bearer access tokens signed with secret. With an empty
// secret authentication is disabled. When required is false, requests without
// an Authorization header pass through anonymously; a header that is present
// must still carry a valid token.
func Authenticate(secret string, required bool) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(key) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				if required {
					utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "authorization header missing")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := extractBearer(header)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			claims, err := parseAccessToken(tokenString, key)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func parseAccessToken(tokenString string, key []byte) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != accessTokenType {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}

func extractBearer(header string) (string, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(token), nil
}
