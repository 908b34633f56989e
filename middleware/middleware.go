package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service"
)

const (
	KeyJwtSessionCookieName = "jwt_session"
	bearerPrefix            = "Bearer "
)

// TokenParser is satisfied by *auth_service.AuthService.
type TokenParser interface {
	ParseToken(token string) (service.UserCredentialClaims, error)
}

// JWTMiddleware lets a request through only with a valid session token, read
// from the session cookie or an Authorization bearer header.
func JWTMiddleware(parser TokenParser) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				http.Error(w, "missing session token, please login", http.StatusUnauthorized)
				return
			}

			claims, err := parser.ParseToken(token)
			if err != nil {
				log.WithField("path", r.URL.Path).Warn(err)
				status := http.StatusUnauthorized
				if errors.Is(err, pulse_errors.ErrUnAuthorized) {
					status = http.StatusForbidden
				}
				http.Error(w, err.Error(), status)
				return
			}

			ctx := context.WithValue(r.Context(), service.KeyCtxUserCredClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(KeyJwtSessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}
