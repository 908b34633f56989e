package auth_service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
	"github.com/tcp_snm/pulse/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func (a *AuthService) Start() {
	if a.JWTSecret == "" {
		panic("auth service requires a jwt secret")
	}
	if a.AdminUserName == "" || a.AdminPasswordHash == "" {
		panic("auth service requires admin credentials")
	}
	if _, err := bcrypt.Cost([]byte(a.AdminPasswordHash)); err != nil {
		panic("admin password hash is not a bcrypt hash")
	}
	if a.SessionDuration <= 0 {
		a.SessionDuration = DefaultSessionDuration
	}
	a.logger = logrus.WithField("from", "auth_service")
}

// Login checks the admin credentials and returns a signed session token.
func (a *AuthService) Login(
	ctx context.Context,
	request UserLoginRequest,
) (UserLoginResponse, error) {
	if err := service.ValidateInput(request); err != nil {
		return UserLoginResponse{}, err
	}

	nameMatches := subtle.ConstantTimeCompare([]byte(request.UserName), []byte(a.AdminUserName)) == 1
	err := bcrypt.CompareHashAndPassword([]byte(a.AdminPasswordHash), []byte(request.Password))
	if !nameMatches || err != nil {
		a.logger.Warnf("failed login attempt for user %v", request.UserName)
		return UserLoginResponse{}, pulse_errors.ErrInvalidUserCredentials
	}

	duration := a.SessionDuration
	if request.RememberForMonth {
		duration = monthSessionDuration
	}
	expiresAt := time.Now().Add(duration)

	token, err := a.generateToken(request.UserName, expiresAt)
	if err != nil {
		return UserLoginResponse{}, err
	}

	return UserLoginResponse{
		UserName:  request.UserName,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (a *AuthService) generateToken(userName string, expiresAt time.Time) (string, error) {
	claims := service.UserCredentialClaims{
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.JWTSecret))
	if err != nil {
		err = fmt.Errorf("%w, cannot sign jwt token, %w", pulse_errors.ErrInternal, err)
		a.logger.Error(err)
		return "", err
	}
	return token, nil
}

// ParseToken validates a session token and returns its claims.
func (a *AuthService) ParseToken(tokenString string) (service.UserCredentialClaims, error) {
	var claims service.UserCredentialClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return service.UserCredentialClaims{}, fmt.Errorf(
			"%w, invalid session token, %v",
			pulse_errors.ErrInvalidRequestCredentials,
			err,
		)
	}
	if claims.UserName != a.AdminUserName {
		return service.UserCredentialClaims{}, fmt.Errorf(
			"%w, %v is not the admin",
			pulse_errors.ErrUnAuthorized,
			claims.UserName,
		)
	}
	return claims, nil
}
