package auth_service

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultSessionDuration = 24 * time.Hour
	monthSessionDuration   = 30 * 24 * time.Hour
)

// AuthService authenticates the single admin account configured through env.
type AuthService struct {
	AdminUserName     string
	AdminPasswordHash string
	JWTSecret         string
	SessionDuration   time.Duration

	logger *logrus.Entry
}

type UserLoginRequest struct {
	UserName         string `json:"user_name" validate:"required"`
	Password         string `json:"password" validate:"required"`
	RememberForMonth bool   `json:"remember_for_month"`
}

type UserLoginResponse struct {
	UserName  string    `json:"user_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
