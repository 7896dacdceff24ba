// internal/services/auth_service.go
// Authentication service, simplified from the teacher's auth_service.go:
// one configured operator account instead of a user table, so Login
// compares against fllconfig.AuthConfig directly and there is no
// Register/refresh-token flow (no self-service accounts in this service).
package services

import (
	"context"
	"errors"
	"log"

	"fllc-scheduler/internal/fllconfig"
	"fllc-scheduler/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the single configured admin operator.
type AuthService struct {
	cfg    fllconfig.AuthConfig
	logger *log.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg fllconfig.AuthConfig, logger *log.Logger) *AuthService {
	return &AuthService{cfg: cfg, logger: logger}
}

// Login verifies email/password against the configured admin credential
// and returns a signed JWT on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email != s.cfg.AdminEmail {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(email, "admin", s.cfg.JWTSecret, s.cfg.JWTExpiration)
	if err != nil {
		s.logger.Printf("failed to sign token for %s: %v", email, err)
		return "", err
	}
	return token, nil
}

// ValidateToken validates a JWT and returns (userID, role) — here userID
// is always the admin email, matching middleware.RequireAuth's contract.
func (s *AuthService) ValidateToken(token string) (string, string, error) {
	userID, role, err := utils.ValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	return userID, role, nil
}

// Common errors, mirroring the teacher's services.Container error set.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNotFound            = errors.New("resource not found")
)
