package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type service struct {
	adminEmail string
	adminHash  string
	tokens     *TokenService
}

// NewService creates the admin login service. The administrator credential is
// configured out of band; regular shoppers authenticate with the external
// identity provider and only present tokens here.
func NewService(adminEmail, adminHash string, tokens *TokenService) Service {
	return &service{adminEmail: adminEmail, adminHash: adminHash, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if email != s.adminEmail {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.tokens.Issue(Identity{
		ID:            "admin",
		Email:         email,
		EmailVerified: true,
		Admin:         true,
	}, 24*time.Hour)
}
