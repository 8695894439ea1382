package auth

import "context"

// Identity describes the authenticated actor as reported by the identity
// provider.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Admin         bool   `json:"admin,omitempty"`
}

// Verified reports whether the identity may read storefront data.
func (i *Identity) Verified() bool {
	return i != nil && i.EmailVerified
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
