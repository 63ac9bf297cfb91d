package auth

import (
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

type tokenIssuer interface {
	GenerateToken(role string) (string, error)
}

// Service handles back-office sign-in. The site has a single operator, so
// authentication is one configured bcrypt hash and a short-lived token.
type Service struct {
	passwordHash string
	jwt          tokenIssuer
}

func NewService(passwordHash string, jwt tokenIssuer) *Service {
	return &Service{passwordHash: passwordHash, jwt: jwt}
}

func (s *Service) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwt.GenerateToken(adminRole)
}
