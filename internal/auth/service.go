package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AdminStore looks up the stored admin credential.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// Service issues and verifies the admin bearer token. The signing key
// is the only process-wide shared state, set once at startup.
type Service struct {
	admins AdminStore
	secret []byte
	ttl    time.Duration
}

func NewService(admins AdminStore, secret string, ttl time.Duration) *Service {
	return &Service{
		admins: admins,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Login checks the credential against the stored hash and returns a
// signed, time-limited token carrying only the admin assertion.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin": true,
		"exp":   time.Now().Add(s.ttl).Unix(),
	})
	return t.SignedString(s.secret)
}

// ParseToken validates signature, expiry and the admin claim.
func (s *Service) ParseToken(token string) error {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return ErrInvalidToken
	}
	if isAdmin, ok := claims["admin"].(bool); !ok || !isAdmin {
		return ErrInvalidToken
	}
	return nil
}
