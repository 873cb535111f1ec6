package jwt

import (
	"time"
)

// Service is a wrapper for JWT operations
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new JWT service
func NewService(secretKey string, expiry time.Duration) *Service {
	if secretKey == "" {
		secretKey = getSecretKey()
	}

	if expiry == 0 {
		expiry = 24 * time.Hour
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken generates a viewer token with the service's secret and expiry
func (s *Service) GenerateToken(viewerID, name string) (string, error) {
	return generateToken(s.secretKey, s.expiry, viewerID, name)
}

// ValidateToken validates a viewer token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*ViewerClaims, error) {
	return validateToken(s.secretKey, tokenString)
}
