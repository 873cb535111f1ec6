package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ViewerClaims identifies the acting dashboard viewer. Tokens are minted
// by the external auth service; this service only reads them.
type ViewerClaims struct {
	ViewerID string `json:"viewer_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken signs a viewer token with the environment secret and a
// 24h expiry. Used by tests and local tooling; production tokens come
// from the auth service.
func GenerateToken(viewerID, name string) (string, error) {
	return generateToken(getSecretKey(), 24*time.Hour, viewerID, name)
}

func generateToken(secretKey string, expiry time.Duration, viewerID, name string) (string, error) {
	expirationTime := time.Now().Add(expiry)

	claims := &ViewerClaims{
		ViewerID: viewerID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewerID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a viewer token against the environment secret
func ValidateToken(tokenString string) (*ViewerClaims, error) {
	return validateToken(getSecretKey(), tokenString)
}

func validateToken(secretKey, tokenString string) (*ViewerClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&ViewerClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ViewerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// getSecretKey gets the JWT secret key from environment variables
func getSecretKey() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Fallback to a default secret for development (not recommended for production)
		secret = "devJwtSecretDoNotUseInProduction"
	}
	return secret
}
