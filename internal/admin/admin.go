package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

var ErrInvalidToken = errors.New("invalid token")

// HashToken bcrypt-hashes an operator token for ADMIN_TOKEN_HASH.
func HashToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// VerifyToken checks if the provided token matches the stored hash
func VerifyToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken)) == nil
}

// IssueSession signs an admin session JWT valid for ttl.
func IssueSession(secret string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{"role": adminRole, "exp": jwt.NewNumericDate(exp).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, exp, nil
}

// ValidateSession verifies an admin session JWT.
func ValidateSession(secret, token string) error {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return ErrInvalidToken
	}
	return nil
}
