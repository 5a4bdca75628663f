package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the bearer token payload. Sid points at a row in sessions,
// so a token stops working as soon as its session is revoked.
type SessionClaims struct {
	Sid  string `json:"sid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func SignSessionToken(secret string, userID, sessionToken uuid.UUID, role string, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		Sid:  sessionToken.String(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || claims.Sid == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
