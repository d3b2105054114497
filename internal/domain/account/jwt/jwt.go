package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"userId"`
}

type TokenService interface {
	Issue(userID uint, remember bool) (token string, exp time.Time, err error)
	// Verify returns ErrInvalidToken for every kind of failure.
	Verify(token string) (userID uint, err error)
}
