package jwt

import (
	"errors"
	"strconv"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	jwt2 "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/jwt"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL   = 30 * time.Minute
	RememberTokenTTL = 7 * 24 * time.Hour
)

var ErrMissingSecret = errors.New("token signing secret is not configured")

type JwtUtilImpl struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

type Option func(*JwtUtilImpl)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(j *JwtUtilImpl) { j.now = now }
}

func NewJWTUtil(cfg *config.Config, opts ...Option) (*JwtUtilImpl, error) {
	if cfg == nil || cfg.TokenKey == "" {
		return nil, ErrMissingSecret
	}

	j := &JwtUtilImpl{
		secret:   []byte(cfg.TokenKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JwtUtilImpl) Issue(userID uint, remember bool) (string, time.Time, error) {
	ttl := AccessTokenTTL
	if remember {
		ttl = RememberTokenTTL
	}
	now := j.now()

	claims := jwt2.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) Verify(raw string) (uint, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	if j.audience != "" {
		opts = append(opts, jwt.WithAudience(j.audience))
	}

	token, err := jwt.ParseWithClaims(raw, &jwt2.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.secret, nil
	}, opts...)

	if err != nil || !token.Valid {
		return 0, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.Claims)
	if !ok || claims.UserID == 0 {
		return 0, customErrors.ErrInvalidToken
	}
	if claims.Subject != "" && claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return 0, customErrors.ErrInvalidToken
	}

	return claims.UserID, nil
}
