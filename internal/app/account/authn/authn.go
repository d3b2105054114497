package authn

import (
	"context"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/jwt"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

var authCtxKey = &contextKey{"auth-result"}

type contextKey struct {
	name string
}

var ErrUnauthenticated = customErrors.New(customErrors.ErrUnauthenticated,
	"Unauthenticated user.",
	"The JWT is either missing or invalid.")

type Resolver struct {
	tokens jwt.TokenService
}

func NewResolver(tokens jwt.TokenService) *Resolver {
	return &Resolver{tokens: tokens}
}

// Resolve never fails: a missing or broken token yields an anonymous result.
func (r *Resolver) Resolve(header string) model.AuthResult {
	raw := bearerToken(header)
	if raw == "" {
		return model.AuthResult{}
	}

	userID, err := r.tokens.Verify(raw)
	if err != nil {
		return model.AuthResult{}
	}
	return model.AuthResult{IsAuthenticated: true, UserID: userID}
}

// bearerToken принимает и "Bearer <jwt>", и голый токен.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func RequireAuthenticated(ar model.AuthResult) error {
	if !ar.IsAuthenticated || ar.UserID == 0 {
		return ErrUnauthenticated
	}
	return nil
}

// WithContext stores the AuthResult in the given context.
func WithContext(ctx context.Context, ar model.AuthResult) context.Context {
	return context.WithValue(ctx, authCtxKey, ar)
}

// FromContext returns an anonymous result if nothing was stored.
func FromContext(ctx context.Context) model.AuthResult {
	ar, _ := ctx.Value(authCtxKey).(model.AuthResult)
	return ar
}
