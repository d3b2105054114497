package authn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appjwt "github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/jwt"
	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/infra/config"
)

func newResolver(t *testing.T, now func() time.Time) (*Resolver, *appjwt.JwtUtilImpl) {
	t.Helper()
	util, err := appjwt.NewJWTUtil(&config.Config{TokenKey: "k"}, appjwt.WithClock(now))
	require.NoError(t, err)
	return NewResolver(util), util
}

func TestResolve_NoToken(t *testing.T) {
	r, _ := newResolver(t, time.Now)

	require.Equal(t, model.AuthResult{}, r.Resolve(""))
	require.Equal(t, model.AuthResult{}, r.Resolve("   "))
}

func TestResolve_ValidToken(t *testing.T) {
	r, util := newResolver(t, time.Now)
	tok, _, err := util.Issue(3, false)
	require.NoError(t, err)

	require.Equal(t, model.AuthResult{IsAuthenticated: true, UserID: 3}, r.Resolve(tok))
	require.Equal(t, model.AuthResult{IsAuthenticated: true, UserID: 3}, r.Resolve("Bearer "+tok))
	require.Equal(t, model.AuthResult{IsAuthenticated: true, UserID: 3}, r.Resolve("bearer "+tok))
}

func TestResolve_InvalidTokenIsAnonymous(t *testing.T) {
	r, _ := newResolver(t, time.Now)
	require.Equal(t, model.AuthResult{}, r.Resolve("garbage"))
	require.Equal(t, model.AuthResult{}, r.Resolve("Bearer "))
}

func TestResolve_ExpiredTokenIsAnonymous(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r, util := newResolver(t, func() time.Time { return now })
	tok, _, err := util.Issue(3, false)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	require.Equal(t, model.AuthResult{}, r.Resolve(tok))
}

func TestRequireAuthenticated(t *testing.T) {
	require.NoError(t, RequireAuthenticated(model.AuthResult{IsAuthenticated: true, UserID: 1}))

	for _, ar := range []model.AuthResult{
		{},
		{IsAuthenticated: true},
		{UserID: 5},
	} {
		err := RequireAuthenticated(ar)
		require.True(t, customErrors.IsUnauthenticated(err))
		env := customErrors.ToEnvelope(err)
		require.Equal(t, 401, env.Code)
		require.Equal(t, "Unauthenticated user.", env.Message)
		require.Equal(t, "The JWT is either missing or invalid.", env.AdditionalInfo)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, model.AuthResult{}, FromContext(ctx))

	ar := model.AuthResult{IsAuthenticated: true, UserID: 9}
	require.Equal(t, ar, FromContext(WithContext(ctx, ar)))
}
