package repo

import (
	"context"
	"time"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

type UserRepo interface {
	// CreateUser persists the user together with its addresses.
	CreateUser(ctx context.Context, u *model.User) error

	GetUserByID(ctx context.Context, id uint) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	ListUsers(ctx context.Context, limit, offset int) ([]model.User, error)

	CountUsers(ctx context.Context) (int64, error)
}

type UserCache interface {
	Get(ctx context.Context, id uint) (model.User, bool, error)

	Set(ctx context.Context, u model.User, ttl time.Duration) error
}
