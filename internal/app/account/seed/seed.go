package seed

import (
	"context"
	"fmt"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/password"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/repo"
)

const (
	DefaultCount    = 50
	DefaultPassword = "password123"
)

var defaultBirthDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type Result struct {
	Created int
	Skipped int
}

// Users creates "User 1".."User n" with e-mails user<i>@seeded.com.
// Existing e-mails are skipped, so the seeder can be rerun.
func Users(ctx context.Context, users repo.UserRepo, h password.Hasher, n int) (Result, error) {
	var res Result
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		hash, err := h.Hash(DefaultPassword)
		if err != nil {
			return res, err
		}
		u := model.User{
			Name:         fmt.Sprintf("User %d", i),
			Email:        fmt.Sprintf("user%d@seeded.com", i),
			PasswordHash: hash,
			BirthDate:    defaultBirthDate,
		}

		switch err := users.CreateUser(ctx, &u); {
		case err == nil:
			res.Created++
		case customErrors.IsAlreadyExists(err):
			res.Skipped++
		default:
			return res, fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return res, nil
}
