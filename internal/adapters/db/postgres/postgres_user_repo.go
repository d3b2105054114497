package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

const uniqueViolation = "23505"

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// CreateUser вставляет пользователя и адреса в одной транзакции.
func (p *PostgresUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addresses := user.Addresses
		user.Addresses = nil
		if err := tx.Omit("Addresses").Create(user).Error; err != nil {
			user.Addresses = addresses
			return err
		}
		for i := range addresses {
			addresses[i].UserID = user.ID
		}
		user.Addresses = addresses
		if len(addresses) == 0 {
			return nil
		}
		return tx.Create(&user.Addresses).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "CreateUser")
	}
	return nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uint) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Preload("Addresses").Where("id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Preload("Addresses").Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

// ListUsers orders by name; id breaks ties so pages are stable.
func (p *PostgresUserRepo) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	var users []model.User
	res := p.db.WithContext(ctx).
		Preload("Addresses").
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListUsers")
	}
	if users == nil {
		users = []model.User{}
	}

	return users, nil
}

func (p *PostgresUserRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := p.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, customErrors.WrapInternal(err, "CountUsers")
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
