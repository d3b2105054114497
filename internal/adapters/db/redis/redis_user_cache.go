package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

const keyPrefix = "user:"

// defaultTTL используется, если TTL не задан.
const defaultTTL = 5 * time.Minute

type RedisUserCache struct {
	client *redis.Client
}

func NewRedisUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{
		client: client,
	}
}

type cachedAddress struct {
	ID           uint   `json:"id"`
	Cep          int    `json:"cep"`
	Street       string `json:"street"`
	StreetNumber int    `json:"streetNumber"`
	Complement   int    `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// cachedUser намеренно не содержит хэш пароля.
type cachedUser struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	BirthDate time.Time       `json:"birthDate"`
	Addresses []cachedAddress `json:"addresses"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func key(id uint) string {
	return keyPrefix + strconv.FormatUint(uint64(id), 10)
}

func (r *RedisUserCache) Get(ctx context.Context, id uint) (model.User, bool, error) {
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return model.User{}, false, nil // ключа нет
	case err != nil:
		return model.User{}, false, err
	}

	var c cachedUser
	if err := json.Unmarshal(raw, &c); err != nil {
		// битую запись просто выкидываем
		_ = r.client.Del(ctx, key(id)).Err()
		return model.User{}, false, err
	}
	return c.toModel(), true, nil
}

func (r *RedisUserCache) Set(ctx context.Context, u model.User, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	raw, err := json.Marshal(fromModel(u))
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(u.ID), raw, ttl).Err()
}

// Ping используется health-чекером.
func (r *RedisUserCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func fromModel(u model.User) cachedUser {
	c := cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		BirthDate: u.BirthDate,
		Addresses: make([]cachedAddress, 0, len(u.Addresses)),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	for _, a := range u.Addresses {
		c.Addresses = append(c.Addresses, cachedAddress{
			ID:           a.ID,
			Cep:          a.Cep,
			Street:       a.Street,
			StreetNumber: a.StreetNumber,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
		})
	}
	return c
}

func (c cachedUser) toModel() model.User {
	u := model.User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		BirthDate: c.BirthDate,
		Addresses: make([]model.Address, 0, len(c.Addresses)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, a := range c.Addresses {
		u.Addresses = append(u.Addresses, model.Address{
			ID:           a.ID,
			UserID:       c.ID,
			Cep:          a.Cep,
			Street:       a.Street,
			StreetNumber: a.StreetNumber,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
		})
	}
	return u
}
