package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/validate"
	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/jwt"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/password"
	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/repo"
	lg "github.com/Miraines/MoonyAndStarry/account-service/internal/infra/log"
)

const (
	DefaultUserLimit = 10
	DefaultOffset    = 0
)

var (
	errInvalidPassword = customErrors.New(customErrors.ErrInvalidArgument,
		"Invalid password.",
		"Password needs to contain at least 6 characters, with at least 1 letter and 1 digit.")
	errBirthDate = customErrors.New(customErrors.ErrInvalidArgument,
		"Unreasonable birth date detected.",
		"The birth date must be between the year 1900 and the current date.")
	errEmailInUse = customErrors.New(customErrors.ErrAlreadyExists,
		"E-mail is already in use.",
		"The e-mail must be unique, and the one received is already present in the database.")
	errUserNotFound = customErrors.New(customErrors.ErrNotFound,
		"User does not exist.",
		"No user with the specified ID could be found.")
	errBadCredentials = customErrors.New(customErrors.ErrInvalidCredentials,
		"Incorrect e-mail or password.",
		"The credentials are incorrect. Try again.")
	errBadPagination = customErrors.New(customErrors.ErrInvalidArgument,
		"Invalid pagination parameters.",
		"userLimit and offset must not be negative.")
)

type Service interface {
	CreateUser(context.Context, dto.CreateUserDTO) (model.User, error)
	GetUser(context.Context, dto.GetUserDTO) (model.User, error)
	ListUsers(context.Context, dto.ListUsersDTO) (model.UserList, error)
	Login(context.Context, dto.LoginDTO) (model.Authentication, error)
}

type accountService struct {
	userRepo repo.UserRepo
	hasher   password.Hasher
	tokens   jwt.TokenService
	v        *validator.Validate
	log      *zap.Logger

	cache    repo.UserCache
	cacheTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*accountService)

// WithCache включает read-through кэш для GetUser.
func WithCache(cache repo.UserCache, ttl time.Duration) Option {
	return func(s *accountService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *accountService) { s.log = l }
}

func New(
	ur repo.UserRepo,
	h password.Hasher,
	ts jwt.TokenService,
	v *validator.Validate,
	opts ...Option,
) Service {
	s := &accountService{
		userRepo: ur, hasher: h, tokens: ts, v: v, log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *accountService) CreateUser(ctx context.Context, in dto.CreateUserDTO) (model.User, error) {
	if !validate.IsPasswordAcceptable(in.Password) {
		return model.User{}, errInvalidPassword
	}
	if !validate.IsBirthDatePlausible(in.BirthDate) {
		return model.User{}, errBirthDate
	}
	if err := s.v.Struct(in); err != nil {
		return model.User{}, customErrors.Wrap(customErrors.ErrInvalidArgument, err,
			"Invalid user data.", validate.Describe(err))
	}

	birthDate, err := validate.ParseBirthDate(in.BirthDate)
	if err != nil {
		return model.User{}, errBirthDate
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, s.createFailed(err)
	}

	u := model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
		BirthDate:    birthDate,
		Addresses:    make([]model.Address, 0, len(in.Addresses)),
	}
	for _, a := range in.Addresses {
		u.Addresses = append(u.Addresses, model.Address{
			Cep:          a.Cep,
			Street:       a.Street,
			StreetNumber: a.StreetNumber,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
		})
	}

	if err := s.userRepo.CreateUser(ctx, &u); err != nil {
		if customErrors.IsAlreadyExists(err) {
			return model.User{}, errEmailInUse
		}
		s.log.Error("create user", lg.Email(in.Email), zap.Error(err))
		return model.User{}, s.createFailed(err)
	}

	return u, nil
}

func (s *accountService) createFailed(err error) error {
	return customErrors.Wrap(customErrors.ErrInternal, err,
		"User could not be created.",
		"The user could not be inserted in the database due to an unhandled error.")
}

func (s *accountService) GetUser(ctx context.Context, in dto.GetUserDTO) (model.User, error) {
	// нечисловой id не может совпасть ни с одним пользователем
	id, err := strconv.ParseUint(strings.TrimSpace(in.ID), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return model.User{}, errUserNotFound
	}

	if s.cache != nil {
		u, ok, err := s.cache.Get(ctx, uint(id))
		if err != nil {
			s.log.Warn("user cache get", zap.Uint64("id", id), zap.Error(err))
		} else if ok {
			return u, nil
		}
	}

	u, err := s.userRepo.GetUserByID(ctx, uint(id))
	if err != nil {
		if customErrors.IsNotFound(err) {
			return model.User{}, errUserNotFound
		}
		s.log.Error("get user", zap.Uint64("id", id), zap.Error(err))
		return model.User{}, customErrors.Wrap(customErrors.ErrInternal, err,
			"Could not fetch user data.",
			"User could not be found due to an unhandled error.")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, u, s.cacheTTL); err != nil {
			s.log.Warn("user cache set", zap.Uint64("id", id), zap.Error(err))
		}
	}

	return u, nil
}

func (s *accountService) ListUsers(ctx context.Context, in dto.ListUsersDTO) (model.UserList, error) {
	limit, offset := DefaultUserLimit, DefaultOffset
	if in.UserLimit != nil {
		limit = *in.UserLimit
	}
	if in.Offset != nil {
		offset = *in.Offset
	}
	if limit < 0 || offset < 0 {
		return model.UserList{}, errBadPagination
	}

	listFailed := func(err error) error {
		s.log.Error("list users", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
		return customErrors.Wrap(customErrors.ErrInternal, err,
			"Could not fetch list of users.",
			"User list could not be fetched due to an unhandled error.")
	}

	users, err := s.userRepo.ListUsers(ctx, limit, offset)
	if err != nil {
		return model.UserList{}, listFailed(err)
	}
	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return model.UserList{}, listFailed(err)
	}

	return model.UserList{
		Users:      users,
		TotalUsers: total,
		Offset:     offset,
		LastPage:   int64(offset+len(users)) == total,
	}, nil
}

func (s *accountService) Login(ctx context.Context, in dto.LoginDTO) (model.Authentication, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Authentication{}, errBadCredentials
	}

	u, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if customErrors.IsNotFound(err) {
			// выравниваем время ответа с веткой неверного пароля
			s.hasher.Verify(in.Password, s.fakeHash())
			return model.Authentication{}, errBadCredentials
		}
		s.log.Error("login lookup", lg.Email(in.Email), zap.Error(err))
		return model.Authentication{}, s.loginFailed(err)
	}

	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return model.Authentication{}, errBadCredentials
	}

	token, exp, err := s.tokens.Issue(u.ID, in.RememberMe)
	if err != nil {
		s.log.Error("issue token", zap.Uint("id", u.ID), zap.Error(err))
		return model.Authentication{}, s.loginFailed(err)
	}

	return model.Authentication{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *accountService) loginFailed(err error) error {
	return customErrors.Wrap(customErrors.ErrInternal, err,
		"Could not login into account.",
		"Login could not be done due to an unhandled error.")
}

func (s *accountService) fakeHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equalizer-0")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
