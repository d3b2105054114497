package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/adapters/transport/http/dto"
	appsvc "github.com/Miraines/MoonyAndStarry/account-service/internal/app/account/service"
	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
)

const helloMessage = "Hello World!"

func invalidRequest(err error) error {
	return customErrors.Wrap(customErrors.ErrInvalidArgument, err,
		"Invalid operation request.", err.Error())
}

func decode(vars json.RawMessage, dst any) error {
	if len(vars) == 0 || string(vars) == "null" {
		return nil
	}
	if err := json.Unmarshal(vars, dst); err != nil {
		return invalidRequest(err)
	}
	return nil
}

// NewOperations регистрирует все операции сервиса.
func NewOperations(svc appsvc.Service) (*Registry, error) {
	r := NewRegistry()
	ops := []Operation{
		{Name: "hello", Kind: Query, Protected: true, Resolve: hello},
		{Name: "user", Kind: Query, Protected: true, Resolve: getUser(svc)},
		{Name: "users", Kind: Query, Protected: true, Resolve: listUsers(svc)},
		{Name: "createUser", Kind: Mutation, Protected: true, Resolve: createUser(svc)},
		{Name: "login", Kind: Mutation, Protected: false, Resolve: login(svc)},
	}
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// userID принимает id и строкой, и числом.
type userID string

func (id *userID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = userID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("userId.id must be a string or a number")
	}
	*id = userID(n.String())
	return nil
}

func hello(context.Context, json.RawMessage) (any, error) {
	return helloMessage, nil
}

func getUser(svc appsvc.Service) Resolver {
	return func(ctx context.Context, vars json.RawMessage) (any, error) {
		var in struct {
			UserID *struct {
				ID userID `json:"id"`
			} `json:"userId"`
		}
		if err := decode(vars, &in); err != nil {
			return nil, err
		}
		if in.UserID == nil {
			return nil, invalidRequest(errors.New("variable userId is required"))
		}

		u, err := svc.GetUser(ctx, dto.GetUserDTO{ID: string(in.UserID.ID)})
		if err != nil {
			return nil, err
		}
		return dto.FromUser(u), nil
	}
}

func listUsers(svc appsvc.Service) Resolver {
	return func(ctx context.Context, vars json.RawMessage) (any, error) {
		var in struct {
			UsersInput *dto.ListUsersDTO `json:"usersInput"`
		}
		if err := decode(vars, &in); err != nil {
			return nil, err
		}
		var q dto.ListUsersDTO
		if in.UsersInput != nil {
			q = *in.UsersInput
		}

		list, err := svc.ListUsers(ctx, q)
		if err != nil {
			return nil, err
		}
		return dto.FromUserList(list), nil
	}
}

func createUser(svc appsvc.Service) Resolver {
	return func(ctx context.Context, vars json.RawMessage) (any, error) {
		var in struct {
			User *dto.CreateUserDTO `json:"user"`
		}
		if err := decode(vars, &in); err != nil {
			return nil, err
		}
		if in.User == nil {
			return nil, invalidRequest(errors.New("variable user is required"))
		}

		u, err := svc.CreateUser(ctx, *in.User)
		if err != nil {
			return nil, err
		}
		return dto.FromUser(u), nil
	}
}

func login(svc appsvc.Service) Resolver {
	return func(ctx context.Context, vars json.RawMessage) (any, error) {
		var in struct {
			LoginInput *dto.LoginDTO `json:"loginInput"`
		}
		if err := decode(vars, &in); err != nil {
			return nil, err
		}
		if in.LoginInput == nil {
			return nil, invalidRequest(errors.New("variable loginInput is required"))
		}

		auth, err := svc.Login(ctx, *in.LoginInput)
		if err != nil {
			return nil, err
		}
		return dto.FromAuthentication(auth), nil
	}
}
