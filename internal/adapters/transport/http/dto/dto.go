package dto

import (
	"strconv"
	"time"

	"github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/model"
)

type AddressDTO struct {
	Cep          int    `json:"cep"`
	Street       string `json:"street"`
	StreetNumber int    `json:"streetNumber"`
	Complement   int    `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type CreateUserDTO struct {
	Name      string       `json:"name"      validate:"required"`
	Email     string       `json:"email"     validate:"required"`
	Password  string       `json:"password"  validate:"required,password"`
	BirthDate string       `json:"birthDate" validate:"required,birthdate"`
	Addresses []AddressDTO `json:"addresses"`
}

type GetUserDTO struct {
	ID string `json:"id" validate:"required"`
}

type ListUsersDTO struct {
	UserLimit *int `json:"userLimit"`
	Offset    *int `json:"offset"`
}

type LoginDTO struct {
	Email      string `json:"email"      validate:"required"`
	Password   string `json:"password"   validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type AddressResponse struct {
	ID           string `json:"id"`
	Cep          int    `json:"cep"`
	Street       string `json:"street"`
	StreetNumber int    `json:"streetNumber"`
	Complement   int    `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type UserResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	BirthDate string            `json:"birthDate"`
	Addresses []AddressResponse `json:"addresses"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	TotalUsers int64          `json:"totalUsers"`
	UserCount  int            `json:"userCount"`
	Offset     int            `json:"offset"`
	LastPage   bool           `json:"lastPage"`
}

type AuthenticationResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func FromUser(u model.User) UserResponse {
	resp := UserResponse{
		ID:        strconv.FormatUint(uint64(u.ID), 10),
		Name:      u.Name,
		Email:     u.Email,
		BirthDate: u.BirthDate.UTC().Format(time.DateOnly),
		Addresses: make([]AddressResponse, 0, len(u.Addresses)),
	}
	for _, a := range u.Addresses {
		resp.Addresses = append(resp.Addresses, AddressResponse{
			ID:           strconv.FormatUint(uint64(a.ID), 10),
			Cep:          a.Cep,
			Street:       a.Street,
			StreetNumber: a.StreetNumber,
			Complement:   a.Complement,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
		})
	}
	return resp
}

func FromUserList(l model.UserList) UserListResponse {
	resp := UserListResponse{
		Users:      make([]UserResponse, 0, len(l.Users)),
		TotalUsers: l.TotalUsers,
		UserCount:  len(l.Users),
		Offset:     l.Offset,
		LastPage:   l.LastPage,
	}
	for _, u := range l.Users {
		resp.Users = append(resp.Users, FromUser(u))
	}
	return resp
}

func FromAuthentication(a model.Authentication) AuthenticationResponse {
	return AuthenticationResponse{User: FromUser(a.User), Token: a.Token, ExpiresAt: a.ExpiresAt}
}
