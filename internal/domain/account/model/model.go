package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	BirthDate    time.Time `gorm:"not null"`
	Addresses    []Address `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Address struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"index;not null"`
	Cep          int
	Street       string
	StreetNumber int
	Complement   int
	Neighborhood string
	City         string
	State        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthResult is derived once per request and never persisted.
// UserID is zero when the request is anonymous.
type AuthResult struct {
	IsAuthenticated bool
	UserID          uint
}

type UserList struct {
	Users      []User
	TotalUsers int64
	Offset     int
	LastPage   bool
}

type Authentication struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
