package model

import (
	"time"
)

type User struct {
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Not exposed
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	JoinAt         time.Time `json:"join_at"`
	LastLoginAt    time.Time `json:"last_login_at"`
}

// Profile is the public slice of a user record, embedded in message views.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (u *User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
