package dto

import (
	"time"

	domainuser "staybook/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func MapUser(u *domainuser.User) User {
	if u == nil {
		return User{}
	}
	return User{ID: string(u.ID), Name: u.Name, CreatedAt: u.CreatedAt}
}
