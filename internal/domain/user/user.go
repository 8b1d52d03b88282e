package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/events"
)

var (
	ErrIDRequired   = errors.New("user: id is required")
	ErrNameRequired = errors.New("user: name is required")
	ErrNotFound     = errors.New("user: not found")
)

type ID string

// User is the guest identity a booking is made for. It never changes after creation.
type User struct {
	ID        ID
	Name      string
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID        ID
	Name      string
	CreatedAt time.Time
}

func NewUser(params CreateParams) (*User, error) {
	u, err := Rehydrate(params)
	if err != nil {
		return nil, err
	}
	u.Record(UserRegistered{UserID: u.ID, Name: u.Name, At: u.CreatedAt})
	return u, nil
}

// Rehydrate rebuilds a stored user without recording events.
func Rehydrate(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &User{ID: ID(id), Name: name, CreatedAt: now.UTC()}, nil
}

// Equal compares users by identity.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.ID == other.ID
}

type UserRegistered struct {
	UserID ID
	Name   string
	At     time.Time
}

func (e UserRegistered) EventName() string     { return "user.registered" }
func (e UserRegistered) AggregateID() string   { return string(e.UserID) }
func (e UserRegistered) OccurredAt() time.Time { return e.At }
