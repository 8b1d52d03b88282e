package user

import (
	"errors"
	"testing"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	u, err := NewUser(CreateParams{ID: "user-1", Name: "  Maria Silva "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "user-1" || u.Name != "Maria Silva" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to default to now")
	}
	if evs := u.PendingEvents(); len(evs) != 1 || evs[0].EventName() != "user.registered" {
		t.Fatalf("expected user.registered event, got %v", evs)
	}

	if _, err := NewUser(CreateParams{ID: "", Name: "Name"}); !errors.Is(err, ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
	if _, err := NewUser(CreateParams{ID: "user-2", Name: ""}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestEqualByID(t *testing.T) {
	t.Parallel()

	a, _ := Rehydrate(CreateParams{ID: "user-1", Name: "Carlos"})
	b, _ := Rehydrate(CreateParams{ID: "user-1", Name: "Carlos Souza"})
	c, _ := Rehydrate(CreateParams{ID: "user-2", Name: "Carlos"})
	if !a.Equal(b) {
		t.Fatalf("expected users with same id to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected users with different ids to differ")
	}
	if len(a.PendingEvents()) != 0 {
		t.Fatalf("expected rehydrated user to carry no events")
	}
}
