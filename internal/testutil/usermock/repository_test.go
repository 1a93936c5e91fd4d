package usermock

import (
	"context"
	"testing"

	domain "library-borrowing/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

func TestRepo(t *testing.T) {
	ctx := context.Background()

	m := &Repo{}
	if u, err := m.GetByID(ctx, 7); u != nil || err != context.Canceled {
		t.Fatalf("GetByID default: got (%v, %v)", u, err)
	}
	if u, err := m.GetByUsername(ctx, "ana"); u != nil || err != context.Canceled {
		t.Fatalf("GetByUsername default: got (%v, %v)", u, err)
	}

	want := &domain.User{ID: 7, Username: "ana"}
	m = &Repo{
		GetByIDFn:       func(context.Context, int64) (*domain.User, error) { return want, nil },
		GetByUsernameFn: func(_ context.Context, name string) (*domain.User, error) { return &domain.User{Username: name}, nil },
	}
	if u, _ := m.GetByID(ctx, 7); u != want {
		t.Fatalf("GetByID: got %v", u)
	}
	if u, _ := m.GetByUsername(ctx, "ana"); u.Username != "ana" {
		t.Fatalf("GetByUsername: got %v", u)
	}
}
