package borrowingmock

import (
	"context"
	"errors"
	"testing"

	domain "library-borrowing/internal/domain/borrowing"
)

var _ domain.Repository = (*Repo)(nil)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if b, err := m.GetByID(ctx, 1); b != nil || err != context.Canceled {
		t.Fatalf("GetByID default: got (%v, %v)", b, err)
	}
	if bs, err := m.List(ctx, domain.Filter{}); bs != nil || err != context.Canceled {
		t.Fatalf("List default: got (%v, %v)", bs, err)
	}
	if n, err := m.Count(ctx, domain.Filter{}); n != 0 || err != context.Canceled {
		t.Fatalf("Count default: got (%d, %v)", n, err)
	}
	if b, err := m.Update(ctx, 1, domain.Update{}); b != nil || err != context.Canceled {
		t.Fatalf("Update default: got (%v, %v)", b, err)
	}
	if err := m.Create(ctx, &domain.Borrowing{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	b := &domain.Borrowing{UserID: 7, ResourceID: 42}
	wantErr := errors.New("boom")

	called := false
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Borrowing) error {
			called = true
			if gotCtx != ctx || got != b {
				t.Fatalf("arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, b); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}
}

func TestRepo_Update(t *testing.T) {
	active := domain.StatusActive
	m := &Repo{
		UpdateFn: func(_ context.Context, id int64, u domain.Update) (*domain.Borrowing, error) {
			return &domain.Borrowing{ID: id, Status: *u.Status}, nil
		},
	}
	got, err := m.Update(context.Background(), 9, domain.Update{Status: &active})
	if err != nil || got.ID != 9 || got.Status != domain.StatusActive {
		t.Fatalf("Update: got (%+v, %v)", got, err)
	}
}
