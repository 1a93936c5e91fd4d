package borrowingmock

import (
	"context"

	domain "library-borrowing/internal/domain/borrowing"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Reads default to context.Canceled; Create defaults to a no-op.
type Repo struct {
	GetByIDFn func(ctx context.Context, id int64) (*domain.Borrowing, error)
	ListFn    func(ctx context.Context, f domain.Filter) ([]domain.Borrowing, error)
	CountFn   func(ctx context.Context, f domain.Filter) (int, error)
	CreateFn  func(ctx context.Context, b *domain.Borrowing) error
	UpdateFn  func(ctx context.Context, id int64, u domain.Update) (*domain.Borrowing, error)
}

func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.Borrowing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Borrowing, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, f domain.Filter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	return 0, context.Canceled
}

func (m *Repo) Create(ctx context.Context, b *domain.Borrowing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, id int64, u domain.Update) (*domain.Borrowing, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, u)
	}
	return nil, context.Canceled
}
