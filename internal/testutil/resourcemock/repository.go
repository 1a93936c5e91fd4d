package resourcemock

import (
	"context"

	domain "library-borrowing/internal/domain/resource"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Reads default to context.Canceled; writes default to a no-op.
type Repo struct {
	GetByIDFn      func(ctx context.Context, id int64) (*domain.Resource, error)
	ListFn         func(ctx context.Context, f domain.Filter) ([]domain.Resource, error)
	UpdateStatusFn func(ctx context.Context, id int64, status domain.Status) error
	ListDetailsFn  func(ctx context.Context, c domain.Category, ids []int64) ([]domain.Detail, error)
}

func (m *Repo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Resource, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *Repo) ListDetails(ctx context.Context, c domain.Category, ids []int64) ([]domain.Detail, error) {
	if m.ListDetailsFn != nil {
		return m.ListDetailsFn(ctx, c, ids)
	}
	return nil, context.Canceled
}
