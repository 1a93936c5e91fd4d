package resource

import "context"

type Repository interface {
	// GetByID returns errs.ErrNotFound when no resource has that id.
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, f Filter) ([]Resource, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// ListDetails batch-loads the category table for the given resource ids.
	ListDetails(ctx context.Context, c Category, ids []int64) ([]Detail, error)
}
