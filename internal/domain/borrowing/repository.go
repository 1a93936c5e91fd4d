package borrowing

import "context"

type Repository interface {
	// GetByID returns errs.ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (*Borrowing, error)
	// List orders by borrow_date descending.
	List(ctx context.Context, f Filter) ([]Borrowing, error)
	Count(ctx context.Context, f Filter) (int, error)
	// Create stores b and sets the store-assigned ID.
	Create(ctx context.Context, b *Borrowing) error
	// Update applies u and returns the record as stored afterwards.
	Update(ctx context.Context, id int64, u Update) (*Borrowing, error)
}
