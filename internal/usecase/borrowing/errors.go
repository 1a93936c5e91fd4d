package borrowing

import (
	"fmt"

	domain "library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
)

type stateError struct {
	id       int64
	from, to domain.Status
}

func (e *stateError) Error() string {
	return fmt.Sprintf("borrowing %d: cannot move from %q to %q", e.id, e.from, e.to)
}

func (e *stateError) Unwrap() error { return errs.ErrInvalidState }
