package store

import (
	"library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/domain/user"
)

// Repos is the Resource Store as seen by the core: one repository per remote table group.
// Writes through different repositories are independent calls; nothing spans them atomically.
type Repos struct {
	Resources  resource.Repository
	Users      user.Repository
	Borrowings borrowing.Repository
}
