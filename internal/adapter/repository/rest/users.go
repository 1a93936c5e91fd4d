package rest

import (
	"context"
	"net/url"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/user"
)

const tableUsers = "users"

type userRow struct {
	UserID             int64      `json:"user_id"`
	MembershipID       string     `json:"membership_id"`
	Username           string     `json:"username"`
	Password           string     `json:"password"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	MaxBooks           *int       `json:"max_books"`
	BorrowingDaysLimit *int       `json:"borrowing_days_limit"`
	CreatedAt          *Timestamp `json:"created_at"`
	UpdatedAt          *Timestamp `json:"updated_at"`
}

func (r userRow) toDomain() *user.User {
	u := &user.User{
		ID:           r.UserID,
		MembershipID: r.MembershipID,
		Username:     r.Username,
		PasswordHash: r.Password,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Role:         user.Role(r.Role),
	}
	if r.MaxBooks != nil {
		u.MaxBooks = *r.MaxBooks
	}
	if r.BorrowingDaysLimit != nil {
		u.BorrowingDaysLimit = *r.BorrowingDaysLimit
	}
	if r.CreatedAt != nil {
		u.CreatedAt = r.CreatedAt.Time()
	}
	if r.UpdatedAt != nil {
		u.UpdatedAt = r.UpdatedAt.Time()
	}
	return u
}

type UserRepo struct{ c *Client }

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.first(ctx, url.Values{"user_id": {eq(id)}, "select": {"*"}})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, url.Values{"username": {eq(username)}, "select": {"*"}})
}

func (r *UserRepo) first(ctx context.Context, q url.Values) (*user.User, error) {
	var rows []userRow
	if err := r.c.get(ctx, tableUsers, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	return rows[0].toDomain(), nil
}
