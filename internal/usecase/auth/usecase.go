package auth

import (
	"context"
	"errors"
	"strings"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/user"
	"library-borrowing/pkg/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbiddenRole      = errors.New("role not allowed to sign in here")
)

type Usecase struct{ users user.Repository }

func NewUsecase(r user.Repository) *Usecase { return &Usecase{users: r} }

type LoginInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

// Login checks the password only; there is no session or token.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*user.User, error) {
	name := strings.TrimSpace(in.Username)
	if name == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	usr, err := u.users.GetByUsername(ctx, name)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		if errs.IsStoreError(err) {
			return nil, err
		}
		return nil, &errs.StoreError{Message: "get user: " + err.Error(), Err: err}
	}

	if !password.Verify(usr.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !usr.CanLogin() {
		return nil, ErrForbiddenRole
	}
	return usr, nil
}
