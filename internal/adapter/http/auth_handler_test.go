package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/user"
	"library-borrowing/pkg/password"
)

func TestLogin(t *testing.T) {
	hash, err := password.Hash("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	m := newMocks()
	m.users.GetByUsernameFn = func(ctx context.Context, name string) (*user.User, error) {
		switch name {
		case "ana":
			return &user.User{ID: 42, Username: "ana", PasswordHash: hash, Role: user.RoleStudent}, nil
		case "lib":
			return &user.User{ID: 3, Username: "lib", PasswordHash: hash, Role: user.RoleLibrarian}, nil
		}
		return nil, errs.ErrNotFound
	}
	e := newServer(m, nil)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"ok", map[string]any{"username": "ana", "password": "s3cret"}, stdhttp.StatusOK},
		{"wrong password", map[string]any{"username": "ana", "password": "nope"}, stdhttp.StatusUnauthorized},
		{"unknown user", map[string]any{"username": "bob", "password": "s3cret"}, stdhttp.StatusUnauthorized},
		{"librarian", map[string]any{"username": "lib", "password": "s3cret"}, stdhttp.StatusForbidden},
		{"missing password", map[string]any{"username": "ana"}, stdhttp.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, stdhttp.MethodPost, "/auth/login", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, rec.Code, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), hash) {
				t.Fatalf("password hash leaked: %s", rec.Body.String())
			}
		})
	}
}
