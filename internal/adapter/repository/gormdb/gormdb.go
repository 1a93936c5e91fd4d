// Package gormdb implements the Resource Store over gorm (MySQL, SQLite).
package gormdb

import (
	"errors"

	"gorm.io/gorm"

	"library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/domain/store"
	"library-borrowing/internal/domain/user"
)

func NewRepos(db *gorm.DB) store.Repos {
	return store.Repos{
		Resources:  NewResourceRepository(db),
		Users:      NewUserRepository(db),
		Borrowings: NewBorrowingRepository(db),
	}
}

// Migrate creates the tables for local runs. Deployed schemas are managed outside this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&resource.Resource{},
		&resource.BookDetail{},
		&resource.PeriodicalDetail{},
		&resource.MediaDetail{},
		&user.User{},
		&borrowing.Borrowing{},
	)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrNotFound
	}
	return &errs.StoreError{Message: op + ": " + err.Error(), Err: err}
}
