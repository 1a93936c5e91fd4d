package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-borrowing/internal/domain/borrowing"
)

type BorrowingRepository struct{ db *gorm.DB }

func NewBorrowingRepository(db *gorm.DB) *BorrowingRepository { return &BorrowingRepository{db: db} }

func (r *BorrowingRepository) GetByID(ctx context.Context, id int64) (*borrowing.Borrowing, error) {
	var out borrowing.Borrowing
	if err := r.db.WithContext(ctx).Where("borrowing_id = ?", id).First(&out).Error; err != nil {
		return nil, wrap("get borrowing", err)
	}
	return &out, nil
}

func (r *BorrowingRepository) List(ctx context.Context, f borrowing.Filter) ([]borrowing.Borrowing, error) {
	q := applyFilter(r.db.WithContext(ctx).Model(&borrowing.Borrowing{}), f)
	if f.WithResource {
		q = q.Preload("Resource")
	}
	if f.WithUser {
		q = q.Preload("User")
	}

	var out []borrowing.Borrowing
	if err := q.Order("borrow_date DESC, borrowing_id DESC").Find(&out).Error; err != nil {
		return nil, wrap("list borrowings", err)
	}
	return out, nil
}

func (r *BorrowingRepository) Count(ctx context.Context, f borrowing.Filter) (int, error) {
	var n int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&borrowing.Borrowing{}), f).Count(&n).Error; err != nil {
		return 0, wrap("count borrowings", err)
	}
	return int(n), nil
}

func (r *BorrowingRepository) Create(ctx context.Context, b *borrowing.Borrowing) error {
	return wrap("create borrowing", r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *BorrowingRepository) Update(ctx context.Context, id int64, u borrowing.Update) (*borrowing.Borrowing, error) {
	cols := map[string]any{}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.DueDate != nil {
		cols["due_date"] = *u.DueDate
	}
	if u.ApprovedBy != nil {
		cols["approved_by"] = *u.ApprovedBy
	}
	if u.ApprovedAt != nil {
		cols["approved_at"] = *u.ApprovedAt
	}
	if len(cols) > 0 {
		err := r.db.WithContext(ctx).Model(&borrowing.Borrowing{}).
			Where("borrowing_id = ?", id).
			Updates(cols).Error
		if err != nil {
			return nil, wrap("update borrowing", err)
		}
	}
	return r.GetByID(ctx, id)
}

func applyFilter(q *gorm.DB, f borrowing.Filter) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ResourceID != 0 {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	return q
}
