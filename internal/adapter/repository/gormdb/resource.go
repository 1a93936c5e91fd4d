package gormdb

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
)

type ResourceRepository struct{ db *gorm.DB }

func NewResourceRepository(db *gorm.DB) *ResourceRepository { return &ResourceRepository{db: db} }

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*resource.Resource, error) {
	var out resource.Resource
	if err := r.db.WithContext(ctx).Where("resource_id = ?", id).First(&out).Error; err != nil {
		return nil, wrap("get resource", err)
	}
	return &out, nil
}

func (r *ResourceRepository) List(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	q := r.db.WithContext(ctx).Model(&resource.Resource{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("LOWER(status) = ?", strings.ToLower(string(f.Status)))
	}
	if s := strings.TrimSpace(f.TitleContains); s != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+likeText(strings.ToLower(s))+"%")
	}

	var out []resource.Resource
	if err := q.Order("resource_id ASC").Find(&out).Error; err != nil {
		return nil, wrap("list resources", err)
	}
	return out, nil
}

func (r *ResourceRepository) UpdateStatus(ctx context.Context, id int64, status resource.Status) error {
	res := r.db.WithContext(ctx).Model(&resource.Resource{}).
		Where("resource_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return wrap("update resource status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ResourceRepository) ListDetails(ctx context.Context, c resource.Category, ids []int64) ([]resource.Detail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Where("resource_id IN ?", ids)

	var out []resource.Detail
	switch c {
	case resource.CategoryBook:
		var rows []resource.BookDetail
		if err := q.Find(&rows).Error; err != nil {
			return nil, wrap("list books", err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case resource.CategoryPeriodical:
		var rows []resource.PeriodicalDetail
		if err := q.Find(&rows).Error; err != nil {
			return nil, wrap("list periodicals", err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case resource.CategoryMedia:
		var rows []resource.MediaDetail
		if err := q.Find(&rows).Error; err != nil {
			return nil, wrap("list media", err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	default:
		return nil, &errs.ValidationError{Field: "category", Message: "unknown category " + string(c)}
	}
	return out, nil
}

// likeText drops % so user text cannot widen the match.
func likeText(s string) string { return strings.ReplaceAll(s, "%", "") }
