package resource

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryBook       Category = "book"
	CategoryPeriodical Category = "periodical"
	CategoryMedia      Category = "media"
)

// Categories lists every category in a stable order.
var Categories = []Category{CategoryBook, CategoryPeriodical, CategoryMedia}

// ParseCategory matches case-insensitively and ignores surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusBorrowed    Status = "borrowed"
	StatusUnavailable Status = "unavailable"
)

// IsAvailable compares case-insensitively; the store is not consistent about casing.
func (s Status) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(StatusAvailable))
}

// Table: library_resources
type Resource struct {
	ID              int64     `gorm:"column:resource_id;primaryKey;autoIncrement" json:"resource_id"`
	Title           string    `gorm:"column:title;size:255;not null" json:"title"`
	AccessionNumber string    `gorm:"column:accession_number;size:64;not null;uniqueIndex" json:"accession_number"`
	Category        Category  `gorm:"column:category;size:16;not null;index" json:"category"`
	Status          Status    `gorm:"column:status;size:16;not null;default:available" json:"status"`
	CoverImageURL   *string   `gorm:"column:cover_image;type:text" json:"cover_image,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Detail is nil until enrichment attaches the matching category record.
	Detail Detail `gorm:"-" json:"details,omitempty"`
}

func (Resource) TableName() string { return "library_resources" }

// Attach sets d as the resource's detail when the categories agree.
func (r *Resource) Attach(d Detail) bool {
	if d == nil || d.Category() != r.Category || d.ForResource() != r.ID {
		return false
	}
	r.Detail = d
	return true
}

// Filter narrows ListResources. Zero values mean "any".
type Filter struct {
	Category      Category
	Status        Status
	TitleContains string
}
