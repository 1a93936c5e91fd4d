package resource

import "time"

// Detail is the category-specific record of a resource: exactly one of
// *BookDetail, *PeriodicalDetail or *MediaDetail.
type Detail interface {
	Category() Category
	ForResource() int64
}

// Table: books
type BookDetail struct {
	ResourceID      int64      `gorm:"column:resource_id;primaryKey;autoIncrement:false" json:"resource_id"`
	Author          string     `gorm:"column:author;size:255" json:"author,omitempty"`
	ISBN            string     `gorm:"column:isbn;size:32" json:"isbn,omitempty"`
	Publisher       string     `gorm:"column:publisher;size:255" json:"publisher,omitempty"`
	Edition         string     `gorm:"column:edition;size:64" json:"edition,omitempty"`
	PublicationDate *time.Time `gorm:"column:publication_date" json:"publication_date,omitempty"`
}

func (BookDetail) TableName() string      { return "books" }
func (*BookDetail) Category() Category    { return CategoryBook }
func (d *BookDetail) ForResource() int64  { return d.ResourceID }

// Table: periodicals
type PeriodicalDetail struct {
	ResourceID      int64      `gorm:"column:resource_id;primaryKey;autoIncrement:false" json:"resource_id"`
	ISSN            string     `gorm:"column:issn;size:16" json:"issn,omitempty"`
	Volume          string     `gorm:"column:volume;size:32" json:"volume,omitempty"`
	Issue           string     `gorm:"column:issue;size:32" json:"issue,omitempty"`
	PublicationDate *time.Time `gorm:"column:publication_date" json:"publication_date,omitempty"`
}

func (PeriodicalDetail) TableName() string     { return "periodicals" }
func (*PeriodicalDetail) Category() Category   { return CategoryPeriodical }
func (d *PeriodicalDetail) ForResource() int64 { return d.ResourceID }

// Table: media_resources
type MediaDetail struct {
	ResourceID int64  `gorm:"column:resource_id;primaryKey;autoIncrement:false" json:"resource_id"`
	Format     string `gorm:"column:format;size:32" json:"format,omitempty"`
	// Runtime in minutes.
	Runtime   *int   `gorm:"column:runtime" json:"runtime,omitempty"`
	MediaType string `gorm:"column:media_type;size:32" json:"media_type,omitempty"`
}

func (MediaDetail) TableName() string     { return "media_resources" }
func (*MediaDetail) Category() Category   { return CategoryMedia }
func (d *MediaDetail) ForResource() int64 { return d.ResourceID }
