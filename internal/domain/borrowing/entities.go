package borrowing

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
	StatusRejected Status = "rejected"
	// StatusOverdue may be stored by other writers; this core derives it via IsOverdue.
	StatusOverdue Status = "overdue"
)

// OpenStatuses count against a user's borrowing limit.
var OpenStatuses = []Status{StatusPending, StatusActive, StatusOverdue}

// LoanPeriod is the due-date offset applied when a request is created.
const LoanPeriod = 7 * 24 * time.Hour

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusReturned, StatusOverdue},
	StatusOverdue: {StatusReturned},
}

// CanTransition reports whether from -> to is an edge of the borrowing state machine.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from.Normalize()] {
		if s == to.Normalize() {
			return true
		}
	}
	return false
}

func (s Status) Normalize() Status { return Status(strings.ToLower(strings.TrimSpace(string(s)))) }

func (s Status) IsTerminal() bool {
	n := s.Normalize()
	return n == StatusReturned || n == StatusRejected
}

func (s Status) IsOpen() bool {
	n := s.Normalize()
	for _, o := range OpenStatuses {
		if n == o {
			return true
		}
	}
	return false
}

// Table: borrowings
type Borrowing struct {
	ID         int64      `gorm:"column:borrowing_id;primaryKey;autoIncrement" json:"borrowing_id"`
	UserID     int64      `gorm:"column:user_id;not null;index:idx_borrowings_user_status" json:"user_id"`
	ResourceID int64      `gorm:"column:resource_id;not null;index" json:"resource_id"`
	BorrowDate time.Time  `gorm:"column:borrow_date;not null" json:"borrow_date"`
	DueDate    *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	ReturnDate *time.Time `gorm:"column:return_date" json:"return_date,omitempty"`
	FineAmount float64    `gorm:"column:fine_amount;type:decimal(10,2);not null;default:0" json:"fine_amount"`
	Status     Status     `gorm:"column:status;size:16;not null;default:pending;index:idx_borrowings_user_status" json:"status"`
	ApprovedBy *int64     `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	ReturnedBy *int64     `gorm:"column:returned_by" json:"returned_by,omitempty"`

	// Joined summaries, populated only by list queries.
	Resource *ResourceSummary `gorm:"foreignKey:ResourceID;references:ID" json:"resource,omitempty"`
	User     *UserSummary     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (Borrowing) TableName() string { return "borrowings" }

// IsOverdue: open, past due and not returned.
func (b *Borrowing) IsOverdue(now time.Time) bool {
	st := b.Status.Normalize()
	if st != StatusActive && st != StatusOverdue {
		return false
	}
	return b.ReturnDate == nil && b.DueDate != nil && b.DueDate.Before(now)
}

type ResourceSummary struct {
	ID              int64   `gorm:"column:resource_id;primaryKey" json:"-"`
	Title           string  `gorm:"column:title" json:"title"`
	Category        string  `gorm:"column:category" json:"category"`
	AccessionNumber string  `gorm:"column:accession_number" json:"accession_number"`
	CoverImageURL   *string `gorm:"column:cover_image" json:"cover_image,omitempty"`
}

func (ResourceSummary) TableName() string { return "library_resources" }

type UserSummary struct {
	ID        int64  `gorm:"column:user_id;primaryKey" json:"-"`
	FirstName string `gorm:"column:first_name" json:"first_name"`
	LastName  string `gorm:"column:last_name" json:"last_name"`
	Username  string `gorm:"column:username" json:"username"`
}

func (UserSummary) TableName() string { return "users" }

// Filter narrows List and Count. Zero ids and an empty Statuses mean "any".
type Filter struct {
	UserID     int64
	ResourceID int64
	Statuses   []Status

	WithResource bool
	WithUser     bool
}

// Update carries the columns to change; nil fields are left untouched.
type Update struct {
	Status     *Status
	DueDate    *time.Time
	ApprovedBy *int64
	ApprovedAt *time.Time
}
