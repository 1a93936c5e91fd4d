package user

import "time"

type Role string

const (
	RoleStudent   Role = "student"
	RoleFaculty   Role = "faculty"
	RoleLibrarian Role = "librarian"
)

const (
	DefaultMaxBooks           = 5
	DefaultBorrowingDaysLimit = 7
)

// Table: users
type User struct {
	ID                 int64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	MembershipID       string    `gorm:"column:membership_id;size:32" json:"membership_id,omitempty"`
	Username           string    `gorm:"column:username;size:64;not null;uniqueIndex" json:"username"`
	PasswordHash       string    `gorm:"column:password;size:255;not null" json:"-"`
	FirstName          string    `gorm:"column:first_name;size:64" json:"first_name,omitempty"`
	LastName           string    `gorm:"column:last_name;size:64" json:"last_name,omitempty"`
	Email              string    `gorm:"column:email;size:255" json:"email,omitempty"`
	Role               Role      `gorm:"column:role;size:16;not null" json:"role"`
	MaxBooks           int       `gorm:"column:max_books" json:"max_books"`
	BorrowingDaysLimit int       `gorm:"column:borrowing_days_limit" json:"borrowing_days_limit"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// CanLogin is true for the roles allowed on the member surface.
func (u *User) CanLogin() bool { return u.Role == RoleStudent || u.Role == RoleFaculty }

// BorrowLimit falls back to DefaultMaxBooks when the column is unset.
func (u *User) BorrowLimit() int {
	if u == nil || u.MaxBooks <= 0 {
		return DefaultMaxBooks
	}
	return u.MaxBooks
}

// LoanDays falls back to DefaultBorrowingDaysLimit when the column is unset.
func (u *User) LoanDays() int {
	if u == nil || u.BorrowingDaysLimit <= 0 {
		return DefaultBorrowingDaysLimit
	}
	return u.BorrowingDaysLimit
}
