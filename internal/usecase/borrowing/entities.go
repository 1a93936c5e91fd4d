package borrowing

import (
	domain "library-borrowing/internal/domain/borrowing"
)

// Eligibility is the combined outcome of the availability, duplicate and limit checks.
type Eligibility struct {
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason,omitempty"`
	ResourceStatus string `json:"resource_status,omitempty"`
}

func eligible() *Eligibility { return &Eligibility{Eligible: true} }

func ineligible(reason, status string) *Eligibility {
	return &Eligibility{Reason: reason, ResourceStatus: status}
}

// BorrowingDTO is a stored borrowing plus the derived overdue flag.
type BorrowingDTO struct {
	domain.Borrowing
	Overdue bool `json:"overdue"`
}
