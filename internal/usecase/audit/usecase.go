package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/domain/store"
	"library-borrowing/internal/logger"
)

type DriftKind string

const (
	// resource says borrowed but no pending/active/overdue borrowing references it
	DriftBorrowedWithoutLoan DriftKind = "borrowed_without_loan"
	// resource says available while an active or overdue borrowing holds it
	DriftAvailableWhileOnLoan DriftKind = "available_while_on_loan"
)

type Drift struct {
	Kind           DriftKind       `json:"kind"`
	ResourceID     int64           `json:"resource_id"`
	Title          string          `json:"title"`
	ResourceStatus resource.Status `json:"resource_status"`
	BorrowingIDs   []int64         `json:"borrowing_ids,omitempty"`
}

type Report struct {
	CheckedAt      time.Time `json:"checked_at"`
	Resources      int       `json:"resources"`
	OpenBorrowings int       `json:"open_borrowings"`
	Drifts         []Drift   `json:"drifts"`
}

// Usecase compares resource statuses with open borrowings. It only reports;
// it never writes to the store.
type Usecase struct {
	resources  resource.Repository
	borrowings borrowing.Repository
	log        *slog.Logger
	now        func() time.Time
}

func NewUsecase(r store.Repos, l *slog.Logger) *Usecase {
	if l == nil {
		l = logger.WithService("audit")
	}
	return &Usecase{resources: r.Resources, borrowings: r.Borrowings, log: l, now: time.Now}
}

func (u *Usecase) Run(ctx context.Context) (*Report, error) {
	res, err := u.resources.List(ctx, resource.Filter{})
	if err != nil {
		return nil, err
	}
	open, err := u.borrowings.List(ctx, borrowing.Filter{Statuses: borrowing.OpenStatuses})
	if err != nil {
		return nil, err
	}

	type holders struct {
		all    []int64
		onLoan []int64
	}
	byResource := make(map[int64]*holders, len(open))
	for _, b := range open {
		h := byResource[b.ResourceID]
		if h == nil {
			h = &holders{}
			byResource[b.ResourceID] = h
		}
		h.all = append(h.all, b.ID)
		if st := b.Status.Normalize(); st == borrowing.StatusActive || st == borrowing.StatusOverdue {
			h.onLoan = append(h.onLoan, b.ID)
		}
	}

	rep := &Report{
		CheckedAt:      u.now().UTC(),
		Resources:      len(res),
		OpenBorrowings: len(open),
		Drifts:         []Drift{},
	}
	for _, r := range res {
		h := byResource[r.ID]
		switch {
		case strings.EqualFold(string(r.Status), string(resource.StatusBorrowed)) && h == nil:
			rep.Drifts = append(rep.Drifts, Drift{
				Kind: DriftBorrowedWithoutLoan, ResourceID: r.ID, Title: r.Title, ResourceStatus: r.Status,
			})
		case r.Status.IsAvailable() && h != nil && len(h.onLoan) > 0:
			rep.Drifts = append(rep.Drifts, Drift{
				Kind: DriftAvailableWhileOnLoan, ResourceID: r.ID, Title: r.Title, ResourceStatus: r.Status,
				BorrowingIDs: h.onLoan,
			})
		}
	}

	for _, d := range rep.Drifts {
		u.log.Warn("resource status drift", "kind", d.Kind, "resource_id", d.ResourceID,
			"status", d.ResourceStatus, "borrowing_ids", d.BorrowingIDs)
	}
	u.log.Info("audit finished", "resources", rep.Resources, "open_borrowings", rep.OpenBorrowings,
		"drifts", len(rep.Drifts))
	return rep, nil
}
