package borrowing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domain "library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/domain/store"
	"library-borrowing/internal/domain/user"
	"library-borrowing/internal/logger"
)

// Usecase is the Borrowing Service. Writes to borrowings and library_resources
// are separate store calls: a failure between them leaves the resource status
// stale, which is logged and reported by the audit job, never rolled back.
type Usecase struct {
	resources  resource.Repository
	users      user.Repository
	borrowings domain.Repository

	log *slog.Logger
	now func() time.Time

	// FailOpen treats store failures in the duplicate and limit checks as passes.
	FailOpen bool
}

type Option func(*Usecase)

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func WithFailOpen(v bool) Option { return func(u *Usecase) { u.FailOpen = v } }

func NewUsecase(r store.Repos, opts ...Option) *Usecase {
	u := &Usecase{
		resources:  r.Resources,
		users:      r.Users,
		borrowings: r.Borrowings,
		now:        time.Now,
		FailOpen:   true,
	}
	for _, o := range opts {
		o(u)
	}
	if u.log == nil {
		u.log = logger.WithService("borrowing")
	}
	return u
}

func (u *Usecase) clock() time.Time { return u.now().UTC().Truncate(time.Millisecond) }

// CheckEligibility runs the availability, duplicate-pending and limit checks in order
// and stops at the first that fails. It never writes.
func (u *Usecase) CheckEligibility(ctx context.Context, userID, resourceID int64) (*Eligibility, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}
	if err := validateID("resource_id", resourceID); err != nil {
		return nil, err
	}

	res, err := u.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, storeErr("get resource", err)
	}
	if !res.Status.IsAvailable() {
		return ineligible(errs.ReasonResourceUnavailable, string(res.Status)), nil
	}

	pending, err := u.borrowings.Count(ctx, domain.Filter{
		UserID:     userID,
		ResourceID: resourceID,
		Statuses:   []domain.Status{domain.StatusPending},
	})
	if err != nil {
		if !u.FailOpen {
			return nil, storeErr("count pending", err)
		}
		u.log.Warn("duplicate check failed; fail-open policy treats it as passed",
			"user_id", userID, "resource_id", resourceID, "err", err)
		pending = 0
	}
	if pending > 0 {
		return ineligible(errs.ReasonDuplicatePending, ""), nil
	}

	limit := user.DefaultMaxBooks
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		u.log.Warn("user lookup failed; using default borrowing limit",
			"user_id", userID, "max_books", limit, "err", err)
	} else {
		limit = usr.BorrowLimit()
	}

	open, err := u.borrowings.Count(ctx, domain.Filter{UserID: userID, Statuses: domain.OpenStatuses})
	if err != nil {
		if !u.FailOpen {
			return nil, storeErr("count open borrowings", err)
		}
		u.log.Warn("limit check failed; fail-open policy treats it as passed",
			"user_id", userID, "err", err)
		return eligible(), nil
	}
	if open >= limit {
		return ineligible(errs.ReasonLimitReached, ""), nil
	}
	return eligible(), nil
}

// CreateBorrowingRequest re-checks eligibility and stores a pending request.
// The check and the insert are not atomic: two concurrent calls for the same
// pair can both pass the duplicate check.
func (u *Usecase) CreateBorrowingRequest(ctx context.Context, userID, resourceID int64) (*domain.Borrowing, error) {
	ctx = context.WithoutCancel(ctx)

	el, err := u.CheckEligibility(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}
	if !el.Eligible {
		return nil, &errs.ConflictError{Reason: el.Reason, ResourceStatus: el.ResourceStatus}
	}

	now := u.clock()
	due := now.Add(domain.LoanPeriod)
	b := &domain.Borrowing{
		UserID:     userID,
		ResourceID: resourceID,
		BorrowDate: now,
		DueDate:    &due,
		FineAmount: 0,
		Status:     domain.StatusPending,
	}
	if err := u.borrowings.Create(ctx, b); err != nil {
		return nil, storeErr("create borrowing", err)
	}

	u.setResourceStatus(ctx, resourceID, resource.StatusBorrowed, b.ID)
	u.log.Info("borrowing request created", "borrowing_id", b.ID, "user_id", userID, "resource_id", resourceID)
	return b, nil
}

// ApproveRequest moves a pending request to active and starts the loan period.
func (u *Usecase) ApproveRequest(ctx context.Context, borrowingID, librarianID int64) (*domain.Borrowing, error) {
	if err := validateID("borrowing_id", borrowingID); err != nil {
		return nil, err
	}
	if err := validateID("librarian_id", librarianID); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	b, err := u.borrowings.GetByID(ctx, borrowingID)
	if err != nil {
		return nil, storeErr("get borrowing", err)
	}
	if !domain.CanTransition(b.Status, domain.StatusActive) {
		return nil, invalidState(b, domain.StatusActive)
	}

	days := user.DefaultBorrowingDaysLimit
	usr, err := u.users.GetByID(ctx, b.UserID)
	if err != nil {
		u.log.Warn("user lookup failed; using default loan period",
			"user_id", b.UserID, "days", days, "err", err)
	} else {
		days = usr.LoanDays()
	}

	now := u.clock()
	due := now.AddDate(0, 0, days)
	active := domain.StatusActive
	updated, err := u.borrowings.Update(ctx, borrowingID, domain.Update{
		Status:     &active,
		DueDate:    &due,
		ApprovedBy: &librarianID,
		ApprovedAt: &now,
	})
	if err != nil {
		return nil, storeErr("approve borrowing", err)
	}

	u.setResourceStatus(ctx, b.ResourceID, resource.StatusBorrowed, borrowingID)
	u.log.Info("borrowing approved", "borrowing_id", borrowingID, "librarian_id", librarianID, "due_date", due)
	return updated, nil
}

// RejectRequest closes a pending request and releases the resource. The reason
// is logged only; the store has no column for it.
func (u *Usecase) RejectRequest(ctx context.Context, borrowingID, librarianID int64, reason string) error {
	if err := validateID("borrowing_id", borrowingID); err != nil {
		return err
	}
	if err := validateID("librarian_id", librarianID); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	b, err := u.borrowings.GetByID(ctx, borrowingID)
	if err != nil {
		return storeErr("get borrowing", err)
	}
	if !domain.CanTransition(b.Status, domain.StatusRejected) {
		return invalidState(b, domain.StatusRejected)
	}

	now := u.clock()
	rejected := domain.StatusRejected
	if _, err := u.borrowings.Update(ctx, borrowingID, domain.Update{
		Status:     &rejected,
		ApprovedBy: &librarianID,
		ApprovedAt: &now,
	}); err != nil {
		return storeErr("reject borrowing", err)
	}

	u.setResourceStatus(ctx, b.ResourceID, resource.StatusAvailable, borrowingID)
	u.log.Info("borrowing rejected", "borrowing_id", borrowingID, "librarian_id", librarianID, "reason", reason)
	return nil
}

// ListUserBorrowings returns every borrowing of the user, newest first.
func (u *Usecase) ListUserBorrowings(ctx context.Context, userID int64) ([]BorrowingDTO, error) {
	if err := validateID("user_id", userID); err != nil {
		return nil, err
	}
	return u.list(ctx, domain.Filter{UserID: userID, WithResource: true, WithUser: true})
}

// ListPendingRequests returns all pending requests, newest first.
func (u *Usecase) ListPendingRequests(ctx context.Context) ([]BorrowingDTO, error) {
	return u.list(ctx, domain.Filter{
		Statuses:     []domain.Status{domain.StatusPending},
		WithResource: true,
		WithUser:     true,
	})
}

func (u *Usecase) PendingRequestCount(ctx context.Context, userID int64) (int, error) {
	if err := validateID("user_id", userID); err != nil {
		return 0, err
	}
	n, err := u.borrowings.Count(ctx, domain.Filter{UserID: userID, Statuses: []domain.Status{domain.StatusPending}})
	if err != nil {
		return 0, storeErr("count pending", err)
	}
	return n, nil
}

func (u *Usecase) list(ctx context.Context, f domain.Filter) ([]BorrowingDTO, error) {
	rows, err := u.borrowings.List(ctx, f)
	if err != nil {
		return nil, storeErr("list borrowings", err)
	}
	now := u.clock()
	out := make([]BorrowingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, BorrowingDTO{Borrowing: rows[i], Overdue: rows[i].IsOverdue(now)})
	}
	return out, nil
}

// setResourceStatus is a best-effort follow-up write; failures are logged only.
func (u *Usecase) setResourceStatus(ctx context.Context, resourceID int64, st resource.Status, borrowingID int64) {
	if err := u.resources.UpdateStatus(ctx, resourceID, st); err != nil {
		u.log.Warn("resource status update failed; borrowing and resource are out of sync",
			"resource_id", resourceID, "status", st, "borrowing_id", borrowingID, "err", err)
	}
}

func validateID(field string, id int64) error {
	if id <= 0 {
		return &errs.ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return nil
}

func invalidState(b *domain.Borrowing, to domain.Status) error {
	return &stateError{id: b.ID, from: b.Status, to: to}
}

// storeErr keeps ErrNotFound and *StoreError as they are and wraps anything else.
func storeErr(op string, err error) error {
	if errors.Is(err, errs.ErrNotFound) || errs.IsStoreError(err) {
		return err
	}
	return &errs.StoreError{Message: op + ": " + err.Error(), Err: err}
}
