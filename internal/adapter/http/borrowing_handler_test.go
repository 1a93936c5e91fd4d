package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	domain "library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/domain/user"
)

func availableResource(m *mocks, st resource.Status) {
	m.resources.GetByIDFn = func(ctx context.Context, id int64) (*resource.Resource, error) {
		return &resource.Resource{ID: id, Title: "Dune", Category: resource.CategoryBook, Status: st}, nil
	}
}

func withCounts(m *mocks, pending, open int) {
	m.borrowings.CountFn = func(ctx context.Context, f domain.Filter) (int, error) {
		if f.ResourceID != 0 {
			return pending, nil
		}
		return open, nil
	}
	m.users.GetByIDFn = func(ctx context.Context, id int64) (*user.User, error) {
		return &user.User{ID: id, Role: user.RoleStudent, MaxBooks: 5}, nil
	}
}

func TestCreateBorrowing_Success(t *testing.T) {
	m := newMocks()
	availableResource(m, resource.StatusAvailable)
	withCounts(m, 0, 4)

	var created *domain.Borrowing
	m.borrowings.CreateFn = func(ctx context.Context, b *domain.Borrowing) error {
		b.ID = 101
		created = b
		return nil
	}
	var statusSet resource.Status
	m.resources.UpdateStatusFn = func(ctx context.Context, id int64, st resource.Status) error {
		statusSet = st
		return nil
	}

	rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings", map[string]any{"user_id": 42, "resource_id": 7})
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got domain.Borrowing
	decode(t, rec, &got)
	if got.ID != 101 || got.Status != domain.StatusPending || got.UserID != 42 || got.ResourceID != 7 {
		t.Fatalf("unexpected body: %+v", got)
	}
	if created == nil || created.DueDate == nil {
		t.Fatalf("expected Create with a due date, got %+v", created)
	}
	if statusSet != resource.StatusBorrowed {
		t.Fatalf("expected resource marked borrowed, got %q", statusSet)
	}
}

func TestCreateBorrowing_Conflicts(t *testing.T) {
	tests := []struct {
		name       string
		status     resource.Status
		pending    int
		open       int
		wantReason string
		wantStatus string
	}{
		{"unavailable", resource.StatusBorrowed, 0, 0, errs.ReasonResourceUnavailable, "borrowed"},
		{"duplicate", resource.StatusAvailable, 1, 1, errs.ReasonDuplicatePending, ""},
		{"limit", resource.StatusAvailable, 0, 5, errs.ReasonLimitReached, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			availableResource(m, tt.status)
			withCounts(m, tt.pending, tt.open)
			m.borrowings.CreateFn = func(ctx context.Context, b *domain.Borrowing) error {
				t.Fatalf("Create must not be called")
				return nil
			}

			rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings", map[string]any{"user_id": 42, "resource_id": 7})
			if rec.Code != stdhttp.StatusConflict {
				t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
			}
			var body ErrorResponse
			decode(t, rec, &body)
			if body.Reason != tt.wantReason || body.ResourceStatus != tt.wantStatus {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestCreateBorrowing_BadInput(t *testing.T) {
	m := newMocks()
	e := newServer(m, nil)

	rec := do(e, stdhttp.MethodPost, "/borrowings", map[string]any{"resource_id": 7})
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body ErrorResponse
	decode(t, rec, &body)
	if !containsFieldMsg(body.Details, "user_id", "is required") {
		t.Fatalf("expected user_id detail, got %+v", body.Details)
	}

	rec = doRaw(e, stdhttp.MethodPost, "/borrowings", `{"user_id":`)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestCreateBorrowing_StoreFailure(t *testing.T) {
	m := newMocks()
	m.resources.GetByIDFn = func(ctx context.Context, id int64) (*resource.Resource, error) {
		return nil, &errs.StoreError{StatusCode: 503, Message: "upstream down"}
	}
	rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings", map[string]any{"user_id": 42, "resource_id": 7})
	if rec.Code != stdhttp.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body ErrorResponse
	decode(t, rec, &body)
	if !strings.Contains(body.Error, "upstream down") {
		t.Fatalf("expected store message, got %q", body.Error)
	}
}

func TestApproveBorrowing(t *testing.T) {
	pending := func(m *mocks, st domain.Status) {
		m.borrowings.GetByIDFn = func(ctx context.Context, id int64) (*domain.Borrowing, error) {
			if id != 9 {
				return nil, errs.ErrNotFound
			}
			return &domain.Borrowing{ID: 9, UserID: 42, ResourceID: 7, Status: st}, nil
		}
		m.users.GetByIDFn = func(ctx context.Context, id int64) (*user.User, error) {
			return &user.User{ID: id, BorrowingDaysLimit: 14}, nil
		}
		m.borrowings.UpdateFn = func(ctx context.Context, id int64, u domain.Update) (*domain.Borrowing, error) {
			return &domain.Borrowing{ID: id, UserID: 42, ResourceID: 7, Status: *u.Status, DueDate: u.DueDate, ApprovedBy: u.ApprovedBy}, nil
		}
	}

	t.Run("pending becomes active", func(t *testing.T) {
		m := newMocks()
		pending(m, domain.StatusPending)
		rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings/9/approve", map[string]any{"librarian_id": 3})
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
		}
		var got domain.Borrowing
		decode(t, rec, &got)
		if got.Status != domain.StatusActive || got.ApprovedBy == nil || *got.ApprovedBy != 3 {
			t.Fatalf("unexpected body: %+v", got)
		}
		if got.DueDate == nil || time.Until(*got.DueDate) < 13*24*time.Hour {
			t.Fatalf("expected due date about 14 days out, got %v", got.DueDate)
		}
	})

	t.Run("non-pending is a conflict", func(t *testing.T) {
		m := newMocks()
		pending(m, domain.StatusReturned)
		rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings/9/approve", map[string]any{"librarian_id": 3})
		if rec.Code != stdhttp.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		m := newMocks()
		pending(m, domain.StatusPending)
		rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings/10/approve", map[string]any{"librarian_id": 3})
		if rec.Code != stdhttp.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("bad path id", func(t *testing.T) {
		rec := do(newServer(newMocks(), nil), stdhttp.MethodPost, "/borrowings/abc/approve", map[string]any{"librarian_id": 3})
		if rec.Code != stdhttp.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing librarian", func(t *testing.T) {
		rec := do(newServer(newMocks(), nil), stdhttp.MethodPost, "/borrowings/9/approve", map[string]any{})
		if rec.Code != stdhttp.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}

func TestRejectBorrowing(t *testing.T) {
	m := newMocks()
	m.borrowings.GetByIDFn = func(ctx context.Context, id int64) (*domain.Borrowing, error) {
		return &domain.Borrowing{ID: id, ResourceID: 7, Status: domain.StatusPending}, nil
	}
	var gotStatus domain.Status
	m.borrowings.UpdateFn = func(ctx context.Context, id int64, u domain.Update) (*domain.Borrowing, error) {
		gotStatus = *u.Status
		return &domain.Borrowing{ID: id, Status: *u.Status}, nil
	}
	var released resource.Status
	m.resources.UpdateStatusFn = func(ctx context.Context, id int64, st resource.Status) error {
		released = st
		return errors.New("resource write failed")
	}

	rec := do(newServer(m, nil), stdhttp.MethodPost, "/borrowings/9/reject", map[string]any{"librarian_id": 3, "reason": "damaged"})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		BorrowingID int64  `json:"borrowing_id"`
		Status      string `json:"status"`
	}
	decode(t, rec, &body)
	if body.BorrowingID != 9 || body.Status != "rejected" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if gotStatus != domain.StatusRejected || released != resource.StatusAvailable {
		t.Fatalf("expected rejected + available, got %q / %q", gotStatus, released)
	}
}

func TestCheckEligibility(t *testing.T) {
	m := newMocks()
	availableResource(m, resource.StatusAvailable)
	withCounts(m, 0, 0)
	e := newServer(m, nil)

	rec := do(e, stdhttp.MethodGet, "/users/42/eligibility?resource_id=7", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Eligible bool `json:"eligible"`
	}
	decode(t, rec, &body)
	if !body.Eligible {
		t.Fatalf("expected eligible")
	}

	rec = do(e, stdhttp.MethodGet, "/users/42/eligibility", nil)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 without resource_id, got %d", rec.Code)
	}
}

func TestListUserBorrowings(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	m := newMocks()
	m.borrowings.ListFn = func(ctx context.Context, f domain.Filter) ([]domain.Borrowing, error) {
		if f.UserID != 42 {
			return nil, nil
		}
		return []domain.Borrowing{{ID: 1, UserID: 42, Status: domain.StatusActive, DueDate: &past}}, nil
	}
	e := newServer(m, nil)

	rec := do(e, stdhttp.MethodGet, "/users/42/borrowings", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []struct {
		ID      int64 `json:"borrowing_id"`
		Overdue bool  `json:"overdue"`
	}
	decode(t, rec, &got)
	if len(got) != 1 || got[0].ID != 1 || !got[0].Overdue {
		t.Fatalf("unexpected body: %+v", got)
	}

	rec = do(e, stdhttp.MethodGet, "/users/43/borrowings", nil)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestListPendingAndCount(t *testing.T) {
	m := newMocks()
	m.borrowings.ListFn = func(ctx context.Context, f domain.Filter) ([]domain.Borrowing, error) {
		return nil, &errs.StoreError{StatusCode: 500, Message: "boom"}
	}
	m.borrowings.CountFn = func(ctx context.Context, f domain.Filter) (int, error) {
		return 2, nil
	}
	e := newServer(m, nil)

	rec := do(e, stdhttp.MethodGet, "/borrowings/pending", nil)
	if rec.Code != stdhttp.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	rec = do(e, stdhttp.MethodGet, "/users/42/borrowings/pending-count", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Pending int `json:"pending"`
	}
	decode(t, rec, &body)
	if body.Pending != 2 {
		t.Fatalf("expected 2 pending, got %d", body.Pending)
	}
}
