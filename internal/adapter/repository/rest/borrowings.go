package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
)

const (
	tableBorrowings = "borrowings"

	embedResource = "library_resources(title,category,accession_number,cover_image)"
	embedUser     = "users(first_name,last_name,username)"
)

type borrowingRow struct {
	BorrowingID int64      `json:"borrowing_id"`
	UserID      int64      `json:"user_id"`
	ResourceID  int64      `json:"resource_id"`
	BorrowDate  Timestamp  `json:"borrow_date"`
	DueDate     *Timestamp `json:"due_date"`
	ReturnDate  *Timestamp `json:"return_date"`
	FineAmount  Decimal    `json:"fine_amount"`
	Status      string     `json:"status"`
	ApprovedBy  *int64     `json:"approved_by"`
	ApprovedAt  *Timestamp `json:"approved_at"`
	ReturnedBy  *int64     `json:"returned_by"`

	Resource *struct {
		Title           string  `json:"title"`
		Category        string  `json:"category"`
		AccessionNumber string  `json:"accession_number"`
		CoverImage      *string `json:"cover_image"`
	} `json:"library_resources,omitempty"`
	User *struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
	} `json:"users,omitempty"`
}

func (r *borrowingRow) toDomain() *borrowing.Borrowing {
	b := &borrowing.Borrowing{
		ID:         r.BorrowingID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		BorrowDate: r.BorrowDate.Time(),
		DueDate:    r.DueDate.TimePtr(),
		ReturnDate: r.ReturnDate.TimePtr(),
		FineAmount: float64(r.FineAmount),
		Status:     borrowing.Status(r.Status).Normalize(),
		ApprovedBy: r.ApprovedBy,
		ApprovedAt: r.ApprovedAt.TimePtr(),
		ReturnedBy: r.ReturnedBy,
	}
	if r.Resource != nil {
		b.Resource = &borrowing.ResourceSummary{
			ID:              r.ResourceID,
			Title:           r.Resource.Title,
			Category:        r.Resource.Category,
			AccessionNumber: r.Resource.AccessionNumber,
			CoverImageURL:   r.Resource.CoverImage,
		}
	}
	if r.User != nil {
		b.User = &borrowing.UserSummary{
			ID:        r.UserID,
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
			Username:  r.User.Username,
		}
	}
	return b
}

type borrowingInsert struct {
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	BorrowDate Timestamp `json:"borrow_date"`
	DueDate    Timestamp `json:"due_date"`
	Status     string    `json:"status"`
	FineAmount Decimal   `json:"fine_amount"`
}

type borrowingPatch struct {
	Status     *string    `json:"status,omitempty"`
	DueDate    *Timestamp `json:"due_date,omitempty"`
	ApprovedBy *int64     `json:"approved_by,omitempty"`
	ApprovedAt *Timestamp `json:"approved_at,omitempty"`
}

type BorrowingRepo struct{ c *Client }

func (r *BorrowingRepo) GetByID(ctx context.Context, id int64) (*borrowing.Borrowing, error) {
	var rows []borrowingRow
	q := url.Values{"borrowing_id": {eq(id)}, "select": {"*"}}
	if err := r.c.get(ctx, tableBorrowings, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *BorrowingRepo) List(ctx context.Context, f borrowing.Filter) ([]borrowing.Borrowing, error) {
	sel := []string{"*"}
	if f.WithResource {
		sel = append(sel, embedResource)
	}
	if f.WithUser {
		sel = append(sel, embedUser)
	}
	q := filterQuery(f)
	q.Set("select", strings.Join(sel, ","))
	q.Set("order", "borrow_date.desc")

	var rows []borrowingRow
	if err := r.c.get(ctx, tableBorrowings, q, &rows); err != nil {
		return nil, err
	}
	out := make([]borrowing.Borrowing, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

// Count fetches only the ids of matching rows and counts them.
func (r *BorrowingRepo) Count(ctx context.Context, f borrowing.Filter) (int, error) {
	q := filterQuery(f)
	q.Set("select", "borrowing_id")

	var rows []struct {
		BorrowingID int64 `json:"borrowing_id"`
	}
	if err := r.c.get(ctx, tableBorrowings, q, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *BorrowingRepo) Create(ctx context.Context, b *borrowing.Borrowing) error {
	due := b.BorrowDate.Add(borrowing.LoanPeriod)
	if b.DueDate != nil {
		due = *b.DueDate
	}
	body := borrowingInsert{
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		BorrowDate: ts(b.BorrowDate),
		DueDate:    ts(due),
		Status:     string(b.Status),
		FineAmount: Decimal(b.FineAmount),
	}

	var rows []borrowingRow
	if err := r.c.do(ctx, http.MethodPost, tableBorrowings, nil, body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return &errs.StoreError{StatusCode: http.StatusCreated, Message: "insert returned no representation"}
	}
	*b = *rows[0].toDomain()
	return nil
}

func (r *BorrowingRepo) Update(ctx context.Context, id int64, u borrowing.Update) (*borrowing.Borrowing, error) {
	patch := borrowingPatch{
		DueDate:    tsPtr(u.DueDate),
		ApprovedBy: u.ApprovedBy,
		ApprovedAt: tsPtr(u.ApprovedAt),
	}
	if u.Status != nil {
		s := string(*u.Status)
		patch.Status = &s
	}

	var rows []borrowingRow
	q := url.Values{"borrowing_id": {eq(id)}}
	if err := r.c.do(ctx, http.MethodPatch, tableBorrowings, q, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func filterQuery(f borrowing.Filter) url.Values {
	q := url.Values{}
	if f.UserID != 0 {
		q.Set("user_id", eq(f.UserID))
	}
	if f.ResourceID != 0 {
		q.Set("resource_id", eq(f.ResourceID))
	}
	switch len(f.Statuses) {
	case 0:
	case 1:
		q.Set("status", eq(f.Statuses[0]))
	default:
		q.Set("status", in(f.Statuses))
	}
	return q
}
