package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"library-borrowing/internal/domain/borrowing"
	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/resource"
)

func TestResourceRepo_GetByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/library_resources" {
			t.Errorf("path=%s", r.URL.Path)
		}
		switch r.URL.Query().Get("resource_id") {
		case "eq.42":
			io.WriteString(w, `[{"resource_id":42,"title":"Dune","accession_number":"ACC-42","category":"Book",
				"status":"available","cover_image":null,"created_at":"2024-01-02T03:04:05.000+00:00"}]`)
		default:
			io.WriteString(w, `[]`)
		}
	})
	repo := NewRepos(c).Resources

	got, err := repo.GetByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != 42 || got.Category != resource.CategoryBook || !got.Status.IsAvailable() || got.CoverImageURL != nil {
		t.Fatalf("got %+v", got)
	}
	if got.CreatedAt.Year() != 2024 {
		t.Fatalf("created_at=%v", got.CreatedAt)
	}

	if _, err := repo.GetByID(context.Background(), 7); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestResourceRepo_ListFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "eq.media" || q.Get("status") != "eq.available" || q.Get("title") != "ilike.*stalk*" {
			t.Errorf("query=%v", q)
		}
		io.WriteString(w, `[{"resource_id":3,"title":"Stalker","category":"media","status":"available"}]`)
	})
	out, err := NewRepos(c).Resources.List(context.Background(), resource.Filter{
		Category: resource.CategoryMedia, Status: resource.StatusAvailable, TitleContains: "stalk",
	})
	if err != nil || len(out) != 1 || out[0].Title != "Stalker" {
		t.Fatalf("got %+v err=%v", out, err)
	}
}

func TestResourceRepo_UpdateStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method=%s", r.Method)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "borrowed" {
			t.Errorf("body=%v", body)
		}
		if r.URL.Query().Get("resource_id") == "eq.42" {
			io.WriteString(w, `[{"resource_id":42,"status":"borrowed"}]`)
			return
		}
		io.WriteString(w, `[]`)
	})
	repo := NewRepos(c).Resources
	if err := repo.UpdateStatus(context.Background(), 42, resource.StatusBorrowed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), 1, resource.StatusBorrowed); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestResourceRepo_ListDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("resource_id"); got != "in.(1,2)" {
			t.Errorf("resource_id=%q", got)
		}
		switch r.URL.Path {
		case "/rest/v1/books":
			io.WriteString(w, `[{"resource_id":1,"author":"Le Guin","isbn":"978-0","publication_date":"1974-05-01"}]`)
		case "/rest/v1/periodicals":
			io.WriteString(w, `[{"resource_id":2,"issn":"0028-0836","volume":"12","issue":"3"}]`)
		case "/rest/v1/media_resources":
			io.WriteString(w, `[{"resource_id":1,"format":"DVD","runtime":161,"media_type":"film"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	repo := NewRepos(c).Resources
	ctx := context.Background()

	books, err := repo.ListDetails(ctx, resource.CategoryBook, []int64{1, 2})
	if err != nil || len(books) != 1 {
		t.Fatalf("books=%v err=%v", books, err)
	}
	b := books[0].(*resource.BookDetail)
	if b.Author != "Le Guin" || b.PublicationDate == nil || b.PublicationDate.Year() != 1974 {
		t.Fatalf("book=%+v", b)
	}

	ps, err := repo.ListDetails(ctx, resource.CategoryPeriodical, []int64{1, 2})
	if err != nil || ps[0].(*resource.PeriodicalDetail).Volume != "12" {
		t.Fatalf("periodicals=%v err=%v", ps, err)
	}

	ms, err := repo.ListDetails(ctx, resource.CategoryMedia, []int64{1, 2})
	if err != nil || *ms[0].(*resource.MediaDetail).Runtime != 161 {
		t.Fatalf("media=%v err=%v", ms, err)
	}

	if ds, err := repo.ListDetails(ctx, resource.CategoryBook, nil); err != nil || ds != nil {
		t.Fatalf("empty ids should skip the call, got %v %v", ds, err)
	}
	var ve *errs.ValidationError
	if _, err := repo.ListDetails(ctx, "map", []int64{1}); !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestUserRepo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("username") == "eq.ana" || q.Get("user_id") == "eq.7" {
			io.WriteString(w, `[{"user_id":7,"username":"ana","password":"$2y$10$x","role":"student","max_books":null,"borrowing_days_limit":14}]`)
			return
		}
		io.WriteString(w, `[]`)
	})
	repo := NewRepos(c).Users
	ctx := context.Background()

	u, err := repo.GetByUsername(ctx, "ana")
	if err != nil || u.ID != 7 || u.PasswordHash != "$2y$10$x" {
		t.Fatalf("got %+v err=%v", u, err)
	}
	if u.BorrowLimit() != 5 || u.LoanDays() != 14 {
		t.Fatalf("limits: %d/%d", u.BorrowLimit(), u.LoanDays())
	}
	if _, err := repo.GetByID(ctx, 7); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetByID(ctx, 8); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBorrowingRepo_ListWithEmbeds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "eq.pending" || q.Get("order") != "borrow_date.desc" {
			t.Errorf("query=%v", q)
		}
		if want := "*," + embedResource + "," + embedUser; q.Get("select") != want {
			t.Errorf("select=%q", q.Get("select"))
		}
		io.WriteString(w, `[{"borrowing_id":9,"user_id":7,"resource_id":42,"borrow_date":"2024-03-01T10:30:15.000Z",
			"due_date":"2024-03-08T10:30:15.000Z","return_date":null,"fine_amount":0,"status":"PENDING",
			"library_resources":{"title":"Dune","category":"book","accession_number":"ACC-42","cover_image":"http://img"},
			"users":{"first_name":"Ana","last_name":"Lima","username":"ana"}}]`)
	})
	out, err := NewRepos(c).Borrowings.List(context.Background(), borrowing.Filter{
		Statuses: []borrowing.Status{borrowing.StatusPending}, WithResource: true, WithUser: true,
	})
	if err != nil || len(out) != 1 {
		t.Fatalf("out=%v err=%v", out, err)
	}
	b := out[0]
	if b.Status != borrowing.StatusPending || b.Resource == nil || b.Resource.Title != "Dune" || b.User == nil || b.User.Username != "ana" {
		t.Fatalf("got %+v", b)
	}
	if !b.DueDate.Equal(b.BorrowDate.Add(7 * 24 * time.Hour)) {
		t.Fatalf("dates borrow=%v due=%v", b.BorrowDate, b.DueDate)
	}
}

func TestBorrowingRepo_Count(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user_id") != "eq.7" || q.Get("status") != "in.(pending,active,overdue)" || q.Get("select") != "borrowing_id" {
			t.Errorf("query=%v", q)
		}
		io.WriteString(w, `[{"borrowing_id":1},{"borrowing_id":2},{"borrowing_id":3}]`)
	})
	n, err := NewRepos(c).Borrowings.Count(context.Background(), borrowing.Filter{UserID: 7, Statuses: borrowing.OpenStatuses})
	if err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestBorrowingRepo_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["borrow_date"] != "2024-03-01T10:30:15.123Z" || body["due_date"] != "2024-03-08T10:30:15.123Z" {
			t.Errorf("dates=%v/%v", body["borrow_date"], body["due_date"])
		}
		if body["fine_amount"] != "0.00" || body["status"] != "pending" {
			t.Errorf("body=%v", body)
		}
		if _, ok := body["borrowing_id"]; ok {
			t.Error("borrowing_id must be store-assigned")
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"borrowing_id":77,"user_id":7,"resource_id":42,"borrow_date":"2024-03-01T10:30:15.123+00:00",
			"due_date":"2024-03-08T10:30:15.123+00:00","fine_amount":"0.00","status":"pending"}]`)
	})

	borrow := time.Date(2024, 3, 1, 10, 30, 15, 123_000_000, time.UTC)
	due := borrow.Add(7 * 24 * time.Hour)
	b := &borrowing.Borrowing{UserID: 7, ResourceID: 42, BorrowDate: borrow, DueDate: &due, Status: borrowing.StatusPending}
	if err := NewRepos(c).Borrowings.Create(context.Background(), b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID != 77 || !b.BorrowDate.Equal(borrow) {
		t.Fatalf("got %+v", b)
	}
}

func TestBorrowingRepo_Update(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "active" || body["approved_by"] != float64(3) {
			t.Errorf("body=%v", body)
		}
		if _, ok := body["due_date"]; ok {
			t.Error("nil fields must be omitted")
		}
		if r.URL.Query().Get("borrowing_id") != "eq.9" {
			io.WriteString(w, `[]`)
			return
		}
		io.WriteString(w, `[{"borrowing_id":9,"status":"active","approved_by":3,"borrow_date":"2024-03-01T10:30:15Z"}]`)
	})
	repo := NewRepos(c).Borrowings
	active := borrowing.StatusActive
	lib := int64(3)

	got, err := repo.Update(context.Background(), 9, borrowing.Update{Status: &active, ApprovedBy: &lib})
	if err != nil || got.Status != borrowing.StatusActive || *got.ApprovedBy != 3 {
		t.Fatalf("got %+v err=%v", got, err)
	}
	if _, err := repo.Update(context.Background(), 10, borrowing.Update{Status: &active, ApprovedBy: &lib}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBorrowingRepo_GetByID_StoreError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"JWT expired"}`)
	})
	_, err := NewRepos(c).Borrowings.GetByID(context.Background(), 9)
	var se *errs.StoreError
	if !errors.As(err, &se) || se.StatusCode != 401 || se.Message != "JWT expired" {
		t.Fatalf("got %v", err)
	}
}
