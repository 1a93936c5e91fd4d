package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"library-borrowing/internal/domain/store"
	"library-borrowing/internal/logger"
	"library-borrowing/internal/testutil/borrowingmock"
	"library-borrowing/internal/testutil/resourcemock"
	"library-borrowing/internal/testutil/usermock"
	"library-borrowing/internal/usecase/auth"
	"library-borrowing/internal/usecase/borrowing"
	"library-borrowing/internal/usecase/catalog"
)

// -------- helpers --------

type mocks struct {
	resources  *resourcemock.Repo
	users      *usermock.Repo
	borrowings *borrowingmock.Repo
}

func newMocks() *mocks {
	return &mocks{
		resources:  &resourcemock.Repo{},
		users:      &usermock.Repo{},
		borrowings: &borrowingmock.Repo{},
	}
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newServer routes every handler over m; idem may be nil.
func newServer(m *mocks, idem echo.MiddlewareFunc) *echo.Echo {
	e := newEchoWithValidator()
	repos := store.Repos{Resources: m.resources, Users: m.users, Borrowings: m.borrowings}
	Register(e, Handlers{
		Health:    NewHandler("rest"),
		Auth:      NewAuthHandler(auth.NewUsecase(m.users)),
		Catalog:   NewCatalogHandler(catalog.NewUsecase(m.resources, logger.Discard())),
		Borrowing: NewBorrowingHandler(borrowing.NewUsecase(repos, borrowing.WithLogger(logger.Discard()))),
	}, idem)
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func do(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doRaw(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
}
