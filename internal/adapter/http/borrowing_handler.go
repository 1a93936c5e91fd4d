package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	borrowuc "library-borrowing/internal/usecase/borrowing"
)

type BorrowingHandler struct{ uc *borrowuc.Usecase }

func NewBorrowingHandler(u *borrowuc.Usecase) *BorrowingHandler { return &BorrowingHandler{uc: u} }

type createBorrowingReq struct {
	UserID     int64 `json:"user_id"     validate:"required,gt=0"`
	ResourceID int64 `json:"resource_id" validate:"required,gt=0"`
}

type approveReq struct {
	LibrarianID int64 `json:"librarian_id" validate:"required,gt=0"`
}

type rejectReq struct {
	LibrarianID int64  `json:"librarian_id" validate:"required,gt=0"`
	Reason      string `json:"reason"       validate:"max=500"`
}

// CheckEligibility serves GET /users/:user_id/eligibility?resource_id=
func (h *BorrowingHandler) CheckEligibility(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	resourceID, ok, err := queryID(c, "resource_id")
	if !ok {
		return err
	}
	el, err := h.uc.CheckEligibility(c.Request().Context(), userID, resourceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, el)
}

func (h *BorrowingHandler) Create(c echo.Context) error {
	var req createBorrowingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	b, err := h.uc.CreateBorrowingRequest(c.Request().Context(), req.UserID, req.ResourceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BorrowingHandler) Approve(c echo.Context) error {
	id, ok, err := pathID(c, "borrowing_id")
	if !ok {
		return err
	}
	var req approveReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	b, err := h.uc.ApproveRequest(c.Request().Context(), id, req.LibrarianID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BorrowingHandler) Reject(c echo.Context) error {
	id, ok, err := pathID(c, "borrowing_id")
	if !ok {
		return err
	}
	var req rejectReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.uc.RejectRequest(c.Request().Context(), id, req.LibrarianID, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"borrowing_id": id, "status": "rejected"})
}

func (h *BorrowingHandler) ListForUser(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	out, err := h.uc.ListUserBorrowings(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

func (h *BorrowingHandler) ListPending(c echo.Context) error {
	out, err := h.uc.ListPendingRequests(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(out))
}

func (h *BorrowingHandler) PendingCount(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	n, err := h.uc.PendingRequestCount(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user_id": userID, "pending": n})
}

func nonNil(in []borrowuc.BorrowingDTO) []borrowuc.BorrowingDTO {
	if in == nil {
		return []borrowuc.BorrowingDTO{}
	}
	return in
}
