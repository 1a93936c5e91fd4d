package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/logger"
	"library-borrowing/internal/usecase/auth"
)

// writeError maps domain errors to status codes.
func writeError(c echo.Context, err error) error {
	var (
		ce *errs.ConflictError
		ve *errs.ValidationError
		se *errs.StoreError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Message}},
		})
	case errors.As(err, &ce):
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:          "not eligible",
			Reason:         ce.Reason,
			ResourceStatus: ce.ResourceStatus,
		})
	case errors.Is(err, errs.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, errs.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrForbiddenRole):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.As(err, &se):
		logger.Get().Warn("store error", "path", c.Path(), "status", se.StatusCode, "err", se)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: se.Error()})
	default:
		logger.Get().Error("unhandled error", "path", c.Path(), "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// bindAndValidate returns a non-nil response error when the body is unusable.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
