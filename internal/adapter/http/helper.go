package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// pathID reads a positive integer path parameter. On failure it has already
// written the 400 response and ok is false.
func pathID(c echo.Context, name string) (id int64, ok bool, err error) {
	id, perr := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if perr != nil || id <= 0 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid path parameter",
			Details: []FieldError{{Field: name, Message: "must be a positive integer"}},
		})
	}
	return id, true, nil
}

func queryID(c echo.Context, name string) (int64, bool, error) {
	id, perr := strconv.ParseInt(strings.TrimSpace(c.QueryParam(name)), 10, 64)
	if perr != nil || id <= 0 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid query parameter",
			Details: []FieldError{{Field: name, Message: "must be a positive integer"}},
		})
	}
	return id, true, nil
}
