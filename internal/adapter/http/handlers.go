package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{ storeDriver string }

func NewHandler(storeDriver string) *Handler { return &Handler{storeDriver: storeDriver} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"store":  h.storeDriver,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
