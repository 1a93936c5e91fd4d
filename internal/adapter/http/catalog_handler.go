package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"library-borrowing/internal/domain/resource"
	"library-borrowing/internal/usecase/catalog"
)

type CatalogHandler struct{ uc *catalog.Usecase }

func NewCatalogHandler(uc *catalog.Usecase) *CatalogHandler { return &CatalogHandler{uc: uc} }

// ListResources serves GET /resources?category=&status=&q=&basic=
func (h *CatalogHandler) ListResources(c echo.Context) error {
	ctx := c.Request().Context()
	f := resource.Filter{
		Category:      resource.Category(strings.TrimSpace(c.QueryParam("category"))),
		Status:        resource.Status(strings.TrimSpace(c.QueryParam("status"))),
		TitleContains: strings.TrimSpace(c.QueryParam("q")),
	}
	basic, _ := strconv.ParseBool(c.QueryParam("basic"))

	var (
		out []resource.Resource
		err error
	)
	if basic {
		out, err = h.uc.ListResourcesBasic(ctx, f)
	} else {
		out, err = h.uc.ListResources(ctx, f)
	}
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []resource.Resource{}
	}
	return c.JSON(http.StatusOK, out)
}

// Search serves GET /resources/search?q= and requires a non-blank q.
func (h *CatalogHandler) Search(c echo.Context) error {
	out, err := h.uc.SearchResources(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		out = []resource.Resource{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetResource(c echo.Context) error {
	id, ok, err := pathID(c, "resource_id")
	if !ok {
		return err
	}
	r, err := h.uc.GetResource(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}
