package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Borrowing *BorrowingHandler
}

// Register mounts every route on e. idem, when non-nil, wraps the routes that write.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	var writes []echo.MiddlewareFunc
	if idem != nil {
		writes = append(writes, idem)
	}

	e.GET("/health", h.Health.Health)

	e.POST("/auth/login", h.Auth.Login)

	e.GET("/resources", h.Catalog.ListResources)
	e.GET("/resources/search", h.Catalog.Search)
	e.GET("/resources/:resource_id", h.Catalog.GetResource)

	e.GET("/users/:user_id/eligibility", h.Borrowing.CheckEligibility)
	e.GET("/users/:user_id/borrowings", h.Borrowing.ListForUser)
	e.GET("/users/:user_id/borrowings/pending-count", h.Borrowing.PendingCount)

	e.GET("/borrowings/pending", h.Borrowing.ListPending)
	e.POST("/borrowings", h.Borrowing.Create, writes...)
	e.POST("/borrowings/:borrowing_id/approve", h.Borrowing.Approve, writes...)
	e.POST("/borrowings/:borrowing_id/reject", h.Borrowing.Reject, writes...)
}
