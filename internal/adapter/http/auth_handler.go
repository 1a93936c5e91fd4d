package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-borrowing/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginInput
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	usr, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}
