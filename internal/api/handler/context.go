package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wastewise/wastewise/internal/api/middleware"
	"github.com/wastewise/wastewise/internal/core/domain"
)

// actor extracts the user injected by the Auth middleware and fails fast
// before any service call when it is missing.
func actor(c echo.Context) (*domain.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return u, nil
}
