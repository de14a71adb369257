package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the auth routes. Every route requires a valid
// token but no particular permission.
func RegisterRoutes(e *echo.Echo, authMiddleware *Middleware) {
	h := &handler{}

	e.GET("/auth/me", h.me, authMiddleware.Authenticate)
}
