package movies

import (
	"github.com/castinghq/casting/pkg/auth"
	"github.com/castinghq/casting/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers movie routes on g. Authentication and the
// permission check run per route.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		movieService: NewService(db),
	}

	g.GET("", h.list, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionGetMovies))
	g.GET("/:id", h.retrieve, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionGetMovies))
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionPostMovies))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionPatchMovies))
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionDeleteMovies))
}
