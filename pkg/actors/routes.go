package actors

import (
	"github.com/castinghq/casting/pkg/auth"
	"github.com/castinghq/casting/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers actor routes on g. Each route
// authenticates the caller and checks its own permission. The group itself
// carries no middleware so that unsupported methods still answer 405.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	actorService := NewService(db)

	h := &handler{
		actorService: actorService,
	}

	g.GET("", h.list, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionGetActors))
	g.GET("/:id", h.retrieve, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionGetActors))
	g.POST("", h.create, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionPostActors))
	g.PATCH("/:id", h.update, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionPatchActors))
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate, authMiddleware.RequirePermission(models.PermissionDeleteActors))
}
