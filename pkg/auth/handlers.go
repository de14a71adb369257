package auth

import (
	"net/http"

	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct{}

// me describes the caller's token so clients can tell which actions they're
// allowed to take.
func (h *handler) me(c echo.Context) error {
	claims, ok := GetClaimsFromContext(c)
	if !ok {
		return errcodes.Unauthorized("authorization_header_missing", "Authorization header is expected.")
	}

	permissions := claims.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	resp := MeResponse{
		Success:     true,
		Subject:     claims.Subject,
		Permissions: permissions,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = &claims.ExpiresAt.Time
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
