package auth

import (
	"strings"

	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/logger"
)

const contextKeyClaims = "claims"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts the bearer token from the Authorization header and
// validates it. If valid, the claims are stored on the context; otherwise it
// returns 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		claims, err := m.authService.ValidateToken(ctx, token)
		if err != nil {
			logger.FromContext(ctx).Info("rejected bearer token", logger.Data{"reason": err.Error()})
			return err
		}

		c.Set(contextKeyClaims, claims)

		return next(c)
	}
}

// RequirePermission returns middleware that checks if the token grants the
// required permission. Must be used after Authenticate middleware.
func (m *Middleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaimsFromContext(c)
			if !ok {
				return errcodes.Unauthorized("authorization_header_missing", "Authorization header is expected.")
			}

			if !claims.HasPermission(permission) {
				return errcodes.Forbidden("Permission " + permission)
			}

			return next(c)
		}
	}
}

// GetClaimsFromContext retrieves the validated token claims from the Echo
// context.
func GetClaimsFromContext(c echo.Context) (*JWTClaims, bool) {
	claims, ok := c.Get(contextKeyClaims).(*JWTClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", errcodes.Unauthorized("authorization_header_missing", "Authorization header is expected.")
	}

	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", errcodes.Unauthorized("invalid_header", `Authorization header must start with "Bearer".`)
	case len(parts) == 1:
		return "", errcodes.Unauthorized("invalid_header", "Token not found.")
	case len(parts) > 2:
		return "", errcodes.Unauthorized("invalid_header", "Authorization header must be bearer token.")
	}

	return parts[1], nil
}
