package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/castinghq/casting/pkg/actors"
	"github.com/castinghq/casting/pkg/auth"
	"github.com/castinghq/casting/pkg/binder"
	"github.com/castinghq/casting/pkg/config"
	"github.com/castinghq/casting/pkg/errcodes"
	"github.com/castinghq/casting/pkg/metrics"
	"github.com/castinghq/casting/pkg/movies"
	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/unrolled/secure"
	"github.com/uptrace/bun"
)

const bodyLimit = "1M"

func init() {
	echo.NotFoundHandler = notFoundHandler
}

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	errHandler := errcodes.NewHandler()

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	if cfg.MetricsEnabled {
		m := metrics.New()
		e.Use(m.Middleware())
		e.GET("/metrics", m.Handler())
	}
	e.Use(echo.WrapMiddleware(secureHeaders()))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	if cfg.RateLimitPerMinute > 0 {
		e.Use(echo.WrapMiddleware(rateLimit(cfg.RateLimitPerMinute, errHandler)))
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	health.RegisterRoutes(e)

	authService := auth.NewServiceFromConfig(cfg)
	authMiddleware := auth.NewMiddleware(authService)

	auth.RegisterRoutes(e, authMiddleware)

	actors.RegisterRoutesWithGroup(e.Group("/actors"), db, authMiddleware)
	movies.RegisterRoutesWithGroup(e.Group("/movies"), db, authMiddleware)

	e.HTTPErrorHandler = errHandler.Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func secureHeaders() func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler
}

// rateLimit caps requests per client IP over a sliding one minute window.
func rateLimit(perMinute int, errHandler *errcodes.Handler) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			errHandler.Write(w, errcodes.TooManyRequests())
		}),
	)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
