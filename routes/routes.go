// Package routes wires the gin router.
//
//   - api.go: v1 API and health probes
//   - web.go: service index
//   - middleware.go: CORS and per-client rate limiting
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/responses"
	"go.uber.org/zap"
)

// Options configures the shared middleware.
type Options struct {
	AllowedOrigins []string
	RatePerSecond  float64 // zero disables rate limiting
	RateBurst      int
	Logger         *zap.Logger
}

// SetupAllRoutes installs middleware and every route group.
func SetupAllRoutes(router *gin.Engine, ctrl Controllers, opts Options) {
	setupMiddleware(router, opts)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, ctrl.Admin)
	SetupAPIRoutes(router, ctrl)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "ROUTE_NOT_FOUND",
			Message: c.Request.Method + " " + c.Request.URL.Path,
		})
	})
}

func setupMiddleware(router *gin.Engine, opts Options) {
	router.Use(gin.Recovery())
	if opts.Logger != nil {
		router.Use(requestLogger(opts.Logger))
	}
	router.Use(corsMiddleware(opts.AllowedOrigins))
	if opts.RatePerSecond > 0 {
		router.Use(newIPRateLimiter(opts.RatePerSecond, opts.RateBurst, limiterTTL).middleware())
	}
}
