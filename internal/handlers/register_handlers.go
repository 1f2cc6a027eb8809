package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/anupku07/atm_terminal/cmd/docs"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/middleware"
	"github.com/anupku07/atm_terminal/internal/platform/config"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/anupku07/atm_terminal/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// collector and analytics may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	collector *metrics.MetricsCollector,
	analytics *utils.PosthogClientWrapper,
) error {
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}
		if slices.Contains(cfg.CORSAllowedOrigins, "*") {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		}
		r.Use(cors.New(corsCfg))
	}

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.GetHandler()))
	}

	// Register public authentication routes
	if err := registerAuthRoutes(r, cfg, services.Session); err != nil {
		return err
	}

	// Setup API v1 routes with session middleware
	setupAPIV1Routes(r, cfg, services, analytics)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1/atm group and delegates to the terminal route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) {
	atm := r.Group("/api/v1/atm",
		middleware.SessionAuthMiddleware(cfg.JWTSecret, services.ATM),
		middleware.PosthogMiddleware(analytics),
	)

	registerATMRoutes(atm, services.ATM)
	registerReceiptRoutes(atm, services.Receipt)
}

// registerAuthRoutes sets up the PIN authentication route behind a per-IP rate limit.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, sessionService portssvc.SessionSvc) error {
	h := newAuthHandler(sessionService)

	pinLimiter, err := middleware.NewMemoryLimiter(cfg.PinRateLimit)
	if err != nil {
		return fmt.Errorf("failed to create PIN rate limiter: %w", err)
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/pin", middleware.RateLimit(pinLimiter), h.authenticatePin)
	}
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
