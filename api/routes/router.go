package routes

import (
	"net/http"
	"time"

	"bookfair/internal/auth"
	"bookfair/internal/dashboard"
	"bookfair/internal/notifications"
	"bookfair/internal/reservations"
	"bookfair/internal/shared/config"
	"bookfair/internal/shared/database"
	"bookfair/internal/stalls"
	"bookfair/pkg/cache"
	"bookfair/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config              *config.Config
	db                  *database.DB
	cache               cache.Service
	log                 *logger.Logger
	notificationService notifications.Service
}

// NewRouter creates a new router instance. The notification service may
// be nil when the pipeline failed to start; confirmations are then
// skipped, not failed.
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, log *logger.Logger, notificationService notifications.Service) *Router {
	return &Router{
		config:              cfg,
		db:                  db,
		cache:               cacheService,
		log:                 log,
		notificationService: notificationService,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Shared repositories and services, wired once
	stallRepo := stalls.NewRepository(r.db.GetPostgreSQL())
	stallService := stalls.NewService(stallRepo, r.cache, r.log)

	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())

	var sender reservations.ConfirmationSender
	if r.notificationService != nil {
		sender = r.notificationService
	}
	reservationService := reservations.NewService(reservationRepo, r.cache, r.log, r.config, sender)

	// Stall detail pages show who holds a reserved stall
	stallService.SetReservationLookup(reservations.NewStallLookupAdapter(reservationRepo))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authRepo := auth.NewRepository(r.db.GetPostgreSQL())
		authService := auth.NewService(authRepo, r.config)
		authRouter := auth.NewRouter(auth.NewController(authService), r.config)
		authRouter.SetupRoutes(api)

		stallRouter := stalls.NewRouter(stalls.NewController(stallService), r.config)
		stallRouter.SetupRoutes(api)

		reservationRouter := reservations.NewRouter(reservations.NewController(reservationService), r.config)
		reservationRouter.SetupRoutes(api)

		dashboardService := dashboard.NewService(reservationRepo, stallRepo, r.cache, r.log)
		dashboardRouter := dashboard.NewRouter(dashboard.NewController(dashboardService), r.config)
		dashboardRouter.SetupRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "bookfair-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "bookfair-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
