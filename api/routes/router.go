// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"tickethub/internal/bookings"
	"tickethub/internal/catalog"
	"tickethub/internal/holds"
	"tickethub/internal/notifications"
	"tickethub/internal/payments"
	"tickethub/internal/seatmap"
	"tickethub/internal/shared/config"
	"tickethub/internal/shared/database"
	"tickethub/internal/shared/middleware"
	"tickethub/internal/shared/utils/response"
	"tickethub/internal/tickets"
	"tickethub/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier notifications.NotificationService

	// Shared state wired once and reused across route groups
	cacheService   cache.Service
	seatStore      *seatmap.Store
	holdManager    *holds.Manager
	bookingRepo    bookings.Repository
	catalogService catalog.Service
	ticketIssuer   *tickets.Issuer
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier notifications.NotificationService) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.wireSharedServices()

	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupSessionRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupHoldRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// StartBackgroundJobs launches the long-running maintenance loops. Call after
// SetupRoutes; the loops stop when ctx is cancelled.
func (r *Router) StartBackgroundJobs(ctx context.Context) {
	go r.holdManager.RunRetentionSweep(ctx, r.config.Holds.Retention)
}

// wireSharedServices builds the dependency graph shared by the route groups:
// seat maps, the hold manager backed by redis and durable booked seats, the
// cached catalog and the ticket issuer.
func (r *Router) wireSharedServices() {
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.seatStore = seatmap.NewStore()
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())

	mirror := holds.NewRedisMirror(r.db.GetRedisClient())
	r.holdManager = holds.NewManager(r.seatStore, r.bookingRepo, mirror, r.config.Holds.TTL)

	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	r.catalogService = catalog.NewService(catalogRepo, r.cacheService, r.holdManager)

	r.ticketIssuer = tickets.NewIssuer(r.config.Session.Secret)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tickethub-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tickethub-backend",
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

// setupSessionRoutes mints guest session tokens
func (r *Router) setupSessionRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", func(c *gin.Context) {
		token, sessionID, err := middleware.IssueSessionToken(r.config)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create session", nil)
			return
		}

		response.Success(c, http.StatusCreated, "Session created successfully", gin.H{
			"session_id": sessionID,
			"token":      token,
			"expires_in": int(r.config.Session.TTL.Seconds()),
		})
	})
}

// setupCatalogRoutes configures movie and showtime browsing routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalogController := catalog.NewController(r.catalogService)
	catalog.SetupCatalogRoutes(rg, catalogController)
}

// setupHoldRoutes configures seat hold and availability routes
func (r *Router) setupHoldRoutes(rg *gin.RouterGroup) {
	holdController := holds.NewController(r.holdManager, r.catalogService)
	holds.SetupHoldRoutes(rg, holdController, r.config)
}

// setupBookingRoutes configures the purchase flow routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	gateway := payments.NewMockGateway(payments.Config{
		KeyID:     r.config.Payment.KeyID,
		KeySecret: r.config.Payment.KeySecret,
		Currency:  r.config.Pricing.Currency,
	})

	bookingService := bookings.NewService(
		r.bookingRepo,
		r.holdManager,
		r.catalogService,
		gateway,
		r.ticketIssuer,
		r.notifier,
		bookings.ServiceConfig{
			ConvenienceFeePerSeat: r.config.Pricing.ConvenienceFeePerSeat,
			Currency:              r.config.Pricing.Currency,
			PaymentTimeout:        r.config.Payment.Timeout,
		},
	)

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}
