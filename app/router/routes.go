// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/app/handlers"
	"github.com/cutroom-academy/cutroom-api/app/middleware"
	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups everything the router mounts
type Handlers struct {
	Auth       handlers.AuthHandlerInterface
	Redirect   handlers.RedirectHandlerInterface
	AdLink     handlers.AdLinkHandlerInterface
	Lead       handlers.LeadHandlerInterface
	Sale       handlers.SaleHandlerInterface
	Content    handlers.ContentHandlerInterface
	HallOfFame handlers.HallOfFameHandlerInterface
	Export     handlers.AdminExportHandlerInterface
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app            *fiber.App
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	cfg            *config.ProductionConfig
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, cfg *config.ProductionConfig) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Cutroom Academy API",
		ServerHeader: "Cutroom",
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:            app,
		handlers:       h,
		authMiddleware: authMiddleware,
		cfg:            cfg,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Public ad link redirect, outside the API prefix
	r.app.Get("/go/:slug", r.handlers.Redirect.Go)

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public marketing site endpoints
	api.Post("/leads/intake", r.handlers.Lead.Intake)
	api.Post("/ad-links/validate-slug", r.handlers.AdLink.ValidateSlug)
	// Other verbs on the slug check answer 405 instead of falling
	// through to the catch-all 404
	api.All("/ad-links/validate-slug", r.methodNotAllowedHandler)
	api.Get("/content/:section", r.handlers.Content.Section)
	api.Get("/hall-of-fame", r.handlers.HallOfFame.List)
	api.Post("/webhooks/hall-of-fame", r.handlers.HallOfFame.Webhook)

	// Auth routes with stricter rate limiting
	auth := api.Group("/auth")

	auth.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.AuthRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.Refresh)

	// Staff endpoints, all behind JWT auth plus a per-route permission check
	admin := api.Group("/admin", r.authMiddleware.Authenticate())

	admin.Get("/ad-links", r.handlers.AdLink.List, r.authMiddleware.RequirePermission(models.PermissionAdLinksView))
	admin.Post("/ad-links", r.handlers.AdLink.Create, r.authMiddleware.RequirePermission(models.PermissionAdLinksEdit))
	admin.Put("/ad-links/:id", r.handlers.AdLink.Update, r.authMiddleware.RequirePermission(models.PermissionAdLinksEdit))
	admin.Post("/ad-links/:id/deactivate", r.handlers.AdLink.Deactivate, r.authMiddleware.RequirePermission(models.PermissionAdLinksEdit))
	admin.Get("/ad-links/:id/stats", r.handlers.AdLink.Stats, r.authMiddleware.RequirePermission(models.PermissionAnalyticsView))

	admin.Get("/leads", r.handlers.Lead.List, r.authMiddleware.RequirePermission(models.PermissionLeadsView))
	admin.Get("/leads/:id", r.handlers.Lead.Get, r.authMiddleware.RequirePermission(models.PermissionLeadsView))
	admin.Put("/leads/:id", r.handlers.Lead.Update, r.authMiddleware.RequirePermission(models.PermissionLeadsEdit))
	admin.Post("/leads/:id/status", r.handlers.Lead.ChangeStatus, r.authMiddleware.RequirePermission(models.PermissionLeadsEdit))
	admin.Get("/leads/:id/sale", r.handlers.Sale.GetByLead, r.authMiddleware.RequirePermission(models.PermissionSalesView))

	admin.Get("/sales", r.handlers.Sale.List, r.authMiddleware.RequirePermission(models.PermissionSalesView))
	admin.Get("/sales/:id/history", r.handlers.Sale.History, r.authMiddleware.RequirePermission(models.PermissionSalesView))
	admin.Post("/sales/:id/payments", r.handlers.Sale.RecordPayment, r.authMiddleware.RequirePermission(models.PermissionSalesEdit))
	admin.Post("/sales/:id/grant-access", r.handlers.Sale.GrantAccess, r.authMiddleware.RequirePermission(models.PermissionSalesEdit))
	admin.Post("/sales/:id/grant-exemption", r.handlers.Sale.GrantExemption, r.authMiddleware.RequirePermission(models.PermissionSalesEdit))

	admin.Get("/content/:section", r.handlers.Content.ListItems, r.authMiddleware.RequirePermission(models.PermissionContentView))
	admin.Put("/content", r.handlers.Content.Upsert, r.authMiddleware.RequirePermission(models.PermissionContentEdit))

	admin.Get("/export/leads-sales", r.handlers.Export.ExportLeadsAndSales, r.authMiddleware.RequirePermission(models.PermissionAnalyticsView))

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             r.cfg.Security.XSSProtection,
		ContentTypeNosniff:        r.cfg.Security.XContentTypeOptions,
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                r.cfg.Security.HSTSMaxAge,
		HSTSExcludeSubdomains:     !r.cfg.Security.HSTSIncludeSubDoms,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.AllowedOrigins,
		AllowMethods: r.cfg.Security.AllowedMethods,
		AllowHeaders: append(r.cfg.Security.AllowedHeaders, "X-Request-ID", "Cache-Control"),
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
		},
		AllowCredentials: r.cfg.Security.AllowCredentials,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for certain content types
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "video/") ||
				contains(contentType, "audio/")
		},
	}))

	// Prometheus request metrics
	if r.cfg.Server.EnableMetrics {
		r.app.Use(middleware.Metrics())
	}

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   r.cfg.Deployment.Version,
			"service":   "cutroom-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Method not allowed handler
func (r *FiberRouter) methodNotAllowedHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.APIResponse{
		Success: false,
		Message: "Method not allowed on this resource",
		Error: dto.ErrorDetail{
			Code: "METHOD_NOT_ALLOWED",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
