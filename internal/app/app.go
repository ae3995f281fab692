package app

import (
	"time"

	"propertyflow-backend/internal/agents"
	"propertyflow-backend/internal/auth"
	"propertyflow-backend/internal/config"
	"propertyflow-backend/internal/emails"
	"propertyflow-backend/internal/jwt"
	"propertyflow-backend/internal/leads"
	"propertyflow-backend/internal/listings"
	"propertyflow-backend/internal/media"
	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/photos"
	"propertyflow-backend/internal/public"
	"propertyflow-backend/internal/ratelimit"
	"propertyflow-backend/internal/videos"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route registration.
func CreateApp(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               25 * 1024 * 1024, // photo uploads
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigin: cfg.FrontendURL}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtManager := jwt.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	requireAuth := middleware.RequireAuth(jwtManager)

	// Mux webhook: raw body, own signature check, mounted outside auth.
	muxWebhook := &videos.WebhookHandler{DB: db, WebhookSecret: cfg.MuxWebhookSecret}
	app.Post("/api/v1/webhooks/mux", muxWebhook.HandleWebhook)

	// Auth (public)
	authService := &auth.Service{DB: db}
	authHandlers := &auth.Handlers{Service: authService, JWT: jwtManager}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", requireAuth, authHandlers.Me)

	// Agents
	agentsHandlers := &agents.Handlers{Service: &agents.Service{DB: db}}
	agentsGroup := app.Group("/api/v1/agents", requireAuth)
	agentsGroup.Get("/", agentsHandlers.List)
	agentsGroup.Post("/", agentsHandlers.Create)
	agentsGroup.Get("/:agent_id", agentsHandlers.Get)
	agentsGroup.Put("/:agent_id", agentsHandlers.Update)
	agentsGroup.Delete("/:agent_id", agentsHandlers.Delete)

	// Listings
	listingsHandlers := &listings.Handlers{Service: &listings.Service{DB: db}}
	listingsGroup := app.Group("/api/v1/listings", requireAuth)
	listingsGroup.Get("/", listingsHandlers.List)
	listingsGroup.Post("/", listingsHandlers.Create)
	listingsGroup.Get("/:listing_id", listingsHandlers.Get)
	listingsGroup.Put("/:listing_id", listingsHandlers.Update)
	listingsGroup.Patch("/:listing_id/status", listingsHandlers.UpdateStatus)
	listingsGroup.Delete("/:listing_id", listingsHandlers.Delete)

	// Photos
	imageClient := &media.CloudflareImages{
		AccountID: cfg.CloudflareAccountID,
		APIToken:  cfg.CloudflareAPIToken,
	}
	photosHandlers := &photos.Handlers{Service: &photos.Service{DB: db, Images: imageClient}}
	listingsGroup.Post("/:listing_id/photos", photosHandlers.Upload)
	listingsGroup.Put("/:listing_id/photos/order", photosHandlers.Reorder)
	listingsGroup.Delete("/:listing_id/photos/:photo_id", photosHandlers.Delete)

	// Videos
	videoClient := &media.MuxClient{TokenID: cfg.MuxTokenID, TokenSecret: cfg.MuxTokenSecret}
	videosHandlers := &videos.Handlers{Service: &videos.Service{
		DB: db, Videos: videoClient, CorsOrigin: cfg.FrontendURL,
	}}
	listingsGroup.Post("/:listing_id/videos", videosHandlers.CreateUpload)
	listingsGroup.Get("/:listing_id/videos", videosHandlers.List)
	listingsGroup.Get("/:listing_id/videos/:video_id", videosHandlers.Get)
	listingsGroup.Delete("/:listing_id/videos/:video_id", videosHandlers.Delete)

	// Leads: public submit (rate limited) + owner inbox
	var sender emails.Sender
	if cfg.ResendAPIKey != "" {
		sender = &emails.ResendClient{APIKey: cfg.ResendAPIKey, MailFrom: cfg.MailFrom}
	}
	leadsHandlers := &leads.Handlers{
		Service: &leads.Service{DB: db, Emails: sender},
		Limiter: leadLimiter(cfg),
	}
	app.Post("/api/v1/p/:slug/leads", leadsHandlers.Submit)
	app.Get("/api/v1/leads", requireAuth, leadsHandlers.List)

	// Public listing pages
	publicHandlers := &public.Handlers{Service: &public.Service{DB: db}}
	app.Get("/api/v1/p/:slug", publicHandlers.Branded)
	app.Get("/api/v1/p/:slug/mls", publicHandlers.Unbranded)

	return app
}

// leadLimiter builds the Redis-backed lead rate limiter, or nil when
// Redis is not configured or the limit is disabled.
func leadLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.RedisURL == "" || cfg.LeadRateLimit <= 0 {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid REDIS_URL, lead rate limiting disabled")
		return nil
	}
	return &ratelimit.Limiter{
		Rdb:    redis.NewClient(opts),
		Limit:  cfg.LeadRateLimit,
		Window: time.Minute,
	}
}
