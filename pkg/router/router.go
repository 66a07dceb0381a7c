package router

import (
	"time"

	"health-connect-demo/backend/internal/api"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/internal/ws"
	"health-connect-demo/backend/pkg/config"
	"health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/health"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/middleware"

	aiclient "health-connect-demo/backend/internal/ai"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Dependencies carries everything the router wires into handlers. Services
// may run with a nil database; they degrade to configuration errors on the
// persistence paths.
type Dependencies struct {
	Logger        *logger.Logger
	Config        *config.Config
	Stream        notify.Stream
	AIClient      *aiclient.Client
	Health        *health.Checker
	Users         *service.UserService
	Symptoms      *service.SymptomService
	Advisor       *service.AdvisorService
	Consultations *service.ConsultationService
	Chats         *service.ChatService
	Notifications *service.NotificationService
	Remedies      *service.RemedyService
	Metrics       *service.MetricService
}

// Router is the main router for the application
type Router struct {
	Engine *gin.Engine
	Deps   *Dependencies
	Logger *logger.Logger
	Hub    *ws.Hub
	Config *config.Config
}

// New creates a new router with the given dependencies. The caller is
// responsible for starting the hub with go r.Hub.Run(ctx).
func New(deps *Dependencies) *Router {
	logger.SetGlobal(deps.Logger)

	cfg := deps.Config
	if cfg == nil {
		cfg = config.Get()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// CORS runs first so preflight requests short-circuit before auth or
	// rate limiting can reject them.
	engine.Use(middleware.CORS())

	// Capture all requests with the logger middleware before anything else
	// can abort.
	engine.Use(logger.Middleware(deps.Logger))

	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(deps.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(cfg.Security.RateLimit),
		Burst:          cfg.Security.RateLimitBurst,
		ExpiryDuration: time.Hour,
		KeyFunc:        middleware.UserOrIPKey,
	})
	engine.Use(rateLimiter.Middleware())

	hub := ws.NewHub(deps.Stream, deps.Logger)

	return &Router{
		Engine: engine,
		Deps:   deps,
		Logger: deps.Logger,
		Hub:    hub,
		Config: cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	jwtAuth := middleware.JWTAuth(r.Logger)
	optionalAuth := middleware.OptionalJWTAuth()

	authHandler := api.NewAuthHandler(r.Deps.Users, r.Logger)
	symptomHandler := api.NewSymptomHandler(r.Deps.Symptoms, r.Logger)
	advisorHandler := api.NewAdvisorHandler(r.Deps.Advisor, r.Logger)
	notificationHandler := api.NewNotificationHandler(r.Deps.Notifications, r.Logger)
	consultationHandler := api.NewConsultationHandler(r.Deps.Consultations, r.Logger)
	chatHandler := api.NewChatHandler(r.Deps.Chats, r.Deps.Consultations, r.Logger)
	remedyHandler := api.NewRemedyHandler(r.Deps.Remedies, r.Logger)
	metricHandler := api.NewMetricHandler(r.Deps.Metrics, r.Logger)
	voiceHandler := api.NewVoiceHandler(r.Deps.AIClient, r.Config, r.Logger)

	// Top-level AI endpoints keep their original paths and response shapes.
	// They accept anonymous callers; a bearer token only adds report
	// persistence and history merging.
	r.Engine.POST("/ai-symptom-analysis", optionalAuth, symptomHandler.Analyze)
	r.Engine.POST("/ai-health-advisor", optionalAuth, advisorHandler.Advise)
	r.Engine.POST("/send-notification", optionalAuth, notificationHandler.Send)

	r.setupHealthRoutes()

	v1 := r.Engine.Group("/api/v1")

	// Public routes (no auth required)
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", jwtAuth, authHandler.Me)
	}

	// The remedy catalog is reference content and stays public.
	remedyRoutes := v1.Group("/remedies")
	{
		remedyRoutes.GET("", remedyHandler.Search)
		remedyRoutes.GET("/:id", remedyHandler.Get)
	}

	// Protected routes (require authentication)
	protected := v1.Group("/")
	protected.Use(jwtAuth)
	{
		protected.PUT("/auth/profile", authHandler.UpdateProfile)
		protected.GET("/doctors", authHandler.ListDoctors)

		symptomRoutes := protected.Group("/symptoms")
		{
			symptomRoutes.POST("/analyze", symptomHandler.Analyze)
			symptomRoutes.GET("/reports", symptomHandler.Reports)
		}

		consultationRoutes := protected.Group("/consultations")
		{
			// Booking is patient-initiated. Status transitions stay open to
			// both roles here because either party may cancel; the service
			// enforces that only doctors confirm or complete.
			consultationRoutes.POST("", middleware.RequireUserType(models.UserTypePatient), consultationHandler.Book)
			consultationRoutes.GET("", consultationHandler.List)
			consultationRoutes.GET("/:id", consultationHandler.Get)
			consultationRoutes.PATCH("/:id/status", consultationHandler.UpdateStatus)
			consultationRoutes.GET("/:id/messages", chatHandler.History)
			consultationRoutes.POST("/:id/messages", chatHandler.Send)
		}

		metricRoutes := protected.Group("/metrics")
		{
			metricRoutes.POST("", metricHandler.Record)
			metricRoutes.GET("", metricHandler.List)
			metricRoutes.GET("/summary", metricHandler.Summary)
		}

		voiceRoutes := protected.Group("/voice")
		{
			voiceRoutes.POST("/transcribe", voiceHandler.Transcribe)
			voiceRoutes.POST("/synthesize", voiceHandler.Synthesize)
		}
	}

	// WebSocket route. Authentication happens inside ServeWs via the token
	// query parameter because browsers cannot set headers on upgrades.
	r.Engine.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(r.Hub, r.Deps.Chats, r.Deps.Consultations, r.Logger, c)
	})
}

// setupHealthRoutes registers health check endpoints on both paths for
// compatibility with older deploy probes.
func (r *Router) setupHealthRoutes() {
	if r.Deps.Health != nil {
		handler := gin.WrapF(r.Deps.Health.HTTPHandler())
		r.Engine.GET("/health", handler)
		r.Engine.GET("/api/health", handler)
		return
	}

	r.Engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}
