package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	"health-connect-demo/backend/internal/service"
	"health-connect-demo/backend/pkg/cache"
	"health-connect-demo/backend/pkg/config"
	"health-connect-demo/backend/pkg/health"
	"health-connect-demo/backend/pkg/logger"
	"health-connect-demo/backend/pkg/observability"
	"health-connect-demo/backend/pkg/router"
	"health-connect-demo/backend/pkg/secrets"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.New()

	log := logger.New(logger.Config{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.Format == "json",
	})
	logger.SetGlobal(log)

	// Resolve sensitive configuration through the secrets manager. With
	// Vault disabled this falls through to the environment, which the
	// config package already read.
	if sm, err := secrets.NewManager(log); err != nil {
		log.Warn("Secrets manager unavailable, using environment values", "error", err.Error())
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cfg.AI.OpenAIKey = sm.GetSecretWithDefault(ctx, "OPENAI_API_KEY", cfg.AI.OpenAIKey)
		cfg.AI.ElevenLabsKey = sm.GetSecretWithDefault(ctx, "ELEVENLABS_API_KEY", cfg.AI.ElevenLabsKey)
		cfg.JWT.Secret = sm.GetSecretWithDefault(ctx, "JWT_SECRET", cfg.JWT.Secret)
		cancel()
	}

	observability.SetupPrometheusMetrics(cfg.Observability.MetricsPort)
	if cfg.Observability.TracingEnabled {
		shutdownTracing := observability.SetupTracing("health-connect-backend")
		defer shutdownTracing()
	}

	// The API stays up without a database; persistence-backed features
	// return configuration errors instead.
	db, err := setupDatabase(cfg, log)
	if err != nil {
		log.Warn("Running without database, persistence features disabled", "error", err.Error())
		db = nil
	}

	stream := setupStream(cfg, log)
	defer stream.Close()

	aiClient := ai.NewClient(cfg)
	if !aiClient.Configured() {
		log.Warn("AI provider key not set, analysis and advice endpoints will report a configuration error")
	}

	var profileCache *cache.Cache
	if cfg.Cache.Enabled {
		profileCache = cache.NewWithOptions(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	}

	remedies := service.NewRemedyService(db, log)
	if db != nil {
		if err := remedies.Seed(); err != nil {
			log.Warn("Failed to seed remedy catalog", "error", err.Error())
		}
	}

	checker := health.NewChecker(log, 30*time.Second)
	if db != nil {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			checker.RegisterDatabaseCheck(sqlDB.Ping)
		}
	} else {
		checker.RegisterDatabaseCheck(nil)
	}
	checker.RegisterAIProviderCheck(aiClient.Configured)
	checker.Start()

	consultations := service.NewConsultationService(db)

	deps := &router.Dependencies{
		Logger:        log,
		Config:        cfg,
		Stream:        stream,
		AIClient:      aiClient,
		Health:        checker,
		Users:         service.NewUserService(db),
		Symptoms:      service.NewSymptomService(aiClient, db, log),
		Advisor:       service.NewAdvisorService(aiClient, db, log),
		Consultations: consultations,
		Chats: service.NewChatService(db, stream, aiClient, consultations,
			cfg.Features.MaxMessagesPerFetch, cfg.Features.EnableAIAssistantReply, log),
		Notifications: service.NewNotificationService(db, profileCache, log),
		Remedies:      remedies,
		Metrics:       service.NewMetricService(db),
	}

	r := router.New(deps)
	r.AddOpenAPIValidation("api/openapi.yaml")
	r.SetupRoutes()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go r.Hub.Run(hubCtx)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("Server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server")
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down cleanly", "error", err.Error())
		os.Exit(1)
	}

	log.Info("Server shutdown complete")
}

// setupDatabase opens the connection pool and runs migrations
func setupDatabase(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("database not configured")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Consultation{},
		&models.ChatMessage{},
		&models.SymptomReport{},
		&models.HomeRemedy{},
		&models.HealthMetric{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed")
	return db, nil
}

// setupStream connects the chat change-notification stream, falling back to
// the in-process stream when Redis is unreachable. Single-instance deploys
// lose nothing; multi-instance deploys need Redis for cross-node fan-out.
func setupStream(cfg *config.Config, log *logger.Logger) notify.Stream {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-process chat stream", "addr", cfg.Redis.Addr, "error", err.Error())
		client.Close()
		return notify.NewMemoryStream()
	}

	log.Info("Connected to Redis chat stream", "addr", cfg.Redis.Addr)
	return notify.NewRedisStream(client, log)
}
