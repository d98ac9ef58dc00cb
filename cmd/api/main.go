package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyeongirlife/event-management-platform/internal/config"
	"github.com/hyeongirlife/event-management-platform/internal/handler"
	"github.com/hyeongirlife/event-management-platform/internal/middleware"
	"github.com/hyeongirlife/event-management-platform/internal/repository"
	"github.com/hyeongirlife/event-management-platform/internal/scheduler"
	"github.com/hyeongirlife/event-management-platform/internal/service"
	"github.com/hyeongirlife/event-management-platform/internal/validator"
	"github.com/hyeongirlife/event-management-platform/pkg/database"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Event Management Platform",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB, event payloads are small
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()

	// Layered wiring: repository -> service -> handler
	eventRepo := repository.NewEventRepository(pool)
	rewardRepo := repository.NewRewardRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)

	eventService := service.NewEventService(eventRepo)
	rewardService := service.NewRewardService(rewardRepo, eventRepo)
	claimService := service.NewClaimService(eventRepo, rewardRepo, claimRepo, service.PlaceholderEvaluator{})

	eventHandler := handler.NewEventHandler(eventService, validate)
	rewardHandler := handler.NewRewardHandler(rewardService, validate)
	claimHandler := handler.NewClaimHandler(claimService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	// Everything under /api requires the gateway-injected user context
	api := app.Group("/api", middleware.UserContext())

	events := api.Group("/events")
	events.Post("/", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), eventHandler.CreateEvent)
	events.Get("/", eventHandler.ListEvents)
	events.Get("/:id", eventHandler.GetEvent)
	events.Patch("/:id", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), eventHandler.UpdateEvent)
	events.Delete("/:id", middleware.RequireRoles(middleware.RoleAdmin), eventHandler.DeleteEvent)

	rewards := api.Group("/rewards")
	rewards.Post("/", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), rewardHandler.CreateReward)
	rewards.Get("/", rewardHandler.ListRewards)
	rewards.Get("/:id", rewardHandler.GetReward)
	rewards.Patch("/:id", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), rewardHandler.UpdateReward)
	rewards.Delete("/:id", middleware.RequireRoles(middleware.RoleAdmin), rewardHandler.DeleteReward)

	userRewards := api.Group("/user-rewards")
	userRewards.Post("/claim", claimHandler.ClaimReward)
	userRewards.Get("/me", claimHandler.MyRewards)
	userRewards.Get("/admin", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAuditor, middleware.RoleAdmin), claimHandler.AllEntries)

	// Event lifecycle scheduler (SCHEDULED -> ACTIVE -> ENDED by time window)
	var lifecycle *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		lifecycle, err = scheduler.New(eventRepo, cfg.Scheduler.IntervalDuration())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event lifecycle scheduler")
		}
		lifecycle.Start()
	}

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if lifecycle != nil {
		if err := lifecycle.Stop(); err != nil {
			log.Error().Err(err).Msg("error stopping scheduler")
		}
	}

	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
