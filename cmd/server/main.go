package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Crypto-Scavenger/Ing-Fast/internal/clock"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/config"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/database"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/handler"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/middleware"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/redis"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/repository"
	"github.com/Crypto-Scavenger/Ing-Fast/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	accountRepo := repository.NewAccountRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	milestoneRepo := repository.NewMilestoneRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)

	clk := clock.System()

	milestoneEngine := service.NewMilestoneEngine(milestoneRepo, clk)
	fastService := service.NewFastService(db, sessionRepo, milestoneEngine, clk)
	statsService := service.NewStatsService(sessionRepo, milestoneRepo, redisClient, cfg.StatsCacheTTL(), clk)
	settingsService := service.NewSettingsService(settingRepo, redisClient)
	accountService := service.NewAccountService(accountRepo)
	adminService := service.NewAdminService(db, sessionRepo, milestoneRepo, settingRepo, settingsService)

	if err := settingsService.EnsureDefaults(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default settings")
	}

	authMiddleware := middleware.NewAuthMiddleware(accountRepo)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client)
	adminMiddleware := middleware.NewAdminMiddleware(cfg.AdminToken)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	fastHandler := handler.NewFastHandler(fastService, statsService)
	accountHandler := handler.NewAccountHandler(accountService, authMiddleware.Handler)
	adminHandler := handler.NewAdminHandler(adminService, settingsService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1/accounts", func(r chi.Router) {
		r.Mount("/", accountHandler.Routes())
	})

	r.Route("/v1/fasts", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Use(rateLimitMiddleware.Handler)
		r.Mount("/", fastHandler.Routes())
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(adminMiddleware.Handler)
		r.Mount("/", adminHandler.Routes())
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
