package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/rachao-basket/scoreboard/config"
	"github.com/rachao-basket/scoreboard/db"
	"github.com/rachao-basket/scoreboard/handlers"
	"github.com/rachao-basket/scoreboard/live"
	"github.com/rachao-basket/scoreboard/middleware"
	"github.com/rachao-basket/scoreboard/repositories"
	api "github.com/rachao-basket/scoreboard/routes"
	"github.com/rachao-basket/scoreboard/scoreboard"
	"github.com/rachao-basket/scoreboard/services"
	"github.com/rachao-basket/scoreboard/settings"
	"github.com/rachao-basket/scoreboard/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	settingsStore, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		logger.Error("failed to open settings store", slog.Any("error", err), slog.String("path", cfg.SettingsPath))
		os.Exit(1)
	}
	logger.Info("settings store opened", slog.String("path", cfg.SettingsPath))

	// The CSV export upload is optional; without R2 credentials the export
	// endpoint still streams the file inline.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	liveRepo := repositories.NewPostgresLiveGameRepository(dbConn)
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	teamService := services.NewTeamService(teamRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, matchRepo, resultRepo, teamRepo)
	checkInService := services.NewCheckInService(entryRepo, matchRepo)
	historyService := services.NewHistoryService(matchRepo, resultRepo, uploader)
	gateway := services.NewScoreboardGateway(matchRepo, resultRepo, liveRepo)
	logger.Info("services initialized")

	controller := scoreboard.NewController(
		gateway,
		settingsStore,
		scoreboard.WithNotifier(hub),
		scoreboard.WithSounder(hub),
		scoreboard.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go controller.Run(ctx)
	logger.Info("scoreboard controller started")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(controller, tournamentService)
	liveHandler := handlers.NewLiveHandler(liveRepo)
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	checkInHandler := handlers.NewCheckInHandler(checkInService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	settingsHandler := handlers.NewSettingsHandler(settingsStore)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		gameHandler,
		liveHandler,
		teamHandler,
		tournamentHandler,
		checkInHandler,
		historyHandler,
		settingsHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
