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

	"github.com/bpaddle/competition-engine/brackets"
	"github.com/bpaddle/competition-engine/config"
	"github.com/bpaddle/competition-engine/db"
	"github.com/bpaddle/competition-engine/elo"
	"github.com/bpaddle/competition-engine/handlers"
	"github.com/bpaddle/competition-engine/repositories"
	api "github.com/bpaddle/competition-engine/routes"
	"github.com/bpaddle/competition-engine/services"
	"github.com/go-chi/chi/v5"
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

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	store := repositories.NewStore(dbConn)
	ratingEngine := elo.NewEngine(cfg.Rating)

	processorService := services.NewProcessorService(store, ratingEngine, wsHub, logger)
	ratingService := services.NewRatingService(store, ratingEngine)
	tournamentService := services.NewTournamentService(store, ratingService, logger)
	standingsService := services.NewStandingsService(store, wsHub, logger)
	seasonService := services.NewSeasonService(store, standingsService, cfg.SeasonSweepInterval, logger)
	logger.Info("services initialized")

	if err := seasonService.Start(); err != nil {
		logger.Error("failed to start season sweeper", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := seasonService.Stop(); err != nil {
			logger.Error("failed to stop season sweeper", slog.Any("error", err))
		}
	}()

	matchHandler := handlers.NewMatchHandler(processorService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	leagueHandler := handlers.NewLeagueHandler(standingsService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		matchHandler,
		tournamentHandler,
		leagueHandler,
		ratingHandler,
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
