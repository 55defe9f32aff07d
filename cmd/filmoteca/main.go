package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/outracoisa/filmoteca/internal/api"
	"github.com/outracoisa/filmoteca/internal/config"
	"github.com/outracoisa/filmoteca/internal/controllers"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/outracoisa/filmoteca/internal/scheduler"
	"github.com/outracoisa/filmoteca/internal/services/tmdb"
	"github.com/outracoisa/filmoteca/internal/state"
	"github.com/outracoisa/filmoteca/internal/utils"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Filmoteca")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Optional Redis response cache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.WithField("addr", cfg.RedisAddr).Info("Redis response cache enabled")
	}

	// 5. Initialize TMDB client
	tmdbClient, err := tmdb.NewClient(cfg, rdb, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 6. Initialize controllers
	movieCtrl := controllers.NewMovieController(db, tmdbClient, logger)
	accountCtrl := controllers.NewAccountController(db, logger)
	logger.Info("Controllers initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Initialize state holders
	authState := state.NewAuthState(accountCtrl, logger)
	movieState := state.NewMovieState(ctx, movieCtrl, logger)
	defer movieState.Close()

	// 8. Initialize scheduler
	sched := scheduler.NewScheduler(movieState, cfg.RefreshCron, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 9. Initialize HTTP server
	server := api.NewServer(cfg, authState, movieState, movieCtrl, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Filmoteca is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Filmoteca stopped")
	return nil
}
