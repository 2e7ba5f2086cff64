package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"stock_updater_project/config"
	"stock_updater_project/controllers"
	"stock_updater_project/routes"
	"stock_updater_project/scheduler"
	"stock_updater_project/services"
	"stock_updater_project/services/datafetcher"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	once := flag.Bool("once", false, "run a single update and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", verr)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		}
		os.Exit(1)
	}

	logger, cleanup, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	logger.Info("==============================================")
	logger.Info("  Stock Updater - Starting...")
	logger.Info("==============================================")
	logger.Info("Configuration loaded",
		zap.Bool("env_file", cfg.EnvFileLoaded),
		zap.String("supabase_url", cfg.MaskedSupabaseURL()),
		zap.String("data_source", cfg.DataSource),
		zap.Bool("direct_database", cfg.UsesDirectDatabase()))

	checkServiceKey(cfg, logger)

	store, db, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("Storage initialization failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	defer closeDB(db, logger)

	source, err := datafetcher.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Error("Data source initialization failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	updater := services.NewStockUpdater(store, store, source, logger,
		services.WithTickerPause(cfg.TickerPause))

	if *once {
		code := runOnce(updater, logger)
		closeDB(db, logger)
		cleanup()
		os.Exit(code)
	}

	schedule, err := scheduler.ScheduleFromConfig(cfg.Schedule)
	if err != nil {
		logger.Error("Invalid schedule", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	jobScheduler := scheduler.NewScheduler(updater, schedule, cfg.Location(), cfg.CheckInterval, logger)
	if err := jobScheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler", zap.Error(err))
		cleanup()
		os.Exit(1)
	}

	var server *http.Server
	if cfg.HTTPEnabled {
		server = startServer(cfg, updater, store, jobScheduler, logger)
	}

	// Graceful shutdown
	gracefulShutdown(server, jobScheduler, logger)
}

// checkServiceKey warns about API keys that cannot write the price tables
func checkServiceKey(cfg *config.Config, logger *zap.Logger) {
	info, err := config.InspectServiceKey(cfg.SupabaseServiceKey)
	if errors.Is(err, config.ErrOpaqueKey) {
		logger.Debug("Service key is not a JWT, skipping claim checks")
		return
	}
	if err != nil {
		logger.Warn("Could not inspect service key", zap.Error(err))
		return
	}

	if !info.IsServiceRole() {
		logger.Warn("Supabase key does not carry the service role, writes may be rejected",
			zap.String("role", info.Role))
	}
	if info.IsExpired(time.Now()) {
		logger.Warn("Supabase key has expired", zap.Timep("expires_at", info.ExpiresAt))
	}
}

// openStore picks direct Postgres when DATABASE_URL is set, the REST API otherwise
func openStore(cfg *config.Config, logger *zap.Logger) (services.Store, *gorm.DB, error) {
	if !cfg.UsesDirectDatabase() {
		logger.Info("Using Supabase REST API for storage")
		return services.NewSupabaseDBClient(cfg, logger), nil, nil
	}

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using direct Postgres connection for storage")
	return services.NewPostgresStore(db), db, nil
}

// runOnce performs a single update and returns the process exit code
func runOnce(updater *services.StockUpdater, logger *zap.Logger) int {
	run, err := updater.RunDailyUpdate(context.Background())
	if err != nil {
		logger.Error("Update failed", zap.Error(err))
		return 1
	}

	success, total := run.Counts()
	if success < total {
		logger.Warn("Update finished with failures", zap.Int("success", success), zap.Int("total", total))
	} else {
		logger.Info("Update finished", zap.Int("success", success), zap.Int("total", total))
	}
	return 0
}

// startServer serves the operational endpoints in the background
func startServer(cfg *config.Config, updater *services.StockUpdater, store services.Store, jobScheduler *scheduler.Scheduler, logger *zap.Logger) *http.Server {
	router := routes.NewRouter(cfg.Environment, logger)
	uc := controllers.NewUpdateController(updater, store, jobScheduler.NextRun, logger)
	routes.SetupRoutes(router, uc)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Minute, // manual runs are synchronous
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
		}
	}()
	return server
}

// gracefulShutdown waits for a signal, then stops the server and the scheduler
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-quit
	logger.Info("Received signal, shutting down gracefully...", zap.String("signal", sig.String()))

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("Server forced to shutdown", zap.Error(err))
		}
	}

	// Waits for an update in progress
	jobScheduler.Stop()

	logger.Info("Shutdown completed")
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
		logger.Info("Database connection closed")
	}
}
