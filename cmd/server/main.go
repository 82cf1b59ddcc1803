package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "drc-backend/internal/api/http"
	"drc-backend/internal/config"
	"drc-backend/internal/jobs"
	"drc-backend/internal/logger"
	"drc-backend/internal/repository/postgres"
	"drc-backend/internal/rfid"
	"drc-backend/internal/scheduler"
	"drc-backend/internal/service"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DRC backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email)
	noteSvc := service.NewNotificationService(store.NotificationRepository, emailSvc)
	impactSvc := service.NewImpactService(store.TransactionRepository, store.ImpactStatsRepository)
	txnSvc := service.NewTransactionService(
		store.ContainerRepository,
		store.TransactionRepository,
		store.UserRepository,
		store.LocationRepository,
		impactSvc,
		noteSvc,
		cfg.Policy,
	)
	scanSvc := service.NewScanService(10, 20)
	inventorySvc := service.NewInventoryService(store.ContainerRepository, store.LocationRepository)
	facilitiesSvc := service.NewFacilitiesService(store.ContainerRepository, store.UserRepository)
	registrationSvc := service.NewRegistrationService(store.ContainerRepository, store.LocationRepository)

	// Simulated reader session for demo scan stations
	rfidSim := rfid.NewSimulator(rfid.Config{
		ReadLatency: time.Duration(cfg.RFID.ReadLatencyMs) * time.Millisecond,
		FailureRate: cfg.RFID.FailureRate,
		BatchPacing: time.Duration(cfg.RFID.BatchPacingMs) * time.Millisecond,
	})
	rfidSim.Activate()

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(&httpapi.Handlers{
		Scan:        httpapi.NewScanHandler(scanSvc),
		Transaction: httpapi.NewTransactionHandler(txnSvc, scanSvc),
		Container:   httpapi.NewContainerHandler(inventorySvc, facilitiesSvc, registrationSvc),
		User:        httpapi.NewUserHandler(txnSvc, impactSvc, inventorySvc, noteSvc),
		RFID:        httpapi.NewRFIDHandler(rfidSim),
	})

	// Initialize scheduler
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Transaction:  txnSvc,
		Impact:       impactSvc,
		Notification: noteSvc,
	}, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
	logger.Info("Server stopped")
}
