package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "rental-escrow-backend/internal/api/grpc"
	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/jobs"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/repository/postgres"
	"rental-escrow-backend/internal/scheduler"
	"rental-escrow-backend/internal/security"
	"rental-escrow-backend/internal/service"
)

const sweeperPrincipal = "expiry-sweeper"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'auto-return-expired', 'all')")
	serverAddr := flag.String("server", "", "Sweep through a running market server at this address instead of the database")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Market Cronjob Runner...", "log_level", cfg.Log.Level)

	var expiry jobs.ExpiryService
	switch {
	case *serverAddr != "":
		tokenManager := security.NewTokenManager(cfg.JWT.Secret, 0)
		token, err := tokenManager.GenerateServiceToken(sweeperPrincipal)
		if err != nil {
			log.Fatalf("Failed to issue service token: %v", err)
		}
		conn, err := grpc.NewClient(*serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatalf("Failed to dial market server: %v", err)
		}
		defer conn.Close()
		logger.Info("Sweeping through market server", "address", *serverAddr)
		expiry = api.NewRemoteExpiryService(api.NewRentalMarketClient(conn), token)

	case cfg.Database.Driver == config.DriverPostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		blocks, err := blockheight.NewClock(cfg.Genesis(), cfg.BlockInterval())
		if err != nil {
			log.Fatalf("Failed to initialize block clock: %v", err)
		}
		store := postgres.NewStore(db)
		expiry = service.NewRentalService(
			store,
			blocks,
			service.NewEscrowLedger(cfg.Market.CustodyAccount),
			service.NewAuthorizer(cfg.Market.Admin),
		)

	default:
		log.Fatalf("The in-memory store lives in the server process; pass -server to sweep through it")
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(expiry, sweeperPrincipal, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "started_at", time.Now().UTC())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "auto-return-expired":
		jobRunner.AutoReturnExpiredRentals()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - auto-return-expired\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
