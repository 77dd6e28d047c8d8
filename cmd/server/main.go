package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"

	api "rental-escrow-backend/internal/api/grpc"
	"rental-escrow-backend/internal/api/grpc/interceptor"
	httpapi "rental-escrow-backend/internal/api/http"
	"rental-escrow-backend/internal/blockheight"
	"rental-escrow-backend/internal/config"
	"rental-escrow-backend/internal/jobs"
	"rental-escrow-backend/internal/logger"
	"rental-escrow-backend/internal/repository"
	"rental-escrow-backend/internal/repository/memory"
	"rental-escrow-backend/internal/repository/postgres"
	"rental-escrow-backend/internal/scheduler"
	"rental-escrow-backend/internal/security"
	"rental-escrow-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	embeddedSweeper := flag.Bool("sweeper", false, "Run the expired-rental sweeper inside the server process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Escrow Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())
	logger.Info("Market configuration", "admin", cfg.Market.Admin, "custody", cfg.Market.CustodyAccount, "fee_rate", cfg.FeeRate())

	ctx := context.Background()

	// Initialize Store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Block height source
	blocks, err := blockheight.NewClock(cfg.Genesis(), cfg.BlockInterval())
	if err != nil {
		log.Fatalf("Failed to initialize block clock: %v", err)
	}

	// Initialize Services
	escrow := service.NewEscrowLedger(cfg.Market.CustodyAccount)
	auth := service.NewAuthorizer(cfg.Market.Admin)
	listingSvc := service.NewListingService(store, blocks, escrow, nil)
	rentalSvc := service.NewRentalService(store, blocks, escrow, auth)
	adminSvc := service.NewAdminService(store, blocks, escrow, auth)
	ledgerSvc := service.NewLedgerService(store)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)

	// Initialize gRPC handlers
	market := api.NewMarketServer(
		api.NewListingHandler(listingSvc),
		api.NewRentalHandler(rentalSvc),
		api.NewAdminHandler(adminSvc),
		api.NewLedgerHandler(ledgerSvc),
	)

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)
	api.RegisterRentalMarketServer(s, market)

	// HTTP side-server: read-only queries, health, metrics
	var httpServer *http.Server
	if addr := cfg.GetHTTPAddress(); addr != "" {
		router := mux.NewRouter()
		httpapi.RegisterQueryRoutes(router, httpapi.NewQueryHandler(listingSvc, rentalSvc, adminSvc, ledgerSvc))
		httpServer = &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("HTTP server listening", "address", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	var cronScheduler *scheduler.Scheduler
	if *embeddedSweeper {
		jobRunner := jobs.NewJobRunner(rentalSvc, "expiry-sweeper", cfg)
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		if cronScheduler != nil {
			cronScheduler.Stop()
		}
		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}
		s.GracefulStop()
	}()

	logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
	if err := s.Serve(lis); err != nil {
		logger.Error("Failed to serve gRPC", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// openStore builds the configured store. For postgres the schema is migrated and the
// platform row seeded on first start.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Info("Using in-memory store; state is lost on restart")
		return memory.NewStore(cfg.PlatformParams()), func() {}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("Database connection established")

	if err := postgres.Migrate(ctx, db, cfg.PlatformParams()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewStore(db), func() { db.Close() }, nil
}
