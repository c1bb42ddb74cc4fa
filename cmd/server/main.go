package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"rental-backend/internal/artifacts"
	"rental-backend/internal/auth"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	rhttp "rental-backend/internal/http"
	"rental-backend/internal/mailer"
	"rental-backend/internal/middleware"
	"rental-backend/internal/monitoring"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/migrations"
)

func main() {
	var skipMigrations = flag.Bool("skip-migrations", false, "Skip database migrations on startup")
	flag.Parse()

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := pool.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("Database unreachable: %v", err)
	}
	cancel()
	log.Printf("[DB] Connected to %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	if !*skipMigrations {
		migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := migrator.RunMigrations(ctx); err != nil {
			cancel()
			log.Fatalf("Migrations failed: %v", err)
		}
		cancel()
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	} else {
		log.Printf("[Cache] Redis connected")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	agencyRepo := repositories.NewAgencyRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	vehicleRepo := repositories.NewVehicleRepository(pool)
	tariffRepo := repositories.NewTariffRepository(pool)
	contractRepo := repositories.NewContractRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)
	maintenanceRepo := repositories.NewMaintenanceRepository(pool)

	// Infrastructure
	jwtManager := auth.NewJWTManager(cfg)
	mail := mailer.New(cfg)
	defer mail.Stop()
	store := artifacts.New(cfg)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	pricingService := services.NewPricingService(tariffRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, tariffRepo)
	maintenanceService := services.NewMaintenanceService(pool, maintenanceRepo, vehicleRepo, contractRepo, cfg)
	contractService := services.NewContractService(pool, contractRepo, customerRepo, vehicleRepo,
		agencyRepo, ledgerRepo, maintenanceRepo, pricingService, maintenanceService, mail, cfg)
	ledgerService := services.NewLedgerService(ledgerRepo)
	documentService := services.NewDocumentService(contractRepo, customerRepo, vehicleRepo, agencyRepo, ledgerRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	agencyHandler := handlers.NewAgencyHandler(agencyRepo)
	customerHandler := handlers.NewCustomerHandler(customerRepo, contractRepo)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService, pricingService, maintenanceService)
	contractHandler := handlers.NewContractHandler(contractService, pricingService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)
	documentHandler := handlers.NewDocumentHandler(documentService, store)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	// Ops dashboard on the side port
	monitoringServer := monitoring.NewMonitoringServer(pool, vehicleService, cfg.Server.MonitoringPort)
	go monitoringServer.Start()

	router := rhttp.NewRouter(cfg, authHandler, userHandler, agencyHandler, customerHandler,
		vehicleHandler, contractHandler, ledgerHandler, maintenanceHandler, documentHandler,
		healthHandler, authMiddleware)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] Listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}
