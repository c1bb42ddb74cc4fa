package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-backend/internal/config"
	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"
)

func NewRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	agencyHandler *handlers.AgencyHandler,
	customerHandler *handlers.CustomerHandler,
	vehicleHandler *handlers.VehicleHandler,
	contractHandler *handlers.ContractHandler,
	ledgerHandler *handlers.LedgerHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	documentHandler *handlers.DocumentHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.NewCORS(cfg))
	r.Use(middleware.MetricsMiddleware)

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/healthz", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/readyz", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Rental desk operations - any authenticated operator
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/quotes", contractHandler.Quote).Methods("POST")
	api.HandleFunc("/contracts/checkin", contractHandler.CheckIn).Methods("POST")
	api.HandleFunc("/contracts/active", contractHandler.ListActive).Methods("GET")
	api.HandleFunc("/contracts/overdue", contractHandler.ListOverdue).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}", contractHandler.Get).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}/checkout", contractHandler.CheckOut).Methods("POST")
	api.HandleFunc("/contracts/{id:[0-9]+}/cancel", contractHandler.Cancel).Methods("POST")
	api.HandleFunc("/contracts/{id:[0-9]+}/settlement", contractHandler.Settlement).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}/ledger", ledgerHandler.ListByContract).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}/balance", ledgerHandler.ContractBalance).Methods("GET")
	api.HandleFunc("/contracts/{id:[0-9]+}/pdf", documentHandler.ContractPDF).Methods("GET")

	api.HandleFunc("/ledger/day-totals", ledgerHandler.DayTotals).Methods("GET")

	api.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Get).Methods("GET")
	api.HandleFunc("/vehicles/{id:[0-9]+}/maintenance", vehicleHandler.MaintenanceHistory).Methods("GET")
	api.HandleFunc("/categories", vehicleHandler.Categories).Methods("GET")
	api.HandleFunc("/accessories", vehicleHandler.Accessories).Methods("GET")
	api.HandleFunc("/insurance-tiers", vehicleHandler.InsuranceTiers).Methods("GET")

	api.HandleFunc("/customers", customerHandler.List).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", customerHandler.Get).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}/contracts", customerHandler.Contracts).Methods("GET")

	api.HandleFunc("/maintenance", maintenanceHandler.ListOpen).Methods("GET")
	api.HandleFunc("/maintenance", maintenanceHandler.Report).Methods("POST")
	api.HandleFunc("/maintenance/{id:[0-9]+}", maintenanceHandler.Get).Methods("GET")
	api.HandleFunc("/maintenance/{id:[0-9]+}/status", maintenanceHandler.SetStatus).Methods("PUT")
	api.HandleFunc("/maintenance/{id:[0-9]+}/resolve", maintenanceHandler.Resolve).Methods("POST")

	api.HandleFunc("/artifacts/{prefix}", documentHandler.Upload).Methods("POST")
	api.HandleFunc("/artifacts", documentHandler.Download).Methods("GET")

	api.HandleFunc("/agencies", agencyHandler.List).Methods("GET")
	api.HandleFunc("/agencies/{id:[0-9]+}", agencyHandler.Get).Methods("GET")

	// Administration - admin role required
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMiddleware.RequireAdmin)

	admin.HandleFunc("/users", userHandler.Create).Methods("POST")
	admin.HandleFunc("/users", userHandler.List).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}/active", userHandler.SetActive).Methods("PUT")

	admin.HandleFunc("/agencies", agencyHandler.Create).Methods("POST")
	admin.HandleFunc("/agencies/{id:[0-9]+}", agencyHandler.Update).Methods("PUT")

	admin.HandleFunc("/vehicles", vehicleHandler.Create).Methods("POST")
	admin.HandleFunc("/vehicles/{id:[0-9]+}", vehicleHandler.Update).Methods("PUT")

	admin.HandleFunc("/tariffs", contractHandler.UpsertTariffPrice).Methods("PUT")

	return r
}
