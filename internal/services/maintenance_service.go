package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

// MaintenanceService owns the scheduled-maintenance rules and the maintenance
// record lifecycle.
type MaintenanceService struct {
	DB           *pgxpool.Pool
	Repo         *repositories.MaintenanceRepository
	VehicleRepo  *repositories.VehicleRepository
	ContractRepo *repositories.ContractRepository
	Cfg          *config.Config
}

func NewMaintenanceService(db *pgxpool.Pool, repo *repositories.MaintenanceRepository,
	vehicleRepo *repositories.VehicleRepository, contractRepo *repositories.ContractRepository,
	cfg *config.Config) *MaintenanceService {
	return &MaintenanceService{DB: db, Repo: repo, VehicleRepo: vehicleRepo, ContractRepo: contractRepo, Cfg: cfg}
}

// DueKilometers applies the motorized rule: the vehicle is due when it has
// run at least the configured kilometers since its last maintenance. A
// vehicle never maintained counts from odometer zero.
func (s *MaintenanceService) DueKilometers(v *models.Vehicle) bool {
	base := 0
	if v.LastMaintenanceKm != nil {
		base = *v.LastMaintenanceKm
	}
	return v.OdometerKm-base >= s.Cfg.Maintenance.KilometerThreshold
}

// DueRentalDays applies the non-motorized rule against a day count the caller
// computed (completed-contract days since last maintenance, or the lifetime
// counter when the vehicle was never maintained).
func (s *MaintenanceService) DueRentalDays(days int) bool {
	return days >= s.Cfg.Maintenance.RentalDaysThreshold
}

// Evaluate decides whether a vehicle is due for scheduled maintenance and
// returns the matching record kind.
func (s *MaintenanceService) Evaluate(ctx context.Context, v *models.Vehicle) (bool, models.MaintenanceKind, error) {
	if v.Motorized {
		return s.DueKilometers(v), models.MaintenanceKindScheduledKm, nil
	}

	days := v.RentalDays
	if v.LastMaintenanceDate != nil {
		var err error
		days, err = s.ContractRepo.SumCompletedDaysSince(ctx, v.ID, *v.LastMaintenanceDate)
		if err != nil {
			return false, "", fmt.Errorf("failed to sum rental days for vehicle %d: %w", v.ID, err)
		}
	}
	return s.DueRentalDays(days), models.MaintenanceKindScheduledDays, nil
}

func (s *MaintenanceService) Get(ctx context.Context, id int) (*models.MaintenanceRecord, error) {
	m, err := s.Repo.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: maintenance record %d", ErrNotFound, id)
	}
	return m, err
}

func (s *MaintenanceService) ListByVehicle(ctx context.Context, vehicleID int) ([]*models.MaintenanceRecord, error) {
	return s.Repo.ListByVehicle(ctx, vehicleID)
}

func (s *MaintenanceService) ListOpen(ctx context.Context) ([]*models.MaintenanceRecord, error) {
	return s.Repo.ListOpen(ctx)
}

func (s *MaintenanceService) SetStatus(ctx context.Context, id int, status models.MaintenanceStatus) error {
	if status != models.MaintenanceStatusPending && status != models.MaintenanceStatusInProgress {
		return fmt.Errorf("%w: status %q", ErrValidation, status)
	}
	return s.Repo.SetStatus(ctx, id, status)
}

// Resolve closes a maintenance record. When it was the vehicle's last open
// record the vehicle returns to available and its maintenance markers reset
// (odometer baseline and date), restarting both scheduling rules.
func (s *MaintenanceService) Resolve(ctx context.Context, id int, req *models.ResolveMaintenanceRequest) (*models.MaintenanceRecord, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m, err := s.Repo.GetTx(ctx, tx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: maintenance record %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if m.Status == models.MaintenanceStatusResolved {
		return nil, fmt.Errorf("%w: maintenance record %d already resolved", ErrValidation, id)
	}

	now := timeutil.Now()
	if err := s.Repo.ResolveTx(ctx, tx, id, now, req.Notes); err != nil {
		return nil, err
	}

	open, err := s.Repo.CountOpenForVehicleTx(ctx, tx, m.VehicleID)
	if err != nil {
		return nil, err
	}
	released := false
	if open == 0 {
		ok, err := s.VehicleRepo.TransitionTx(ctx, tx, m.VehicleID,
			models.VehicleStateMaintenance, models.VehicleStateAvailable)
		if err != nil {
			return nil, err
		}
		released = ok
		if err := s.VehicleRepo.ResetMaintenanceMarkersTx(ctx, tx, m.VehicleID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if released {
		cache.InvalidateFleetBoard(ctx)
	}
	log.Printf("[Maintenance] Resolved record %d for vehicle %d (released=%v)", id, m.VehicleID, released)
	return s.Repo.Get(ctx, id)
}

// Report opens an ad-hoc repair record outside check-out. Vehicle state is
// untouched: only check-out, cancellation and resolution move it.
func (s *MaintenanceService) Report(ctx context.Context, vehicleID, reporterID int, description string, priority models.MaintenancePriority, photoKeys []string) (*models.MaintenanceRecord, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	}
	if priority == "" {
		priority = models.MaintenancePriorityNormal
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := s.VehicleRepo.GetTx(ctx, tx, vehicleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
		}
		return nil, err
	}

	m := &models.MaintenanceRecord{
		VehicleID:        vehicleID,
		Kind:             models.MaintenanceKindRepair,
		Priority:         priority,
		Description:      description,
		ReportedByUserID: reporterID,
		PhotoKeys:        photoKeys,
	}
	if err := s.Repo.InsertTx(ctx, tx, m); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}
