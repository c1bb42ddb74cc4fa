package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type VehicleRepository struct {
	DB *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

const vehicleColumns = `v.id, v.serial, v.category_id, c.code, c.motorized, c.deposit_base,
	v.agency_id, v.odometer_km, v.rental_days, v.last_maintenance_km,
	v.last_maintenance_date, v.state, v.notes, v.created_at, v.updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.Serial, &v.CategoryID, &v.CategoryCode, &v.Motorized,
		&v.DepositBase, &v.AgencyID, &v.OdometerKm, &v.RentalDays,
		&v.LastMaintenanceKm, &v.LastMaintenanceDate, &v.State, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	return scanVehicle(r.DB.QueryRow(ctx,
		`SELECT `+vehicleColumns+`
		 FROM vehicles v JOIN vehicle_categories c ON c.id = v.category_id
		 WHERE v.id = $1`, id))
}

// GetTx loads a vehicle with a row lock, so usage counters and state are
// read-modified-written under the same transaction as the contract change.
func (r *VehicleRepository) GetTx(ctx context.Context, tx pgx.Tx, id int) (*models.Vehicle, error) {
	return scanVehicle(tx.QueryRow(ctx,
		`SELECT `+vehicleColumns+`
		 FROM vehicles v JOIN vehicle_categories c ON c.id = v.category_id
		 WHERE v.id = $1
		 FOR UPDATE OF v`, id))
}

func (r *VehicleRepository) List(ctx context.Context, agencyID int, state models.VehicleState) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + `
		 FROM vehicles v JOIN vehicle_categories c ON c.id = v.category_id WHERE 1=1`
	var args []interface{}
	if agencyID > 0 {
		args = append(args, agencyID)
		query += fmt.Sprintf(" AND v.agency_id = $%d", len(args))
	}
	if state != "" {
		args = append(args, state)
		query += fmt.Sprintf(" AND v.state = $%d", len(args))
	}
	query += " ORDER BY v.serial"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) Create(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error) {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO vehicles (serial, category_id, agency_id, odometer_km, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		req.Serial, req.CategoryID, req.AgencyID, req.OdometerKm, req.Notes,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *VehicleRepository) Update(ctx context.Context, id int, req *models.UpdateVehicleRequest) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE vehicles SET serial = $2, category_id = $3, agency_id = $4, notes = $5, updated_at = NOW()
		 WHERE id = $1`,
		id, req.Serial, req.CategoryID, req.AgencyID, req.Notes)
	return err
}

// TransitionTx moves a vehicle from an exact current state to a new one as a
// compare-and-set. Zero rows affected means the vehicle was not in the
// expected state — the caller treats that as a conflict. Running inside the
// contract transaction is what serializes concurrent check-ins on the same
// vehicle.
func (r *VehicleRepository) TransitionTx(ctx context.Context, tx pgx.Tx, id int, from, to models.VehicleState) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE vehicles SET state = $3, updated_at = NOW()
		 WHERE id = $1 AND state = $2`,
		id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition vehicle %d: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordUsageTx accumulates the usage of a completed rental on the vehicle:
// odometer delta for motorized vehicles, billable days for every vehicle.
func (r *VehicleRepository) RecordUsageTx(ctx context.Context, tx pgx.Tx, id, odometerKm, days int) error {
	_, err := tx.Exec(ctx,
		`UPDATE vehicles
		 SET odometer_km = $2, rental_days = rental_days + $3, updated_at = NOW()
		 WHERE id = $1`,
		id, odometerKm, days)
	return err
}

// ResetMaintenanceMarkersTx stamps the maintenance baseline after a
// maintenance resolution: current odometer and resolution date.
func (r *VehicleRepository) ResetMaintenanceMarkersTx(ctx context.Context, tx pgx.Tx, id int, at time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE vehicles
		 SET last_maintenance_km = odometer_km, last_maintenance_date = $2, updated_at = NOW()
		 WHERE id = $1`,
		id, at)
	return err
}
