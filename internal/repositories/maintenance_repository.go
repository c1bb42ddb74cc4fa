package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type MaintenanceRepository struct {
	DB *pgxpool.Pool
}

func NewMaintenanceRepository(db *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{DB: db}
}

const maintenanceColumns = `id, vehicle_id, contract_id, kind, priority, description,
	reported_by_user_id, status, photo_keys, created_at, resolved_at`

func scanMaintenance(row pgx.Row) (*models.MaintenanceRecord, error) {
	var m models.MaintenanceRecord
	err := row.Scan(&m.ID, &m.VehicleID, &m.ContractID, &m.Kind, &m.Priority,
		&m.Description, &m.ReportedByUserID, &m.Status, &m.PhotoKeys,
		&m.CreatedAt, &m.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenanceRepository) InsertTx(ctx context.Context, tx pgx.Tx, m *models.MaintenanceRecord) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO maintenance_records (vehicle_id, contract_id, kind, priority, description, reported_by_user_id, photo_keys)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, status, created_at`,
		m.VehicleID, m.ContractID, m.Kind, m.Priority, m.Description, m.ReportedByUserID, m.PhotoKeys,
	).Scan(&m.ID, &m.Status, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance record: %w", err)
	}
	return nil
}

func (r *MaintenanceRepository) Get(ctx context.Context, id int) (*models.MaintenanceRecord, error) {
	return scanMaintenance(r.DB.QueryRow(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = $1`, id))
}

func (r *MaintenanceRepository) GetTx(ctx context.Context, tx pgx.Tx, id int) (*models.MaintenanceRecord, error) {
	return scanMaintenance(tx.QueryRow(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = $1 FOR UPDATE`, id))
}

func (r *MaintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int) ([]*models.MaintenanceRecord, error) {
	return r.list(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records
		 WHERE vehicle_id = $1 ORDER BY created_at DESC`, vehicleID)
}

// ListOpen returns pending and in-progress records, high priority first.
func (r *MaintenanceRepository) ListOpen(ctx context.Context) ([]*models.MaintenanceRecord, error) {
	return r.list(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records
		 WHERE status <> 'resolved'
		 ORDER BY priority = 'high' DESC, created_at`)
}

func (r *MaintenanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.MaintenanceRecord, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.MaintenanceRecord
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

func (r *MaintenanceRepository) SetStatus(ctx context.Context, id int, status models.MaintenanceStatus) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE maintenance_records SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *MaintenanceRepository) ResolveTx(ctx context.Context, tx pgx.Tx, id int, at time.Time, notes string) error {
	_, err := tx.Exec(ctx,
		`UPDATE maintenance_records
		 SET status = 'resolved', resolved_at = $2,
		     description = CASE WHEN $3 = '' THEN description ELSE description || E'\n' || $3 END
		 WHERE id = $1`,
		id, at, notes)
	if err != nil {
		return fmt.Errorf("failed to resolve maintenance record %d: %w", id, err)
	}
	return nil
}

// CountOpenForVehicleTx is checked after a resolution: when it hits zero the
// vehicle goes back to available.
func (r *MaintenanceRepository) CountOpenForVehicleTx(ctx context.Context, tx pgx.Tx, vehicleID int) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM maintenance_records
		 WHERE vehicle_id = $1 AND status <> 'resolved'`, vehicleID).Scan(&n)
	return n, err
}
