package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

type ContractRepository struct {
	DB *pgxpool.Pool
}

func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{DB: db}
}

const contractColumns = `ct.id, ct.contract_number, ct.customer_id, ct.vehicle_id, ct.agency_id,
	ct.operator_id, ct.start_at, ct.planned_end_at, ct.ended_at, ct.daily_rate,
	ct.insurance_tier_id, ct.deposit_amount, ct.total_amount, ct.rental_paid,
	ct.deposit_paid, ct.payment_channel, ct.state, ct.deduction_total,
	ct.refund_amount, ct.refund_channel, ct.distance_km, ct.inspection, ct.notes,
	ct.signature_key, cu.first_name || ' ' || cu.last_name, v.serial,
	ct.created_at, ct.updated_at`

const contractJoins = ` FROM contracts ct
	JOIN customers cu ON cu.id = ct.customer_id
	JOIN vehicles v ON v.id = ct.vehicle_id`

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	err := row.Scan(&c.ID, &c.ContractNumber, &c.CustomerID, &c.VehicleID, &c.AgencyID,
		&c.OperatorID, &c.StartAt, &c.PlannedEndAt, &c.EndedAt, &c.DailyRate,
		&c.InsuranceTierID, &c.DepositAmount, &c.TotalAmount, &c.RentalPaid,
		&c.DepositPaid, &c.PaymentChannel, &c.State, &c.DeductionTotal,
		&c.RefundAmount, &c.RefundChannel, &c.DistanceKm, &c.Inspection, &c.Notes,
		&c.SignatureKey, &c.CustomerName, &c.VehicleSerial,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FormatContractNumber renders <agency code>-YYYYMMDD-NNN. The day component
// is the agency-local calendar day of the rental start.
func FormatContractNumber(agencyCode string, at time.Time, counter int) string {
	return fmt.Sprintf("%s-%s-%03d", agencyCode, timeutil.ToLocal(at).Format(timeutil.CompactDate), counter)
}

// NextContractNumberTx allocates the next human-readable contract number for
// an agency. The per-agency per-day counter row is incremented under the
// caller's transaction, so two concurrent check-ins at the same desk cannot
// draw the same number.
func (r *ContractRepository) NextContractNumberTx(ctx context.Context, tx pgx.Tx, agencyID int, agencyCode string, at time.Time) (string, error) {
	local := timeutil.ToLocal(at)
	var counter int
	err := tx.QueryRow(ctx,
		`INSERT INTO contract_number_counters (agency_id, day, counter)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (agency_id, day) DO UPDATE SET counter = contract_number_counters.counter + 1
		 RETURNING counter`,
		agencyID, local.Format(timeutil.DateLayout),
	).Scan(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to allocate contract number: %w", err)
	}
	return FormatContractNumber(agencyCode, at, counter), nil
}

func (r *ContractRepository) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Contract) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO contracts (contract_number, customer_id, vehicle_id, agency_id,
			operator_id, start_at, planned_end_at, daily_rate, insurance_tier_id,
			deposit_amount, total_amount, rental_paid, deposit_paid,
			payment_channel, notes, signature_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at, updated_at`,
		c.ContractNumber, c.CustomerID, c.VehicleID, c.AgencyID,
		c.OperatorID, c.StartAt, c.PlannedEndAt, c.DailyRate, c.InsuranceTierID,
		c.DepositAmount, c.TotalAmount, c.RentalPaid, c.DepositPaid,
		c.PaymentChannel, c.Notes, c.SignatureKey,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	c.State = models.ContractStateActive
	return nil
}

func (r *ContractRepository) Get(ctx context.Context, id int) (*models.Contract, error) {
	return scanContract(r.DB.QueryRow(ctx,
		`SELECT `+contractColumns+contractJoins+` WHERE ct.id = $1`, id))
}

func (r *ContractRepository) GetByNumber(ctx context.Context, number string) (*models.Contract, error) {
	return scanContract(r.DB.QueryRow(ctx,
		`SELECT `+contractColumns+contractJoins+` WHERE ct.contract_number = $1`, number))
}

// GetTx locks the contract row for the duration of a settlement or
// cancellation transaction.
func (r *ContractRepository) GetTx(ctx context.Context, tx pgx.Tx, id int) (*models.Contract, error) {
	return scanContract(tx.QueryRow(ctx,
		`SELECT `+contractColumns+contractJoins+` WHERE ct.id = $1 FOR UPDATE OF ct`, id))
}

func (r *ContractRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]*models.Contract, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+contractColumns+contractJoins+` `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *ContractRepository) ListActive(ctx context.Context, agencyID int) ([]*models.Contract, error) {
	if agencyID > 0 {
		return r.listWhere(ctx,
			`WHERE ct.state = 'active' AND ct.agency_id = $1 ORDER BY ct.start_at`, agencyID)
	}
	return r.listWhere(ctx, `WHERE ct.state = 'active' ORDER BY ct.start_at`)
}

func (r *ContractRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Contract, error) {
	return r.listWhere(ctx,
		`WHERE ct.customer_id = $1 ORDER BY ct.start_at DESC`, customerID)
}

// ListOverdue returns active contracts whose planned end is in the past.
func (r *ContractRepository) ListOverdue(ctx context.Context, agencyID int, now time.Time) ([]*models.Contract, error) {
	if agencyID > 0 {
		return r.listWhere(ctx,
			`WHERE ct.state = 'active' AND ct.planned_end_at < $2 AND ct.agency_id = $1
			 ORDER BY ct.planned_end_at`, agencyID, now)
	}
	return r.listWhere(ctx,
		`WHERE ct.state = 'active' AND ct.planned_end_at < $1 ORDER BY ct.planned_end_at`, now)
}

// SumCompletedDaysSince totals billable days of completed contracts started
// on or after the given time. Feeds the rental-days maintenance rule for
// non-motorized vehicles. The day arithmetic matches billing.BillableDays:
// whole 24h blocks, one more only when over an hour of the next day is used,
// minimum one day.
func (r *ContractRepository) SumCompletedDaysSince(ctx context.Context, vehicleID int, since time.Time) (int, error) {
	var days int
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(
		     GREATEST(1, hours / 24 + CASE WHEN hours % 24 > 1 THEN 1 ELSE 0 END)
		 ), 0)::int
		 FROM (
		     SELECT FLOOR(EXTRACT(EPOCH FROM (ended_at - start_at)) / 3600)::bigint AS hours
		     FROM contracts
		     WHERE vehicle_id = $1 AND state = 'completed' AND start_at >= $2
		 ) c`,
		vehicleID, since).Scan(&days)
	return days, err
}

// CompleteTx writes the settlement outcome and closes the contract.
func (r *ContractRepository) CompleteTx(ctx context.Context, tx pgx.Tx, c *models.Contract) error {
	_, err := tx.Exec(ctx,
		`UPDATE contracts
		 SET state = 'completed', ended_at = $2, total_amount = $3, rental_paid = $4,
		     deduction_total = $5, refund_amount = $6, refund_channel = $7,
		     distance_km = $8, inspection = $9, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.EndedAt, c.TotalAmount, c.RentalPaid,
		c.DeductionTotal, c.RefundAmount, c.RefundChannel,
		c.DistanceKm, c.Inspection)
	if err != nil {
		return fmt.Errorf("failed to complete contract %d: %w", c.ID, err)
	}
	return nil
}

// DeleteTx removes a cancelled contract. The ledger foreign key makes this
// fail unless the caller removed the contract's entries first, in the same
// transaction.
func (r *ContractRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract %d: %w", id, err)
	}
	return nil
}
