package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

// LedgerRepository writes and reads the append-only money movement log.
// There is no update path on purpose.
type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) InsertTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO ledger_entries (contract_id, agency_id, operator_id, amount, category, channel, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.ContractID, e.AgencyID, e.OperatorID, e.Amount, e.Category, e.Channel, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListByContract(ctx context.Context, contractID int) ([]*models.LedgerEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, contract_id, agency_id, operator_id, amount, category, channel, description, created_at
		 FROM ledger_entries WHERE contract_id = $1 ORDER BY id`,
		contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ContractID, &e.AgencyID, &e.OperatorID,
			&e.Amount, &e.Category, &e.Channel, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// DeleteByContractTx clears a contract's entries during cancellation. The
// only path that ever removes ledger rows.
func (r *LedgerRepository) DeleteByContractTx(ctx context.Context, tx pgx.Tx, contractID int) error {
	_, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE contract_id = $1`, contractID)
	return err
}

// GetContractBalance derives the settlement position of one contract by
// summing its entries per category. Balances are never stored.
func (r *LedgerRepository) GetContractBalance(ctx context.Context, contractID int) (*models.ContractBalance, error) {
	b := &models.ContractBalance{ContractID: contractID}
	rows, err := r.DB.Query(ctx,
		`SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM ledger_entries WHERE contract_id = $1 GROUP BY category`,
		contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category models.LedgerCategory
		var sum float64
		var count int
		if err := rows.Scan(&category, &sum, &count); err != nil {
			return nil, err
		}
		b.EntryCount += count
		switch category {
		case models.LedgerCategoryRental:
			b.RentalPaid = sum
		case models.LedgerCategoryDeposit:
			b.DepositPaid = sum
		case models.LedgerCategoryDepositReturn:
			b.DepositReturned = -sum
		case models.LedgerCategoryDeduction:
			b.Deductions = -sum
		}
	}
	return b, rows.Err()
}

// GetAgencyDayTotals aggregates ledger movement per channel for one agency
// between from and to. Used for the end-of-day cash reconciliation view.
func (r *LedgerRepository) GetAgencyDayTotals(ctx context.Context, agencyID int, from, to time.Time) ([]*models.AgencyCashTotal, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT channel, COALESCE(SUM(amount), 0)
		 FROM ledger_entries
		 WHERE agency_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY channel ORDER BY channel`,
		agencyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*models.AgencyCashTotal
	for rows.Next() {
		t := &models.AgencyCashTotal{AgencyID: agencyID}
		if err := rows.Scan(&t.Channel, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
