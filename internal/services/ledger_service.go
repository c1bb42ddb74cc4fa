package services

import (
	"context"
	"fmt"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

// LedgerService exposes read access to the payment ledger. Writes happen only
// inside contract transactions.
type LedgerService struct {
	Repo *repositories.LedgerRepository
}

func NewLedgerService(repo *repositories.LedgerRepository) *LedgerService {
	return &LedgerService{Repo: repo}
}

func (s *LedgerService) ListByContract(ctx context.Context, contractID int) ([]*models.LedgerEntry, error) {
	return s.Repo.ListByContract(ctx, contractID)
}

func (s *LedgerService) ContractBalance(ctx context.Context, contractID int) (*models.ContractBalance, error) {
	return s.Repo.GetContractBalance(ctx, contractID)
}

// AgencyDayTotals returns per-channel ledger totals for one agency local day
// (date in YYYY-MM-DD). Used for the end-of-day cash count.
func (s *LedgerService) AgencyDayTotals(ctx context.Context, agencyID int, date string) ([]*models.AgencyCashTotal, error) {
	day, err := timeutil.ParseLocalDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrValidation, date)
	}
	from := timeutil.StartOfDay(day)
	return s.Repo.GetAgencyDayTotals(ctx, agencyID, from, from.AddDate(0, 0, 1))
}
