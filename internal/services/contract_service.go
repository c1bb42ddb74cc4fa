package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/mailer"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

// ContractService orchestrates the rental lifecycle: check-in, check-out and
// cancellation, each as explicit transactions over the repositories.
type ContractService struct {
	DB              *pgxpool.Pool
	Repo            *repositories.ContractRepository
	CustomerRepo    *repositories.CustomerRepository
	VehicleRepo     *repositories.VehicleRepository
	AgencyRepo      *repositories.AgencyRepository
	LedgerRepo      *repositories.LedgerRepository
	MaintenanceRepo *repositories.MaintenanceRepository
	Pricing         *PricingService
	Maintenance     *MaintenanceService
	Mailer          *mailer.Mailer
	Cfg             *config.Config
}

func NewContractService(db *pgxpool.Pool, repo *repositories.ContractRepository,
	customerRepo *repositories.CustomerRepository, vehicleRepo *repositories.VehicleRepository,
	agencyRepo *repositories.AgencyRepository, ledgerRepo *repositories.LedgerRepository,
	maintenanceRepo *repositories.MaintenanceRepository, pricing *PricingService,
	maintenance *MaintenanceService, m *mailer.Mailer, cfg *config.Config) *ContractService {
	return &ContractService{
		DB: db, Repo: repo, CustomerRepo: customerRepo, VehicleRepo: vehicleRepo,
		AgencyRepo: agencyRepo, LedgerRepo: ledgerRepo, MaintenanceRepo: maintenanceRepo,
		Pricing: pricing, Maintenance: maintenance, Mailer: m, Cfg: cfg,
	}
}

// CheckIn opens one contract per requested vehicle line. The customer upsert
// commits first; each vehicle line then runs in its own transaction, so a
// conflict on one vehicle rejects that line without touching the others.
func (s *ContractService) CheckIn(ctx context.Context, req *models.CheckInRequest, operatorID, agencyID int) (*models.CheckInResult, error) {
	if req.Customer.Email == "" {
		return nil, fmt.Errorf("%w: customer email required", ErrValidation)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one vehicle line required", ErrValidation)
	}
	if !models.ValidChannel(req.PaymentChannel) {
		return nil, fmt.Errorf("%w: payment channel %q", ErrValidation, req.PaymentChannel)
	}
	if req.StartAt.IsZero() || req.PlannedEndAt.IsZero() {
		return nil, fmt.Errorf("%w: start and planned end timestamps required", ErrValidation)
	}

	agency, err := s.AgencyRepo.Get(ctx, agencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: agency %d", ErrNotFound, agencyID)
		}
		return nil, err
	}

	customer, err := s.upsertCustomer(ctx, &req.Customer)
	if err != nil {
		return nil, err
	}

	days := billing.BillableDays(req.StartAt, req.PlannedEndAt)
	result := &models.CheckInResult{CustomerID: customer.ID}

	for _, line := range req.Lines {
		created, err := s.checkInLine(ctx, req, &line, customer, agency, operatorID, days)
		if err != nil {
			result.Rejected = append(result.Rejected, models.RejectedLine{
				VehicleID: line.VehicleID,
				Reason:    rejectionReason(err),
			})
			log.Printf("[Contract] Check-in line rejected for vehicle %d: %v", line.VehicleID, err)
			continue
		}
		result.Created = append(result.Created, *created)
		metrics.CheckInsTotal.Inc()
	}

	if len(result.Created) > 0 {
		cache.InvalidateFleetBoard(ctx)
		if len(result.Created) == 1 {
			if c, err := s.Repo.Get(ctx, result.Created[0].ContractID); err == nil {
				s.Mailer.SendContractConfirmation(c, customer.Email, customer.FirstName+" "+customer.LastName)
			}
		}
	}
	return result, nil
}

func (s *ContractService) upsertCustomer(ctx context.Context, p *models.CustomerPayload) (*models.Customer, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	customer, err := s.CustomerRepo.UpsertByEmailTx(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *ContractService) checkInLine(ctx context.Context, req *models.CheckInRequest,
	line *models.CheckInLine, customer *models.Customer, agency *models.Agency,
	operatorID, days int) (*models.CreatedContract, error) {

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	v, err := s.VehicleRepo.GetTx(ctx, tx, line.VehicleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, line.VehicleID)
	}
	if err != nil {
		return nil, err
	}

	// The compare-and-set is the double-booking gate: only a vehicle that is
	// exactly available right now can be claimed.
	ok, err := s.VehicleRepo.TransitionTx(ctx, tx, v.ID,
		models.VehicleStateAvailable, models.VehicleStateRented)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %d is %s", ErrVehicleUnavailable, v.ID, v.State)
	}

	rates, err := s.Pricing.Rates(ctx, v.CategoryID, v.DepositBase, line.AccessoryIDs, line.InsuranceTierID)
	if err != nil {
		return nil, err
	}
	quote, err := billing.Compute(rates, days)
	if err != nil {
		return nil, err
	}

	number, err := s.Repo.NextContractNumberTx(ctx, tx, agency.ID, agency.Code, req.StartAt)
	if err != nil {
		return nil, err
	}

	c := &models.Contract{
		ContractNumber:  number,
		CustomerID:      customer.ID,
		VehicleID:       v.ID,
		AgencyID:        agency.ID,
		OperatorID:      operatorID,
		StartAt:         req.StartAt,
		PlannedEndAt:    req.PlannedEndAt,
		DailyRate:       billing.RoundMoney(quote.TotalAmount / float64(days)),
		InsuranceTierID: line.InsuranceTierID,
		DepositAmount:   quote.DepositAmount,
		TotalAmount:     quote.TotalAmount,
		PaymentChannel:  req.PaymentChannel,
		Notes:           req.Notes,
		SignatureKey:    req.SignatureKey,
	}
	if req.RentalPrepaid {
		c.RentalPaid = quote.TotalAmount
	}
	if req.DepositPrepaid {
		c.DepositPaid = quote.DepositAmount
	}
	if err := s.Repo.CreateTx(ctx, tx, c); err != nil {
		return nil, err
	}

	if req.DepositPrepaid && quote.DepositAmount > 0 {
		if err := s.LedgerRepo.InsertTx(ctx, tx, &models.LedgerEntry{
			ContractID: c.ID, AgencyID: agency.ID, OperatorID: operatorID,
			Amount: quote.DepositAmount, Category: models.LedgerCategoryDeposit,
			Channel: req.PaymentChannel, Description: "Deposit collected at check-in",
		}); err != nil {
			return nil, err
		}
	}
	if req.RentalPrepaid && quote.TotalAmount > 0 {
		if err := s.LedgerRepo.InsertTx(ctx, tx, &models.LedgerEntry{
			ContractID: c.ID, AgencyID: agency.ID, OperatorID: operatorID,
			Amount: quote.TotalAmount, Category: models.LedgerCategoryRental,
			Channel: req.PaymentChannel, Description: "Rental paid at check-in",
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.CreatedContract{
		ContractID:     c.ID,
		ContractNumber: c.ContractNumber,
		VehicleID:      v.ID,
		Days:           days,
		TotalAmount:    c.TotalAmount,
		DepositAmount:  c.DepositAmount,
	}, nil
}

// CheckOut settles an active contract. Contract update, vehicle usage and
// state, maintenance records and ledger entries commit as one unit.
func (s *ContractService) CheckOut(ctx context.Context, req *models.CheckOutRequest, operatorID int) (*models.CheckOutResult, error) {
	// Deductions book under the refund channel too, so any money movement
	// at check-out needs a valid one.
	if (req.RefundAmount > 0 || req.DeductionTotal > 0) && !models.ValidChannel(req.RefundChannel) {
		return nil, fmt.Errorf("%w: refund channel %q", ErrValidation, req.RefundChannel)
	}
	var sum float64
	for _, d := range req.Deductions {
		if d.Amount < 0 {
			return nil, fmt.Errorf("%w: negative deduction amount", ErrValidation)
		}
		sum += d.Amount
	}
	if math.Abs(sum-req.DeductionTotal) > 0.009 {
		return nil, fmt.Errorf("%w: deduction total %.2f does not match line sum %.2f",
			ErrValidation, req.DeductionTotal, sum)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c, err := s.Repo.GetTx(ctx, tx, req.ContractID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: contract %d", ErrContractNotFound, req.ContractID)
	}
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(c); err != nil {
		return nil, err
	}

	v, err := s.VehicleRepo.GetTx(ctx, tx, c.VehicleID)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	days := billing.BillableDays(c.StartAt, now)
	total := billing.RoundMoney(billing.Price(days, c.DailyRate))

	distance := 0
	endOdometer := v.OdometerKm
	if v.Motorized && req.OdometerEnd != nil {
		if *req.OdometerEnd < v.OdometerKm {
			return nil, fmt.Errorf("%w: odometer end %d below current reading %d",
				ErrValidation, *req.OdometerEnd, v.OdometerKm)
		}
		distance = *req.OdometerEnd - v.OdometerKm
		endOdometer = *req.OdometerEnd
	}
	if err := s.VehicleRepo.RecordUsageTx(ctx, tx, v.ID, endOdometer, days); err != nil {
		return nil, err
	}

	raised, err := s.raiseMaintenanceTx(ctx, tx, c, v, req, operatorID)
	if err != nil {
		return nil, err
	}

	if req.DeductionTotal > 0 {
		if err := s.LedgerRepo.InsertTx(ctx, tx, &models.LedgerEntry{
			ContractID: c.ID, AgencyID: c.AgencyID, OperatorID: operatorID,
			Amount: -req.DeductionTotal, Category: models.LedgerCategoryDeduction,
			Channel: req.RefundChannel, Description: "Deductions withheld from deposit",
		}); err != nil {
			return nil, err
		}
	}
	if req.RefundAmount > 0 {
		if err := s.LedgerRepo.InsertTx(ctx, tx, &models.LedgerEntry{
			ContractID: c.ID, AgencyID: c.AgencyID, OperatorID: operatorID,
			Amount: -req.RefundAmount, Category: models.LedgerCategoryDepositReturn,
			Channel: req.RefundChannel, Description: "Deposit refund",
		}); err != nil {
			return nil, err
		}
	}

	due, err := s.scheduledMaintenanceDue(ctx, v, endOdometer, days)
	if err != nil {
		return nil, err
	}
	if due {
		kind := models.MaintenanceKindScheduledDays
		description := "Scheduled maintenance: rental-day threshold reached"
		if v.Motorized {
			kind = models.MaintenanceKindScheduledKm
			description = "Scheduled maintenance: kilometer threshold reached"
		}
		if err := s.MaintenanceRepo.InsertTx(ctx, tx, &models.MaintenanceRecord{
			VehicleID: v.ID, ContractID: &c.ID, Kind: kind,
			Priority: models.MaintenancePriorityNormal, Description: description,
			ReportedByUserID: operatorID,
		}); err != nil {
			return nil, err
		}
		raised++
	}

	target := checkOutTarget(req.ForceMaintenance, due)
	ok, err := s.VehicleRepo.TransitionTx(ctx, tx, v.ID, models.VehicleStateRented, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %d is not rented", ErrInvalidTransition, v.ID)
	}

	inspection := req.Inspection
	c.EndedAt = &now
	c.TotalAmount = total
	c.DeductionTotal = billing.RoundMoney(req.DeductionTotal)
	c.RefundAmount = billing.RoundMoney(req.RefundAmount)
	c.RefundChannel = req.RefundChannel
	c.DistanceKm = distance
	c.Inspection = &inspection
	if err := s.Repo.CompleteTx(ctx, tx, c); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.CheckOutsTotal.Inc()
	metrics.MaintenanceRaisedTotal.Add(float64(raised))
	cache.InvalidateFleetBoard(ctx)
	if customer, err := s.CustomerRepo.Get(ctx, c.CustomerID); err == nil {
		s.Mailer.SendSettlement(c, customer.Email, customer.FirstName+" "+customer.LastName)
	}
	log.Printf("[Contract] Checked out %s: days=%d total=%.2f deductions=%.2f state=%s",
		c.ContractNumber, days, total, req.DeductionTotal, target)

	return &models.CheckOutResult{
		ContractID:        c.ID,
		ContractNumber:    c.ContractNumber,
		Days:              days,
		TotalAmount:       total,
		DeductionTotal:    c.DeductionTotal,
		RefundAmount:      c.RefundAmount,
		DistanceKm:        distance,
		VehicleState:      target,
		MaintenanceRaised: raised,
		MaintenanceDue:    due,
	}, nil
}

// ensureOpen rejects any lifecycle operation on a contract that is no longer
// active. Completed contracts are immutable.
func ensureOpen(c *models.Contract) error {
	if c.State != models.ContractStateActive {
		return fmt.Errorf("%w: contract %s is %s", ErrContractClosed, c.ContractNumber, c.State)
	}
	return nil
}

// checkOutTarget picks the vehicle's state after check-out: maintenance when
// the operator forces it or the scheduler says it is due, available otherwise.
func checkOutTarget(forceMaintenance, due bool) models.VehicleState {
	if forceMaintenance || due {
		return models.VehicleStateMaintenance
	}
	return models.VehicleStateAvailable
}

// repairFinding is one repair record to open during check-out.
type repairFinding struct {
	Description string
	Priority    models.MaintenancePriority
}

// deductionPriority grades a priced deduction: amounts at or over the
// configured threshold are high priority.
func deductionPriority(amount, threshold float64) models.MaintenancePriority {
	if amount >= threshold {
		return models.MaintenancePriorityHigh
	}
	return models.MaintenancePriorityNormal
}

// repairFindings maps a check-out's deduction lines and inspection report to
// the repair records they warrant. Inspection findings raise records
// regardless of whether a deduction was charged for them.
func repairFindings(req *models.CheckOutRequest, threshold float64) []repairFinding {
	var findings []repairFinding
	for _, d := range req.Deductions {
		if d.Amount <= 0 {
			continue
		}
		findings = append(findings, repairFinding{
			Description: fmt.Sprintf("Damage charged at check-out: %s", d.Description),
			Priority:    deductionPriority(d.Amount, threshold),
		})
	}
	if req.Inspection.Tires == models.ConditionFlat {
		findings = append(findings, repairFinding{"Flat tire reported at return inspection", models.MaintenancePriorityHigh})
	}
	if req.Inspection.Brakes == models.ConditionDefective {
		findings = append(findings, repairFinding{"Defective brakes reported at return inspection", models.MaintenancePriorityHigh})
	}
	if req.Inspection.Lights == models.ConditionDefective {
		findings = append(findings, repairFinding{"Lights not functional at return inspection", models.MaintenancePriorityNormal})
	}
	if req.Inspection.Battery == models.ConditionLow {
		findings = append(findings, repairFinding{"Low battery reported at return inspection", models.MaintenancePriorityNormal})
	}
	return findings
}

// raiseMaintenanceTx opens repair records for priced deductions and for the
// inspection findings that always warrant one.
func (s *ContractService) raiseMaintenanceTx(ctx context.Context, tx pgx.Tx,
	c *models.Contract, v *models.Vehicle, req *models.CheckOutRequest, operatorID int) (int, error) {

	findings := repairFindings(req, s.Cfg.Billing.HighPriorityDeduction)
	for i, f := range findings {
		err := s.MaintenanceRepo.InsertTx(ctx, tx, &models.MaintenanceRecord{
			VehicleID: v.ID, ContractID: &c.ID, Kind: models.MaintenanceKindRepair,
			Priority: f.Priority, Description: f.Description,
			ReportedByUserID: operatorID, PhotoKeys: req.PhotoKeys,
		})
		if err != nil {
			return i, err
		}
	}
	return len(findings), nil
}

// scheduledMaintenanceDue evaluates the threshold rules against the
// vehicle's post-checkout usage, including the days of the contract being
// settled right now.
func (s *ContractService) scheduledMaintenanceDue(ctx context.Context, v *models.Vehicle, endOdometer, days int) (bool, error) {
	if v.Motorized {
		base := 0
		if v.LastMaintenanceKm != nil {
			base = *v.LastMaintenanceKm
		}
		return endOdometer-base >= s.Cfg.Maintenance.KilometerThreshold, nil
	}

	prior := v.RentalDays
	if v.LastMaintenanceDate != nil {
		var err error
		prior, err = s.Repo.SumCompletedDaysSince(ctx, v.ID, *v.LastMaintenanceDate)
		if err != nil {
			return false, err
		}
	}
	return s.Maintenance.DueRentalDays(prior + days), nil
}

// Cancel voids an active contract: ledger entries and the contract row are
// removed and the vehicle returns to available. Completed contracts are
// immutable and cannot be cancelled.
func (s *ContractService) Cancel(ctx context.Context, id int) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c, err := s.Repo.GetTx(ctx, tx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: contract %d", ErrContractNotFound, id)
	}
	if err != nil {
		return err
	}
	if err := ensureOpen(c); err != nil {
		return err
	}

	if err := s.LedgerRepo.DeleteByContractTx(ctx, tx, c.ID); err != nil {
		return err
	}
	if err := s.Repo.DeleteTx(ctx, tx, c.ID); err != nil {
		return err
	}
	// No maintenance evaluation on cancellation, the vehicle is simply
	// released.
	ok, err := s.VehicleRepo.TransitionTx(ctx, tx, c.VehicleID,
		models.VehicleStateRented, models.VehicleStateAvailable)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: vehicle %d is not rented", ErrInvalidTransition, c.VehicleID)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	cache.InvalidateFleetBoard(ctx)
	log.Printf("[Contract] Cancelled %s, vehicle %d released", c.ContractNumber, c.VehicleID)
	return nil
}

func (s *ContractService) Get(ctx context.Context, id int) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: contract %d", ErrContractNotFound, id)
	}
	return c, err
}

func (s *ContractService) ListActive(ctx context.Context, agencyID int) ([]*models.Contract, error) {
	return s.Repo.ListActive(ctx, agencyID)
}

func (s *ContractService) ListOverdue(ctx context.Context, agencyID int) ([]*models.Contract, error) {
	return s.Repo.ListOverdue(ctx, agencyID, timeutil.Now())
}

// SettlementSummary pairs a contract with its derived ledger position.
type SettlementSummary struct {
	Contract *models.Contract        `json:"contract"`
	Balance  *models.ContractBalance `json:"balance"`
	Entries  []*models.LedgerEntry   `json:"entries"`
}

// Settlement derives the money position of one contract from its ledger
// entries. Nothing here reads a stored balance.
func (s *ContractService) Settlement(ctx context.Context, id int) (*SettlementSummary, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := s.LedgerRepo.GetContractBalance(ctx, id)
	if err != nil {
		return nil, err
	}
	balance.RentalDue = c.TotalAmount
	balance.DepositDue = c.DepositAmount
	entries, err := s.LedgerRepo.ListByContract(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SettlementSummary{Contract: c, Balance: balance, Entries: entries}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrVehicleUnavailable):
		return "vehicle unavailable"
	case errors.Is(err, ErrNotFound):
		return "vehicle not found"
	case errors.Is(err, billing.ErrTariffNotFound):
		return "no tariff for vehicle, accessory or insurance tier"
	default:
		return "internal error"
	}
}
