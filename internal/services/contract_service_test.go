package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/billing"
	"rental-backend/internal/models"
)

func TestDeductionPriority(t *testing.T) {
	assert.Equal(t, models.MaintenancePriorityNormal, deductionPriority(20, 100))
	assert.Equal(t, models.MaintenancePriorityNormal, deductionPriority(99.99, 100))
	assert.Equal(t, models.MaintenancePriorityHigh, deductionPriority(100, 100))
	assert.Equal(t, models.MaintenancePriorityHigh, deductionPriority(450, 100))
}

func TestRepairFindingsFromDeductions(t *testing.T) {
	req := &models.CheckOutRequest{
		Deductions: []models.DeductionLine{
			{Description: "scratched frame", Amount: 30},
			{Description: "broken mirror", Amount: 150},
			{Description: "courtesy note", Amount: 0},
		},
	}

	findings := repairFindings(req, 100)
	require.Len(t, findings, 2)
	assert.Equal(t, models.MaintenancePriorityNormal, findings[0].Priority)
	assert.Contains(t, findings[0].Description, "scratched frame")
	assert.Equal(t, models.MaintenancePriorityHigh, findings[1].Priority)
	assert.Contains(t, findings[1].Description, "broken mirror")
}

func TestRepairFindingsFromInspection(t *testing.T) {
	req := &models.CheckOutRequest{
		Inspection: models.InspectionReport{
			Tires:   models.ConditionFlat,
			Brakes:  models.ConditionDefective,
			Lights:  models.ConditionDefective,
			Battery: models.ConditionLow,
		},
	}

	findings := repairFindings(req, 100)
	require.Len(t, findings, 4)
	assert.Equal(t, models.MaintenancePriorityHigh, findings[0].Priority)
	assert.Equal(t, models.MaintenancePriorityHigh, findings[1].Priority)
	assert.Equal(t, models.MaintenancePriorityNormal, findings[2].Priority)
	assert.Equal(t, models.MaintenancePriorityNormal, findings[3].Priority)
}

func TestRepairFindingsCleanReturn(t *testing.T) {
	req := &models.CheckOutRequest{
		Inspection: models.InspectionReport{
			Tires:   models.ConditionOK,
			Brakes:  models.ConditionWorn,
			Lights:  models.ConditionOK,
			Battery: models.ConditionOK,
		},
	}
	// Worn is noted on the contract but does not open a repair record.
	assert.Empty(t, repairFindings(req, 100))
}

func TestRepairFindingsCombined(t *testing.T) {
	req := &models.CheckOutRequest{
		Deductions: []models.DeductionLine{{Description: "flat tire", Amount: 25}},
		Inspection: models.InspectionReport{Tires: models.ConditionFlat},
	}
	// A deduction and its matching inspection finding each get a record.
	assert.Len(t, repairFindings(req, 100), 2)
}

func TestCheckOutRequiresChannelForDeductions(t *testing.T) {
	// Deductions book a ledger entry under the refund channel, so a missing
	// channel is rejected even when nothing is refunded.
	s := &ContractService{}
	_, err := s.CheckOut(context.Background(), &models.CheckOutRequest{
		ContractID:     1,
		Deductions:     []models.DeductionLine{{Description: "broken mirror", Amount: 50}},
		DeductionTotal: 50,
	}, 7)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckOutTarget(t *testing.T) {
	assert.Equal(t, models.VehicleStateAvailable, checkOutTarget(false, false))
	assert.Equal(t, models.VehicleStateMaintenance, checkOutTarget(true, false))
	assert.Equal(t, models.VehicleStateMaintenance, checkOutTarget(false, true))
	assert.Equal(t, models.VehicleStateMaintenance, checkOutTarget(true, true))
}

func TestClosedContractsAreImmutable(t *testing.T) {
	// Cancellation and check-out both refuse contracts that already settled.
	completed := &models.Contract{ContractNumber: "MI-20250314-001", State: models.ContractStateCompleted}
	assert.ErrorIs(t, ensureOpen(completed), ErrContractClosed)

	active := &models.Contract{ContractNumber: "MI-20250314-002", State: models.ContractStateActive}
	assert.NoError(t, ensureOpen(active))
}

func TestScheduledMaintenanceDueAtCheckOut(t *testing.T) {
	cfg := testMaintenanceConfig()
	s := &ContractService{Cfg: cfg, Maintenance: &MaintenanceService{Cfg: cfg}}

	last := 200
	motorized := &models.Vehicle{Motorized: true, LastMaintenanceKm: &last}

	due, err := s.scheduledMaintenanceDue(context.Background(), motorized, 1200, 3)
	require.NoError(t, err)
	assert.True(t, due)

	due, err = s.scheduledMaintenanceDue(context.Background(), motorized, 1199, 3)
	require.NoError(t, err)
	assert.False(t, due)

	// A never-maintained non-motorized vehicle counts its lifetime days plus
	// the contract being settled right now.
	bike := &models.Vehicle{RentalDays: 7}

	due, err = s.scheduledMaintenanceDue(context.Background(), bike, 0, 3)
	require.NoError(t, err)
	assert.True(t, due)

	due, err = s.scheduledMaintenanceDue(context.Background(), bike, 0, 2)
	require.NoError(t, err)
	assert.False(t, due)
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "vehicle unavailable",
		rejectionReason(fmt.Errorf("%w: vehicle 9 is rented", ErrVehicleUnavailable)))
	assert.Equal(t, "vehicle not found",
		rejectionReason(fmt.Errorf("%w: vehicle 9", ErrNotFound)))
	assert.Equal(t, "no tariff for vehicle, accessory or insurance tier",
		rejectionReason(fmt.Errorf("%w: category 3", billing.ErrTariffNotFound)))
	assert.Equal(t, "internal error", rejectionReason(errors.New("boom")))
}
