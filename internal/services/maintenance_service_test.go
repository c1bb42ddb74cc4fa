package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

func testMaintenanceConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Maintenance.KilometerThreshold = 1000
	cfg.Maintenance.RentalDaysThreshold = 10
	return cfg
}

func TestDueKilometers(t *testing.T) {
	s := &MaintenanceService{Cfg: testMaintenanceConfig()}
	last := 400

	tests := []struct {
		name     string
		odometer int
		lastKm   *int
		want     bool
	}{
		{"well past threshold", 1600, &last, true},
		{"exactly at threshold", 1400, &last, true},
		{"one km short", 1399, &last, false},
		{"never maintained counts from zero", 1000, nil, true},
		{"never maintained below threshold", 999, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &models.Vehicle{OdometerKm: tt.odometer, LastMaintenanceKm: tt.lastKm, Motorized: true}
			assert.Equal(t, tt.want, s.DueKilometers(v))
		})
	}
}

func TestDueRentalDays(t *testing.T) {
	s := &MaintenanceService{Cfg: testMaintenanceConfig()}

	assert.False(t, s.DueRentalDays(0))
	assert.False(t, s.DueRentalDays(9))
	assert.True(t, s.DueRentalDays(10))
	assert.True(t, s.DueRentalDays(25))
}

func TestEvaluateMotorized(t *testing.T) {
	s := &MaintenanceService{Cfg: testMaintenanceConfig()}
	v := &models.Vehicle{Motorized: true, OdometerKm: 1200}

	due, kind, err := s.Evaluate(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, due)
	assert.Equal(t, models.MaintenanceKindScheduledKm, kind)
}

func TestEvaluateNonMotorizedLifetimeCounter(t *testing.T) {
	// A never-maintained non-motorized vehicle is judged on its lifetime
	// rental-day counter, no database involved.
	s := &MaintenanceService{Cfg: testMaintenanceConfig()}

	due, kind, err := s.Evaluate(context.Background(), &models.Vehicle{RentalDays: 12})
	require.NoError(t, err)
	assert.True(t, due)
	assert.Equal(t, models.MaintenanceKindScheduledDays, kind)

	due, _, err = s.Evaluate(context.Background(), &models.Vehicle{RentalDays: 9})
	require.NoError(t, err)
	assert.False(t, due)
}

func TestSetStatusRejectsResolved(t *testing.T) {
	s := &MaintenanceService{Cfg: testMaintenanceConfig()}

	err := s.SetStatus(context.Background(), 1, models.MaintenanceStatusResolved)
	assert.ErrorIs(t, err, ErrValidation)
}
