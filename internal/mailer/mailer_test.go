package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

func TestNewWithoutAPIKeyDisablesMail(t *testing.T) {
	cfg := &config.Config{}
	m := New(cfg)
	assert.Nil(t, m)
}

func TestNilMailerIsSafe(t *testing.T) {
	var m *Mailer

	c := &models.Contract{
		ContractNumber: "MI-20250314-001",
		StartAt:        time.Now(),
		PlannedEndAt:   time.Now().Add(48 * time.Hour),
		TotalAmount:    42,
	}

	// None of these may panic or block when mail is disabled.
	m.SendContractConfirmation(c, "a@example.com", "Ada Example")
	m.SendSettlement(c, "a@example.com", "Ada Example")
	m.Stop()
}
