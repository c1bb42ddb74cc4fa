package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rental-backend/internal/billing"
	"rental-backend/internal/timeutil"
)

func TestFormatContractNumber(t *testing.T) {
	start := time.Date(2025, 3, 14, 10, 30, 0, 0, timeutil.Agency)

	assert.Equal(t, "MI-20250314-001", FormatContractNumber("MI", start, 1))
	assert.Equal(t, "MI-20250314-042", FormatContractNumber("MI", start, 42))
	assert.Equal(t, "RM-20250314-123", FormatContractNumber("RM", start, 123))

	// Counters past 999 widen instead of wrapping.
	assert.Equal(t, "MI-20250314-1000", FormatContractNumber("MI", start, 1000))
}

func TestFormatContractNumberUsesLocalDay(t *testing.T) {
	// 23:30 UTC is already the next calendar day at the agency (CET/CEST).
	utcEvening := time.Date(2025, 6, 30, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "MI-20250701-001", FormatContractNumber("MI", utcEvening, 1))
}

// completedContractDays mirrors the day arithmetic inside the
// SumCompletedDaysSince SQL so the expression stays in lockstep with
// billing.BillableDays.
func completedContractDays(d time.Duration) int {
	hours := int64(d / time.Hour)
	days := hours / 24
	if hours%24 > 1 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return int(days)
}

func TestCompletedDaySumUsesGraceHourRule(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, timeutil.Agency)

	durations := []time.Duration{
		30 * time.Minute,
		23 * time.Hour,
		24 * time.Hour,
		24*time.Hour + 30*time.Minute,
		25 * time.Hour,
		25*time.Hour + 1*time.Minute,
		26 * time.Hour,
		48 * time.Hour,
		49 * time.Hour,
		50 * time.Hour,
		14 * 24 * time.Hour,
	}
	for _, d := range durations {
		assert.Equal(t, billing.BillableDays(start, start.Add(d)), completedContractDays(d),
			"duration %s", d)
	}
}
