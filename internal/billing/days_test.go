package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillableDays(t *testing.T) {
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"zero duration", 0, 1},
		{"thirty minutes", 30 * time.Minute, 1},
		{"exactly one hour", time.Hour, 1},
		{"just over one hour", time.Hour + time.Second, 1}, // still under a day
		{"two hours", 2 * time.Hour, 1},
		{"exactly 24h", 24 * time.Hour, 1},
		{"24h plus grace hour", 25 * time.Hour, 1},
		{"24h one second past grace", 25*time.Hour + time.Second, 1}, // 25h floor, rem == 1
		{"24h two hours over", 26 * time.Hour, 2},
		{"three full days", 72 * time.Hour, 3},
		{"three days plus 61 minutes", 72*time.Hour + 61*time.Minute, 3}, // floor(h)=73, rem=1
		{"three days plus two hours", 74 * time.Hour, 4},
		{"fourteen days", 14 * 24 * time.Hour, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillableDays(base, base.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBillableDaysFloorRule(t *testing.T) {
	// days = floor(H/24) + 1 if H mod 24 > 1, floored at 1
	base := time.Unix(1_700_000_000, 0)
	for hours := int64(0); hours <= 30*24; hours++ {
		end := base.Add(time.Duration(hours) * time.Hour)
		want := int(hours / 24)
		if hours%24 > 1 {
			want++
		}
		if want < 1 {
			want = 1
		}
		assert.Equal(t, want, BillableDays(base, end), "hours=%d", hours)
	}
}

func TestBillableDaysInverted(t *testing.T) {
	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, BillableDays(base, base.Add(-48*time.Hour)))
}

func TestBillableDaysTimezoneIndependent(t *testing.T) {
	utc := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// Same instants expressed in a DST-transitioning zone must bill identically.
	end := utc.Add(50 * time.Hour)
	assert.Equal(t,
		BillableDays(utc, end),
		BillableDays(utc.In(rome), end.In(rome)),
	)
}

func TestPrice(t *testing.T) {
	assert.Equal(t, 45.0, Price(3, 15.0))
	assert.Equal(t, 29.97, Price(3, 9.99))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 150.0, RoundMoney(300.0*0.5))
	assert.Equal(t, 33.33, RoundMoney(100.0/3.0))
	assert.Equal(t, 0.1, RoundMoney(0.1+1e-9))
}
