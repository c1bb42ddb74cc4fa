package billing

import (
	"math"
	"time"
)

// GraceHours is how far past a full 24h day a return may run before an extra
// day is billed. A renter bringing a vehicle back within one hour of the
// boundary is not charged another day.
const GraceHours = 1

// BillableDays converts a rental interval into a billable day count under the
// 24h + 1h grace rule. Arithmetic is integer math over Unix seconds so the
// result is reproducible regardless of timezone or DST. Inverted or equal
// timestamps count as a 1-day rental.
func BillableDays(start, end time.Time) int {
	seconds := end.Unix() - start.Unix()
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	days := int(hours / 24)
	if hours%24 > GraceHours {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// Price multiplies a billable day count by the agreed daily rate.
func Price(days int, dailyRate float64) float64 {
	return RoundMoney(float64(days) * dailyRate)
}

// RoundMoney rounds to 2 decimal places. Every derived money amount goes
// through here.
func RoundMoney(x float64) float64 {
	return math.Round(x*100) / 100
}
