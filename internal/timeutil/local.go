package timeutil

import (
	"time"
)

// Agency is the local timezone of the rental sites (CET/CEST). Display and
// contract-number day boundaries use it; billing math never does.
var Agency *time.Location

func init() {
	var err error
	Agency, err = time.LoadLocation("Europe/Rome")
	if err != nil {
		// Fallback: fixed CET if tzdata not available
		Agency = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in the agency timezone
func Now() time.Time {
	return time.Now().In(Agency)
}

// ToLocal converts any time to the agency timezone
func ToLocal(t time.Time) time.Time {
	return t.In(Agency)
}

// StartOfDay returns 00:00:00 in the agency timezone for the given time
func StartOfDay(t time.Time) time.Time {
	l := t.In(Agency)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Agency)
}

// EndOfDay returns the end of day in the agency timezone for the given time
func EndOfDay(t time.Time) time.Time {
	l := t.In(Agency)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, 999999999, Agency)
}

// ParseLocalDate parses a YYYY-MM-DD date as midnight in the agency timezone
func ParseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Agency)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	CompactDate    = "20060102"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 15:04"
)
