package billing

import (
	"errors"

	"rental-backend/internal/models"
)

// TableHorizonDays is the last day count priced directly by a tariff table.
// Longer rentals pay the day-14 price plus the extra-day rate per additional
// day.
const TableHorizonDays = 14

// ErrTariffNotFound is returned when a category, accessory or insurance tier
// has no tariff data. Callers must reject the request rather than price it at
// zero.
var ErrTariffNotFound = errors.New("tariff not found")

// TablePrice resolves the price for a day count against one tariff table.
// Days within the horizon are direct lookups (absent days price at 0).
func TablePrice(t *models.TariffTable, days int) float64 {
	if days > TableHorizonDays {
		return t.DayPrices[TableHorizonDays] + float64(days-TableHorizonDays)*t.ExtraDayRate
	}
	return t.DayPrices[days]
}

// Rates bundles everything needed to price one vehicle line.
type Rates struct {
	Category    *models.TariffTable
	Accessories []*models.TariffTable
	Insurance   *models.InsuranceTier // optional
	DepositBase float64
}

// Compute prices a rental of the given day count. The base price and each
// accessory resolve independently against their own tables and sum linearly.
// Insurance adds a flat per-day fee and reduces the deposit; it never alters
// the rental price.
func Compute(r Rates, days int) (models.Quote, error) {
	if r.Category == nil {
		return models.Quote{}, ErrTariffNotFound
	}

	base := TablePrice(r.Category, days)

	var accessories float64
	for _, a := range r.Accessories {
		if a == nil {
			return models.Quote{}, ErrTariffNotFound
		}
		accessories += TablePrice(a, days)
	}

	deposit := r.DepositBase
	var insuranceFee float64
	if r.Insurance != nil {
		insuranceFee = float64(days) * r.Insurance.DailyFee
		deposit = r.DepositBase * (1 - r.Insurance.DepositReductionPercent/100)
	}

	return models.Quote{
		Days:           days,
		BasePrice:      RoundMoney(base),
		AccessoryPrice: RoundMoney(accessories),
		InsuranceFee:   RoundMoney(insuranceFee),
		TotalAmount:    RoundMoney(base + accessories + insuranceFee),
		DepositAmount:  RoundMoney(deposit),
	}, nil
}
