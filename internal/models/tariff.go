package models

// TariffOwnerKind says whether a tariff table prices a vehicle category or an
// accessory
type TariffOwnerKind string

const (
	TariffOwnerCategory  TariffOwnerKind = "category"
	TariffOwnerAccessory TariffOwnerKind = "accessory"
)

// TariffTable is a day-count-indexed price table. Days 1..14 are direct
// entries; rentals beyond 14 days pay table[14] plus ExtraDayRate per extra
// day.
type TariffTable struct {
	OwnerKind    TariffOwnerKind `json:"owner_kind"`
	OwnerID      int             `json:"owner_id"`
	DayPrices    map[int]float64 `json:"day_prices"`
	ExtraDayRate float64         `json:"extra_day_rate"`
}

type Accessory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// InsuranceTier reduces the deposit by a percentage and adds a flat per-day
// fee. It never alters the base rental price.
type InsuranceTier struct {
	ID                      int     `json:"id"`
	Name                    string  `json:"name"`
	DepositReductionPercent float64 `json:"deposit_reduction_percent"`
	DailyFee                float64 `json:"daily_fee"`
}

// QuoteRequest previews the exact price computation used by check-in
type QuoteRequest struct {
	CategoryID      int   `json:"category_id"`
	Days            int   `json:"days"`
	AccessoryIDs    []int `json:"accessory_ids"`
	InsuranceTierID *int  `json:"insurance_tier_id"`
}

type Quote struct {
	Days           int     `json:"days"`
	BasePrice      float64 `json:"base_price"`
	AccessoryPrice float64 `json:"accessory_price"`
	InsuranceFee   float64 `json:"insurance_fee"`
	TotalAmount    float64 `json:"total_amount"`
	DepositAmount  float64 `json:"deposit_amount"`
}
