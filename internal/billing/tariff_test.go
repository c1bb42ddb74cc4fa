package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
)

func bikeTable() *models.TariffTable {
	prices := make(map[int]float64)
	for d := 1; d <= 14; d++ {
		prices[d] = float64(d) * 10 // 10, 20, ... 140
	}
	return &models.TariffTable{
		OwnerKind:    models.TariffOwnerCategory,
		OwnerID:      1,
		DayPrices:    prices,
		ExtraDayRate: 8,
	}
}

func TestTablePrice(t *testing.T) {
	table := bikeTable()

	for d := 1; d <= 14; d++ {
		assert.Equal(t, float64(d)*10, TablePrice(table, d), "day %d", d)
	}

	// Beyond the horizon: table[14] + (d-14)*extra
	assert.Equal(t, 140+1*8.0, TablePrice(table, 15))
	assert.Equal(t, 140+16*8.0, TablePrice(table, 30))
}

func TestTablePriceMissingDay(t *testing.T) {
	table := &models.TariffTable{
		DayPrices:    map[int]float64{1: 12},
		ExtraDayRate: 5,
	}
	assert.Equal(t, 0.0, TablePrice(table, 3))
}

func TestComputeSumsAccessoriesLinearly(t *testing.T) {
	helmet := &models.TariffTable{
		OwnerKind:    models.TariffOwnerAccessory,
		OwnerID:      7,
		DayPrices:    map[int]float64{1: 2, 2: 4, 3: 6, 14: 20},
		ExtraDayRate: 1,
	}

	q, err := Compute(Rates{
		Category:    bikeTable(),
		Accessories: []*models.TariffTable{helmet, helmet},
		DepositBase: 100,
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, 30.0, q.BasePrice)
	assert.Equal(t, 12.0, q.AccessoryPrice)
	assert.Equal(t, 42.0, q.TotalAmount)
	assert.Equal(t, 100.0, q.DepositAmount)
	assert.Equal(t, 0.0, q.InsuranceFee)
}

func TestComputeAccessoryBeyondHorizon(t *testing.T) {
	helmet := &models.TariffTable{
		OwnerKind:    models.TariffOwnerAccessory,
		OwnerID:      7,
		DayPrices:    map[int]float64{14: 20},
		ExtraDayRate: 1,
	}

	q, err := Compute(Rates{
		Category:    bikeTable(),
		Accessories: []*models.TariffTable{helmet},
		DepositBase: 100,
	}, 20)
	require.NoError(t, err)

	assert.Equal(t, 140+6*8.0, q.BasePrice)
	assert.Equal(t, 20+6*1.0, q.AccessoryPrice)
}

func TestComputeInsurance(t *testing.T) {
	tier := &models.InsuranceTier{
		ID:                      2,
		Name:                    "kasko",
		DepositReductionPercent: 50,
		DailyFee:                3,
	}

	q, err := Compute(Rates{
		Category:    bikeTable(),
		Insurance:   tier,
		DepositBase: 300,
	}, 4)
	require.NoError(t, err)

	// Insurance halves the deposit and adds 3/day; base price untouched.
	assert.Equal(t, 150.0, q.DepositAmount)
	assert.Equal(t, 12.0, q.InsuranceFee)
	assert.Equal(t, 40.0, q.BasePrice)
	assert.Equal(t, 52.0, q.TotalAmount)
}

func TestComputeDepositRounding(t *testing.T) {
	tier := &models.InsuranceTier{DepositReductionPercent: 33.33}
	q, err := Compute(Rates{Category: bikeTable(), Insurance: tier, DepositBase: 100}, 1)
	require.NoError(t, err)
	assert.Equal(t, 66.67, q.DepositAmount)
}

func TestComputeMissingTables(t *testing.T) {
	_, err := Compute(Rates{Category: nil}, 3)
	assert.ErrorIs(t, err, ErrTariffNotFound)

	_, err = Compute(Rates{
		Category:    bikeTable(),
		Accessories: []*models.TariffTable{nil},
	}, 3)
	assert.ErrorIs(t, err, ErrTariffNotFound)
}
