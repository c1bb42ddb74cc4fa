package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/billing"
	"rental-backend/internal/models"
)

type TariffRepository struct {
	DB *pgxpool.Pool
}

func NewTariffRepository(db *pgxpool.Pool) *TariffRepository {
	return &TariffRepository{DB: db}
}

// GetTable loads the full day-price table for one category or accessory.
// Day 0 rows hold the extra-day rate. An owner with no rows at all is a
// lookup failure, never a silent zero price.
func (r *TariffRepository) GetTable(ctx context.Context, kind models.TariffOwnerKind, ownerID int) (*models.TariffTable, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT day, price FROM tariff_prices
		 WHERE owner_kind = $1 AND owner_id = $2`,
		kind, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := &models.TariffTable{
		OwnerKind: kind,
		OwnerID:   ownerID,
		DayPrices: make(map[int]float64),
	}
	found := false
	for rows.Next() {
		var day int
		var price float64
		if err := rows.Scan(&day, &price); err != nil {
			return nil, err
		}
		found = true
		if day == 0 {
			table.ExtraDayRate = price
		} else {
			table.DayPrices[day] = price
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s %d", billing.ErrTariffNotFound, kind, ownerID)
	}
	return table, nil
}

func (r *TariffRepository) GetCategory(ctx context.Context, id int) (*models.VehicleCategory, error) {
	var c models.VehicleCategory
	err := r.DB.QueryRow(ctx,
		`SELECT id, code, name, motorized, deposit_base FROM vehicle_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Motorized, &c.DepositBase)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", billing.ErrTariffNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *TariffRepository) ListCategories(ctx context.Context) ([]*models.VehicleCategory, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, code, name, motorized, deposit_base FROM vehicle_categories ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.VehicleCategory
	for rows.Next() {
		var c models.VehicleCategory
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Motorized, &c.DepositBase); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *TariffRepository) GetInsuranceTier(ctx context.Context, id int) (*models.InsuranceTier, error) {
	var t models.InsuranceTier
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, deposit_reduction_percent, daily_fee FROM insurance_tiers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.DepositReductionPercent, &t.DailyFee)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: insurance tier %d", billing.ErrTariffNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TariffRepository) ListAccessories(ctx context.Context) ([]*models.Accessory, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM accessories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accessories []*models.Accessory
	for rows.Next() {
		var a models.Accessory
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		accessories = append(accessories, &a)
	}
	return accessories, rows.Err()
}

func (r *TariffRepository) ListInsuranceTiers(ctx context.Context) ([]*models.InsuranceTier, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, deposit_reduction_percent, daily_fee FROM insurance_tiers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []*models.InsuranceTier
	for rows.Next() {
		var t models.InsuranceTier
		if err := rows.Scan(&t.ID, &t.Name, &t.DepositReductionPercent, &t.DailyFee); err != nil {
			return nil, err
		}
		tiers = append(tiers, &t)
	}
	return tiers, rows.Err()
}

// UpsertPrice sets one day-price point (day 0 = extra-day rate). Admin only.
func (r *TariffRepository) UpsertPrice(ctx context.Context, kind models.TariffOwnerKind, ownerID, day int, price float64) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO tariff_prices (owner_kind, owner_id, day, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_kind, owner_id, day) DO UPDATE SET price = EXCLUDED.price`,
		kind, ownerID, day, price)
	return err
}
