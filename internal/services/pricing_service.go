package services

import (
	"context"
	"encoding/json"
	"fmt"

	"rental-backend/internal/billing"
	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

// PricingService resolves tariff tables (Redis-cached) and prices rentals.
// Check-in and the read-only quote endpoint share the same code path, so a
// quote is always exactly what check-in would charge.
type PricingService struct {
	TariffRepo *repositories.TariffRepository
}

func NewPricingService(tariffRepo *repositories.TariffRepository) *PricingService {
	return &PricingService{TariffRepo: tariffRepo}
}

func (s *PricingService) loadTable(ctx context.Context, kind models.TariffOwnerKind, ownerID int) (*models.TariffTable, error) {
	if data, ok := cache.GetCachedTariff(ctx, string(kind), ownerID); ok {
		var t models.TariffTable
		if err := json.Unmarshal(data, &t); err == nil {
			return &t, nil
		}
		// A corrupt cache entry falls through to the database.
	}

	t, err := s.TariffRepo.GetTable(ctx, kind, ownerID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(t); err == nil {
		cache.CacheTariff(ctx, string(kind), ownerID, data)
	}
	return t, nil
}

// Rates assembles the pricing inputs for one vehicle line: category table,
// one table per accessory, optional insurance tier and the deposit base.
func (s *PricingService) Rates(ctx context.Context, categoryID int, depositBase float64, accessoryIDs []int, insuranceTierID *int) (billing.Rates, error) {
	var r billing.Rates

	category, err := s.loadTable(ctx, models.TariffOwnerCategory, categoryID)
	if err != nil {
		return r, err
	}
	r.Category = category
	r.DepositBase = depositBase

	for _, id := range accessoryIDs {
		t, err := s.loadTable(ctx, models.TariffOwnerAccessory, id)
		if err != nil {
			return r, err
		}
		r.Accessories = append(r.Accessories, t)
	}

	if insuranceTierID != nil {
		tier, err := s.TariffRepo.GetInsuranceTier(ctx, *insuranceTierID)
		if err != nil {
			return r, err
		}
		r.Insurance = tier
	}
	return r, nil
}

// Quote prices a hypothetical rental without touching any state.
func (s *PricingService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	if req.Days < 1 {
		return nil, fmt.Errorf("%w: days must be at least 1", ErrValidation)
	}

	category, err := s.TariffRepo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	rates, err := s.Rates(ctx, category.ID, category.DepositBase, req.AccessoryIDs, req.InsuranceTierID)
	if err != nil {
		return nil, err
	}
	q, err := billing.Compute(rates, req.Days)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UpsertPrice stores one price point and drops the cached table.
func (s *PricingService) UpsertPrice(ctx context.Context, kind models.TariffOwnerKind, ownerID, day int, price float64) error {
	if kind != models.TariffOwnerCategory && kind != models.TariffOwnerAccessory {
		return fmt.Errorf("%w: owner kind %q", ErrValidation, kind)
	}
	if day < 0 || day > billing.TableHorizonDays {
		return fmt.Errorf("%w: day %d out of range", ErrValidation, day)
	}
	if price < 0 {
		return fmt.Errorf("%w: negative price", ErrValidation)
	}
	if err := s.TariffRepo.UpsertPrice(ctx, kind, ownerID, day, price); err != nil {
		return err
	}
	cache.InvalidateTariff(ctx, string(kind), ownerID)
	return nil
}
