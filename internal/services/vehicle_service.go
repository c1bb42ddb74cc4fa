package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type VehicleService struct {
	Repo       *repositories.VehicleRepository
	TariffRepo *repositories.TariffRepository
}

func NewVehicleService(repo *repositories.VehicleRepository, tariffRepo *repositories.TariffRepository) *VehicleService {
	return &VehicleService{Repo: repo, TariffRepo: tariffRepo}
}

func (s *VehicleService) Get(ctx context.Context, id int) (*models.Vehicle, error) {
	v, err := s.Repo.Get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
	}
	return v, err
}

func (s *VehicleService) List(ctx context.Context, agencyID int, state models.VehicleState) ([]*models.Vehicle, error) {
	if state != "" && state != models.VehicleStateAvailable &&
		state != models.VehicleStateRented && state != models.VehicleStateMaintenance {
		return nil, fmt.Errorf("%w: state %q", ErrValidation, state)
	}
	return s.Repo.List(ctx, agencyID, state)
}

func (s *VehicleService) Create(ctx context.Context, req *models.CreateVehicleRequest) (*models.Vehicle, error) {
	if req.Serial == "" {
		return nil, fmt.Errorf("%w: serial required", ErrValidation)
	}
	if _, err := s.TariffRepo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	return s.Repo.Create(ctx, req)
}

func (s *VehicleService) Update(ctx context.Context, id int, req *models.UpdateVehicleRequest) (*models.Vehicle, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.TariffRepo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// FleetBoard is the per-agency state summary shown on the monitoring board.
type FleetBoard struct {
	Total       int               `json:"total"`
	ByState     map[string]int    `json:"by_state"`
	Maintenance []*models.Vehicle `json:"maintenance"`
}

func (s *VehicleService) Board(ctx context.Context, agencyID int) (*FleetBoard, error) {
	vehicles, err := s.Repo.List(ctx, agencyID, "")
	if err != nil {
		return nil, err
	}
	board := &FleetBoard{ByState: make(map[string]int)}
	for _, v := range vehicles {
		board.Total++
		board.ByState[string(v.State)]++
		if v.State == models.VehicleStateMaintenance {
			board.Maintenance = append(board.Maintenance, v)
		}
	}
	return board, nil
}
