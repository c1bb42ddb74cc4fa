package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type UserService struct {
	Repo *repositories.UserRepository
	JWT  *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, JWT: jwt}
}

// Login verifies operator credentials and issues a JWT carrying the agency
// affiliation. Inactive accounts fail the same way as bad credentials.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.JWT.GenerateToken(u)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: u}, nil
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	if req.Role != models.RoleEmployee && req.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role %q", ErrValidation, req.Role)
	}
	if _, err := s.Repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user %s", ErrDuplicate, req.Email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		AgencyID:     req.AgencyID,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	u.IsActive = true
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}
	return s.Repo.SetActive(ctx, id, active)
}
