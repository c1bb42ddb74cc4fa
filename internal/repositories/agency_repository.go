package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type AgencyRepository struct {
	DB *pgxpool.Pool
}

func NewAgencyRepository(db *pgxpool.Pool) *AgencyRepository {
	return &AgencyRepository{DB: db}
}

func (r *AgencyRepository) Get(ctx context.Context, id int) (*models.Agency, error) {
	var a models.Agency
	err := r.DB.QueryRow(ctx,
		`SELECT id, code, name, city, address, phone, email, created_at
		 FROM agencies WHERE id = $1`, id,
	).Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Address, &a.Phone, &a.Email, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgencyRepository) List(ctx context.Context) ([]*models.Agency, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, code, name, city, address, phone, email, created_at
		 FROM agencies ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []*models.Agency
	for rows.Next() {
		var a models.Agency
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Address, &a.Phone, &a.Email, &a.CreatedAt); err != nil {
			return nil, err
		}
		agencies = append(agencies, &a)
	}
	return agencies, rows.Err()
}

func (r *AgencyRepository) Create(ctx context.Context, a *models.Agency) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO agencies (code, name, city, address, phone, email)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.Code, a.Name, a.City, a.Address, a.Phone, a.Email,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create agency: %w", err)
	}
	return nil
}

func (r *AgencyRepository) Update(ctx context.Context, a *models.Agency) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE agencies SET name = $2, city = $3, address = $4, phone = $5, email = $6
		 WHERE id = $1`,
		a.ID, a.Name, a.City, a.Address, a.Phone, a.Email)
	return err
}
