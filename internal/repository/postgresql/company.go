package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/company"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, name string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	var created company.Company
	err := q.QueryRow(ctx, `
		INSERT INTO companies (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&created.ID, &created.Name, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	var found company.Company
	err := q.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`, id).
		Scan(&found.ID, &found.Name, &found.CreatedAt, &found.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company with id %s: %w", id, err)
	}
	return found, nil
}

// Count implements company.CompanyRepository.
func (c *companyRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, c.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}
