package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (models.Company, error) {
	const query = `
		SELECT id, name, domain, status, created_at, updated_at
		FROM companies WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var company models.Company
	if err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Domain,
		&company.Status,
		&company.CreatedAt,
		&company.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Company{}, ErrCompanyNotFound
		}
		return models.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	const query = `
		SELECT id, name, domain, status, created_at, updated_at
		FROM companies
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []models.Company
	for rows.Next() {
		var company models.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.Domain,
			&company.Status,
			&company.CreatedAt,
			&company.UpdatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}
