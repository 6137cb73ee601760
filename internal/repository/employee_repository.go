package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `id, company_id, user_id, first_name, last_name, position, department, vacation_days, iban, bic, created_at, updated_at`

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var employee models.Employee
	if err := row.Scan(
		&employee.ID,
		&employee.CompanyID,
		&employee.UserID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Position,
		&employee.Department,
		&employee.VacationDays,
		&employee.IBAN,
		&employee.BIC,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}
	return employee, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee models.Employee) error {
	const query = `
		INSERT INTO employees (
			id, company_id, user_id, first_name, last_name, position, department, vacation_days, iban, bic, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		employee.ID,
		employee.CompanyID,
		employee.UserID,
		employee.FirstName,
		employee.LastName,
		employee.Position,
		employee.Department,
		employee.VacationDays,
		employee.IBAN,
		employee.BIC,
	)
	return err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, companyID string, id string) (models.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE company_id = $1 AND id = $2`
	return scanEmployee(r.pool.QueryRow(ctx, query, companyID, id))
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (models.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1`
	return scanEmployee(r.pool.QueryRow(ctx, query, userID))
}

func (r *EmployeeRepository) ListByCompany(ctx context.Context, companyID string, limit int, offset int) ([]models.Employee, error) {
	const query = `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) UpdateBankDetails(ctx context.Context, companyID string, id string, iban *string, bic *string) error {
	const query = `
		UPDATE employees SET iban = $3, bic = $4, updated_at = NOW()
		WHERE company_id = $1 AND id = $2
	`
	cmd, err := r.pool.Exec(ctx, query, companyID, id, iban, bic)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) UpdateVacationDays(ctx context.Context, id string, days float64) error {
	const query = `
		UPDATE employees SET vacation_days = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, days)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
