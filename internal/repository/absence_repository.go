package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrAbsenceNotFound = errors.New("absence request not found")

type AbsenceRepository struct {
	pool *pgxpool.Pool
}

func NewAbsenceRepository(pool *pgxpool.Pool) *AbsenceRepository {
	return &AbsenceRepository{pool: pool}
}

const absenceColumns = `id, company_id, employee_id, type, status, start_date, end_date, half_day, reason, document_key, approved_by, approved_at, created_at, updated_at`

func scanAbsence(row pgx.Row) (models.AbsenceRequest, error) {
	var req models.AbsenceRequest
	if err := row.Scan(
		&req.ID,
		&req.CompanyID,
		&req.EmployeeID,
		&req.Type,
		&req.Status,
		&req.StartDate,
		&req.EndDate,
		&req.HalfDay,
		&req.Reason,
		&req.DocumentKey,
		&req.ApprovedBy,
		&req.ApprovedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AbsenceRequest{}, ErrAbsenceNotFound
		}
		return models.AbsenceRequest{}, err
	}
	return req, nil
}

func (r *AbsenceRepository) Create(ctx context.Context, req models.AbsenceRequest) error {
	const query = `
		INSERT INTO absence_requests (
			id, company_id, employee_id, type, status, start_date, end_date, half_day, reason, document_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.CompanyID,
		req.EmployeeID,
		req.Type,
		req.Status,
		req.StartDate,
		req.EndDate,
		req.HalfDay,
		req.Reason,
		req.DocumentKey,
	)
	return err
}

func (r *AbsenceRepository) GetByID(ctx context.Context, companyID string, id string) (models.AbsenceRequest, error) {
	const query = `SELECT ` + absenceColumns + ` FROM absence_requests WHERE company_id = $1 AND id = $2`
	return scanAbsence(r.pool.QueryRow(ctx, query, companyID, id))
}

func (r *AbsenceRepository) ListByCompany(ctx context.Context, companyID string, limit int, offset int) ([]models.AbsenceRequest, error) {
	const query = `
		SELECT ` + absenceColumns + `
		FROM absence_requests
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMany(ctx, query, companyID, limit, offset)
}

func (r *AbsenceRepository) ListByEmployee(ctx context.Context, companyID string, employeeID string, limit int, offset int) ([]models.AbsenceRequest, error) {
	const query = `
		SELECT ` + absenceColumns + `
		FROM absence_requests
		WHERE company_id = $1 AND employee_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	return r.queryMany(ctx, query, companyID, employeeID, limit, offset)
}

// ListSickWithoutDocument returns sick absences still missing their
// sick note that were filed before the cutoff. Used by the reminder
// sweep.
func (r *AbsenceRepository) ListSickWithoutDocument(ctx context.Context, cutoff time.Time) ([]models.AbsenceRequest, error) {
	const query = `
		SELECT ` + absenceColumns + `
		FROM absence_requests
		WHERE type = 'sick'
		  AND status IN ('pending', 'approved')
		  AND document_key IS NULL
		  AND created_at <= $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAbsences(rows)
}

func (r *AbsenceRepository) UpdateStatus(ctx context.Context, id string, status models.AbsenceStatus, approvedBy *string) error {
	const query = `
		UPDATE absence_requests
		SET status = $2,
		    approved_by = $3,
		    approved_at = CASE WHEN $2 = 'approved' THEN NOW() ELSE approved_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status, approvedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAbsenceNotFound
	}
	return nil
}

func (r *AbsenceRepository) SetDocumentKey(ctx context.Context, id string, key string) error {
	const query = `
		UPDATE absence_requests SET document_key = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAbsenceNotFound
	}
	return nil
}

func (r *AbsenceRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.AbsenceRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAbsences(rows)
}

func collectAbsences(rows pgx.Rows) ([]models.AbsenceRequest, error) {
	var requests []models.AbsenceRequest
	for rows.Next() {
		req, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
