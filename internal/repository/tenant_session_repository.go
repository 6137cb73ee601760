package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrTenantSessionNotFound = errors.New("tenant session not found")

type TenantSessionRepository struct {
	pool *pgxpool.Pool
}

func NewTenantSessionRepository(pool *pgxpool.Pool) *TenantSessionRepository {
	return &TenantSessionRepository{pool: pool}
}

// Create deactivates any prior active session for the user before
// inserting the new one: a superadmin is attached to at most one
// tenant at a time.
func (r *TenantSessionRepository) Create(ctx context.Context, session models.TenantSession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE tenant_sessions SET active = FALSE WHERE user_id = $1 AND active`,
		session.UserID,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO tenant_sessions (id, user_id, company_id, active, created_at, expires_at)
		VALUES ($1, $2, $3, TRUE, NOW(), $4)
	`,
		session.ID,
		session.UserID,
		session.CompanyID,
		session.ExpiresAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// LatestActive returns the most recent active session for the user.
func (r *TenantSessionRepository) LatestActive(ctx context.Context, userID string) (models.TenantSession, error) {
	const query = `
		SELECT id, user_id, company_id, active, created_at, expires_at
		FROM tenant_sessions
		WHERE user_id = $1 AND active
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var session models.TenantSession
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.CompanyID,
		&session.Active,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TenantSession{}, ErrTenantSessionNotFound
		}
		return models.TenantSession{}, err
	}
	return session, nil
}

// DeactivateAll clears every active tenant session for the user.
func (r *TenantSessionRepository) DeactivateAll(ctx context.Context, userID string) error {
	const query = `UPDATE tenant_sessions SET active = FALSE WHERE user_id = $1 AND active`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
