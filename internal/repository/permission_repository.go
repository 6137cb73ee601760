package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

var ErrGrantNotFound = errors.New("permission grant not found")

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.PermissionGrant, error) {
	const query = `
		SELECT id, role, module_key, actions, visible, notify_email, notify_push, updated_at
		FROM role_permissions
		WHERE role = $1
		ORDER BY module_key
	`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []models.PermissionGrant
	for rows.Next() {
		var grant models.PermissionGrant
		if err := rows.Scan(
			&grant.ID,
			&grant.Role,
			&grant.ModuleKey,
			&grant.Actions,
			&grant.Visible,
			&grant.NotifyEmail,
			&grant.NotifyPush,
			&grant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// Upsert stores a grant keyed by (role, module_key). Module keys are
// written canonical; the service normalizes before calling.
func (r *PermissionRepository) Upsert(ctx context.Context, grant models.PermissionGrant) error {
	const query = `
		INSERT INTO role_permissions (id, role, module_key, actions, visible, notify_email, notify_push, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (role, module_key)
		DO UPDATE SET
			actions = EXCLUDED.actions,
			visible = EXCLUDED.visible,
			notify_email = EXCLUDED.notify_email,
			notify_push = EXCLUDED.notify_push,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		grant.ID,
		grant.Role,
		grant.ModuleKey,
		grant.Actions,
		grant.Visible,
		grant.NotifyEmail,
		grant.NotifyPush,
	)
	return err
}

func (r *PermissionRepository) Delete(ctx context.Context, role models.UserRole, moduleKey string) error {
	const query = `DELETE FROM role_permissions WHERE role = $1 AND module_key = $2`
	cmd, err := r.pool.Exec(ctx, query, role, moduleKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrGrantNotFound
	}
	return nil
}
