package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"peoplehub/api/internal/models"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Append(ctx context.Context, entry models.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO audit_log (id, company_id, actor_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = r.pool.Exec(ctx, query,
		entry.ID,
		entry.CompanyID,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		details,
	)
	return err
}

// HasAction reports whether an entry with the given action already
// exists for an entity. Guards the vacation deduction against double
// application when both the API approval path and the database
// trigger fire for the same request.
func (r *AuditRepository) HasAction(ctx context.Context, action string, entityID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM audit_log WHERE action = $1 AND entity_id = $2
		)
	`

	row := r.pool.QueryRow(ctx, query, action, entityID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
