package models

import "time"

type AuditEntry struct {
	ID         string
	CompanyID  string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	CreatedAt  time.Time
}
