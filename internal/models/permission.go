package models

import "time"

// PermissionGrant scopes a set of allowed actions on one module to a
// role. Module and action keys are stored canonical; lookups normalize
// caller-supplied spellings before comparing.
type PermissionGrant struct {
	ID          string
	Role        UserRole
	ModuleKey   string
	Actions     []string
	Visible     bool
	NotifyEmail bool
	NotifyPush  bool
	UpdatedAt   time.Time
}
