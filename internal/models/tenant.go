package models

import "time"

type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusSuspended CompanyStatus = "suspended"
)

// Company is one tenant of the shared deployment.
type Company struct {
	ID        string
	Name      string
	Domain    *string
	Status    CompanyStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantSession attaches a superadmin to a single company's data scope
// for a limited time. Expiry is detected lazily on the next request,
// never by a background sweep.
type TenantSession struct {
	ID        string
	UserID    string
	CompanyID string
	Active    bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (ts TenantSession) Expired(now time.Time) bool {
	return ts.ExpiresAt.Before(now)
}
