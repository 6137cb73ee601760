package models

import "time"

type AbsenceType string

const (
	AbsenceTypeVacation AbsenceType = "vacation"
	AbsenceTypeSick     AbsenceType = "sick"
	AbsenceTypeUnpaid   AbsenceType = "unpaid"
	AbsenceTypeSpecial  AbsenceType = "special"
)

type AbsenceStatus string

const (
	AbsenceStatusPending   AbsenceStatus = "pending"
	AbsenceStatusApproved  AbsenceStatus = "approved"
	AbsenceStatusRejected  AbsenceStatus = "rejected"
	AbsenceStatusCancelled AbsenceStatus = "cancelled"
)

// AbsenceRequest covers start through end date inclusive. HalfDay
// halves the counted days across the whole span.
type AbsenceRequest struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Type        AbsenceType
	Status      AbsenceStatus
	StartDate   time.Time
	EndDate     time.Time
	HalfDay     bool
	Reason      string
	DocumentKey *string
	ApprovedBy  *string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
