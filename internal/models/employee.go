package models

import "time"

type Employee struct {
	ID           string
	CompanyID    string
	UserID       string
	FirstName    string
	LastName     string
	Position     string
	Department   string
	VacationDays float64
	IBAN         *string
	BIC          *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
