package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/models"
)

var (
	ErrInvalidDateRange  = errors.New("end date before start date")
	ErrAbsenceNotPending = errors.New("absence request is not pending")
)

const deductionAction = "vacation_deduction"

type AbsenceStore interface {
	Create(ctx context.Context, req models.AbsenceRequest) error
	GetByID(ctx context.Context, companyID string, id string) (models.AbsenceRequest, error)
	ListByCompany(ctx context.Context, companyID string, limit int, offset int) ([]models.AbsenceRequest, error)
	ListByEmployee(ctx context.Context, companyID string, employeeID string, limit int, offset int) ([]models.AbsenceRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.AbsenceStatus, approvedBy *string) error
	SetDocumentKey(ctx context.Context, id string, key string) error
}

type EmployeeStore interface {
	GetByID(ctx context.Context, companyID string, id string) (models.Employee, error)
	UpdateVacationDays(ctx context.Context, id string, days float64) error
}

type AuditStore interface {
	Append(ctx context.Context, entry models.AuditEntry) error
	HasAction(ctx context.Context, action string, entityID string) (bool, error)
}

type DocumentStore interface {
	PutDocument(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	DocumentURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// AbsenceService owns absence requests and the vacation balance: the
// half-day-aware deduction applied on approval, idempotent whether it
// arrives through the API or the database trigger webhook.
type AbsenceService struct {
	absences  AbsenceStore
	employees EmployeeStore
	audit     AuditStore
	documents DocumentStore
	cache     KeyCache
	log       zerolog.Logger
}

func NewAbsenceService(
	absences AbsenceStore,
	employees EmployeeStore,
	audit AuditStore,
	documents DocumentStore,
	cache KeyCache,
	log zerolog.Logger,
) *AbsenceService {
	return &AbsenceService{
		absences:  absences,
		employees: employees,
		audit:     audit,
		documents: documents,
		cache:     cache,
		log:       log,
	}
}

// RequestDays counts the calendar days an absence covers, start
// through end inclusive. A half-day request halves the full span.
func RequestDays(start time.Time, end time.Time, halfDay bool) float64 {
	startDay := start.Truncate(24 * time.Hour)
	endDay := end.Truncate(24 * time.Hour)
	days := float64(endDay.Sub(startDay)/(24*time.Hour)) + 1
	if days < 1 {
		return 0
	}
	if halfDay {
		return days / 2
	}
	return days
}

// DeductBalance returns the vacation balance after deducting days,
// never below zero.
func DeductBalance(balance float64, days float64) float64 {
	remaining := balance - days
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ListRequests returns the company's absence requests, optionally
// narrowed to a single employee. Both branches filter on the company
// id, so an employee id from a foreign tenant yields nothing.
func (s *AbsenceService) ListRequests(ctx context.Context, companyID string, employeeID string, limit int, offset int) ([]models.AbsenceRequest, error) {
	if employeeID != "" {
		return s.absences.ListByEmployee(ctx, companyID, employeeID, limit, offset)
	}
	return s.absences.ListByCompany(ctx, companyID, limit, offset)
}

type CreateAbsenceInput struct {
	CompanyID  string
	EmployeeID string
	Type       models.AbsenceType
	StartDate  time.Time
	EndDate    time.Time
	HalfDay    bool
	Reason     string
}

func (s *AbsenceService) CreateRequest(ctx context.Context, input CreateAbsenceInput) (models.AbsenceRequest, error) {
	if input.EndDate.Before(input.StartDate) {
		return models.AbsenceRequest{}, ErrInvalidDateRange
	}
	if _, err := s.employees.GetByID(ctx, input.CompanyID, input.EmployeeID); err != nil {
		return models.AbsenceRequest{}, err
	}

	req := models.AbsenceRequest{
		ID:         ids.New(),
		CompanyID:  input.CompanyID,
		EmployeeID: input.EmployeeID,
		Type:       input.Type,
		Status:     models.AbsenceStatusPending,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		HalfDay:    input.HalfDay,
		Reason:     input.Reason,
	}
	if err := s.absences.Create(ctx, req); err != nil {
		return models.AbsenceRequest{}, err
	}

	if err := s.cache.Invalidate(ctx, "absence:"+req.ID); err != nil {
		s.log.Warn().Err(err).Str("absence_id", req.ID).Msg("cache invalidate failed")
	}
	return req, nil
}

// Decide approves or rejects a pending request. Approval of a
// vacation request applies the balance deduction in-process; the
// database trigger converges on the same method.
func (s *AbsenceService) Decide(ctx context.Context, companyID string, id string, approve bool, actorID string) (models.AbsenceRequest, error) {
	req, err := s.absences.GetByID(ctx, companyID, id)
	if err != nil {
		return models.AbsenceRequest{}, err
	}
	if req.Status != models.AbsenceStatusPending {
		return models.AbsenceRequest{}, ErrAbsenceNotPending
	}

	status := models.AbsenceStatusRejected
	if approve {
		status = models.AbsenceStatusApproved
	}
	if err := s.absences.UpdateStatus(ctx, id, status, &actorID); err != nil {
		return models.AbsenceRequest{}, err
	}
	req.Status = status
	req.ApprovedBy = &actorID

	if approve {
		if err := s.ApplyVacationDeduction(ctx, req); err != nil {
			return models.AbsenceRequest{}, err
		}
	}

	if err := s.cache.Invalidate(ctx, "absence:"+req.ID, "employee:"+req.EmployeeID); err != nil {
		s.log.Warn().Err(err).Str("absence_id", req.ID).Msg("cache invalidate failed")
	}
	return req, nil
}

// ApplyVacationDeduction decrements the employee's vacation balance
// for an approved vacation request. Requests of other types or
// statuses are ignored; a request already deducted (audit guard) is a
// no-op, so the API path and the trigger path cannot double-charge.
func (s *AbsenceService) ApplyVacationDeduction(ctx context.Context, req models.AbsenceRequest) error {
	if req.Type != models.AbsenceTypeVacation || req.Status != models.AbsenceStatusApproved {
		return nil
	}

	done, err := s.audit.HasAction(ctx, deductionAction, req.ID)
	if err != nil {
		return fmt.Errorf("deduction guard: %w", err)
	}
	if done {
		return nil
	}

	employee, err := s.employees.GetByID(ctx, req.CompanyID, req.EmployeeID)
	if err != nil {
		return err
	}

	days := RequestDays(req.StartDate, req.EndDate, req.HalfDay)
	remaining := DeductBalance(employee.VacationDays, days)

	if err := s.employees.UpdateVacationDays(ctx, employee.ID, remaining); err != nil {
		return err
	}

	actor := req.EmployeeID
	if req.ApprovedBy != nil {
		actor = *req.ApprovedBy
	}
	if err := s.audit.Append(ctx, models.AuditEntry{
		ID:         ids.New(),
		CompanyID:  req.CompanyID,
		ActorID:    actor,
		Action:     deductionAction,
		EntityType: "absence_request",
		EntityID:   req.ID,
		Details: map[string]any{
			"days":      days,
			"half_day":  req.HalfDay,
			"remaining": remaining,
		},
	}); err != nil {
		return fmt.Errorf("audit deduction: %w", err)
	}

	s.log.Info().
		Str("absence_id", req.ID).
		Str("employee_id", employee.ID).
		Float64("days", days).
		Float64("remaining", remaining).
		Msg("vacation deduction applied")

	return s.cache.Invalidate(ctx, "employee:"+employee.ID)
}

// AttachDocument stores a sick note (or similar) for the request and
// records the object key.
func (s *AbsenceService) AttachDocument(ctx context.Context, companyID string, id string, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	req, err := s.absences.GetByID(ctx, companyID, id)
	if err != nil {
		return "", err
	}

	key := path.Join("absences", req.ID, filename)
	if _, err := s.documents.PutDocument(ctx, key, reader, size, contentType); err != nil {
		return "", err
	}
	if err := s.absences.SetDocumentKey(ctx, req.ID, key); err != nil {
		return "", err
	}

	if err := s.cache.Invalidate(ctx, "absence:"+req.ID); err != nil {
		s.log.Warn().Err(err).Str("absence_id", req.ID).Msg("cache invalidate failed")
	}
	return key, nil
}

func (s *AbsenceService) DocumentURL(ctx context.Context, companyID string, id string) (string, error) {
	req, err := s.absences.GetByID(ctx, companyID, id)
	if err != nil {
		return "", err
	}
	if req.DocumentKey == nil {
		return "", fmt.Errorf("absence %s has no document", id)
	}
	return s.documents.DocumentURL(ctx, *req.DocumentKey, 15*time.Minute)
}
