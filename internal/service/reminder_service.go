package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/models"
)

type NotificationStore interface {
	Create(ctx context.Context, notification models.Notification) error
	ExistsForSource(ctx context.Context, notificationType models.NotificationType, sourceID string, level int) (bool, error)
}

type EmployeeReader interface {
	GetByID(ctx context.Context, companyID string, id string) (models.Employee, error)
}

type HRDirectory interface {
	ListByRole(ctx context.Context, companyID string, role models.UserRole) ([]models.User, error)
}

type SickAbsenceLister interface {
	ListSickWithoutDocument(ctx context.Context, cutoff time.Time) ([]models.AbsenceRequest, error)
}

const (
	reminderLevelFirst      = 1 // 24h: employee
	reminderLevelEscalation = 2 // 72h: employee + HR
)

// ReminderService runs the sick-note sweep: sick absences without a
// document get a notice to the employee after 24h and an escalation
// to employee and HR after 72h. The sweep is idempotent; each level
// is recorded on the notification row it created.
type ReminderService struct {
	absences      SickAbsenceLister
	notifications NotificationStore
	employees     EmployeeReader
	users         HRDirectory
	log           zerolog.Logger
	now           func() time.Time
}

func NewReminderService(
	absences SickAbsenceLister,
	notifications NotificationStore,
	employees EmployeeReader,
	users HRDirectory,
	log zerolog.Logger,
) *ReminderService {
	return &ReminderService{
		absences:      absences,
		notifications: notifications,
		employees:     employees,
		users:         users,
		log:           log,
		now:           time.Now,
	}
}

// SweepSickNotes scans for missing-document sick absences past the
// 24h/72h thresholds and inserts the outstanding notification rows.
// Returns how many notifications were created.
func (s *ReminderService) SweepSickNotes(ctx context.Context) (int, error) {
	now := s.now()
	requests, err := s.absences.ListSickWithoutDocument(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("list sick absences: %w", err)
	}

	created := 0
	for _, req := range requests {
		age := now.Sub(req.CreatedAt)

		n, err := s.remindAt(ctx, req, reminderLevelFirst)
		if err != nil {
			s.log.Error().Err(err).Str("absence_id", req.ID).Msg("first reminder failed")
			continue
		}
		created += n

		if age >= 72*time.Hour {
			n, err := s.remindAt(ctx, req, reminderLevelEscalation)
			if err != nil {
				s.log.Error().Err(err).Str("absence_id", req.ID).Msg("escalation reminder failed")
				continue
			}
			created += n
		}
	}

	s.log.Info().Int("notifications", created).Int("candidates", len(requests)).Msg("sick note sweep done")
	return created, nil
}

func (s *ReminderService) remindAt(ctx context.Context, req models.AbsenceRequest, level int) (int, error) {
	exists, err := s.notifications.ExistsForSource(ctx, models.NotificationTypeSickNoteReminder, req.ID, level)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	employee, err := s.employees.GetByID(ctx, req.CompanyID, req.EmployeeID)
	if err != nil {
		return 0, err
	}

	recipients := []string{employee.UserID}
	if level == reminderLevelEscalation {
		hrUsers, err := s.users.ListByRole(ctx, req.CompanyID, models.UserRoleHRAdmin)
		if err != nil {
			return 0, err
		}
		for _, hr := range hrUsers {
			recipients = append(recipients, hr.ID)
		}
	}

	title := "Krankmeldung: Attest fehlt"
	message := "Für Ihre Krankmeldung liegt noch kein Attest vor. Bitte reichen Sie das Dokument nach."
	if level == reminderLevelEscalation {
		message = fmt.Sprintf("Für die Krankmeldung von %s %s fehlt seit über 72 Stunden das Attest.", employee.FirstName, employee.LastName)
	}

	created := 0
	sourceID := req.ID
	for _, recipient := range recipients {
		if err := s.notifications.Create(ctx, models.Notification{
			ID:          ids.New(),
			CompanyID:   req.CompanyID,
			RecipientID: recipient,
			Type:        models.NotificationTypeSickNoteReminder,
			Title:       title,
			Message:     message,
			Level:       level,
			SourceID:    &sourceID,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
