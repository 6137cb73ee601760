package models

import "time"

type NotificationType string

const (
	NotificationTypeSickNoteReminder NotificationType = "sick_note_reminder"
	NotificationTypeAbsenceDecision  NotificationType = "absence_decision"
	NotificationTypeSystem           NotificationType = "system"
)

type Notification struct {
	ID          string
	CompanyID   string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	// Level distinguishes reminder escalations (1 = 24h, 2 = 72h) so a
	// sweep can tell whether a given notice was already sent.
	Level     int
	SourceID  *string
	ReadAt    *time.Time
	CreatedAt time.Time
}
