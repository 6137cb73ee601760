package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/models"
)

type fakeNotificationStore struct {
	created []models.Notification
}

func (f *fakeNotificationStore) Create(_ context.Context, notification models.Notification) error {
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationStore) ExistsForSource(_ context.Context, notificationType models.NotificationType, sourceID string, level int) (bool, error) {
	for _, n := range f.created {
		if n.Type == notificationType && n.SourceID != nil && *n.SourceID == sourceID && n.Level == level {
			return true, nil
		}
	}
	return false, nil
}

type fakeSickLister struct {
	requests []models.AbsenceRequest
}

func (f *fakeSickLister) ListSickWithoutDocument(_ context.Context, cutoff time.Time) ([]models.AbsenceRequest, error) {
	var out []models.AbsenceRequest
	for _, req := range f.requests {
		if !req.CreatedAt.After(cutoff) {
			out = append(out, req)
		}
	}
	return out, nil
}

type fakeHRDirectory struct {
	hr []models.User
}

func (f *fakeHRDirectory) ListByRole(_ context.Context, _ string, role models.UserRole) ([]models.User, error) {
	if role == models.UserRoleHRAdmin {
		return f.hr, nil
	}
	return nil, nil
}

func sickRequest(id string, age time.Duration, now time.Time) models.AbsenceRequest {
	return models.AbsenceRequest{
		ID:         id,
		CompanyID:  "acme",
		EmployeeID: "emp-1",
		Type:       models.AbsenceTypeSick,
		Status:     models.AbsenceStatusPending,
		CreatedAt:  now.Add(-age),
	}
}

func newReminderFixture(requests []models.AbsenceRequest, now time.Time) (*ReminderService, *fakeNotificationStore) {
	notifications := &fakeNotificationStore{}
	employees := &fakeEmployeeStore{employees: map[string]models.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "acme", UserID: "user-1", FirstName: "Erika", LastName: "Muster"},
	}}
	users := &fakeHRDirectory{hr: []models.User{{ID: "hr-user-1", Role: models.UserRoleHRAdmin}}}

	svc := NewReminderService(&fakeSickLister{requests: requests}, notifications, employees, users, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, notifications
}

func TestSweepSickNotes_FirstReminderAfter24h(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, notifications := newReminderFixture([]models.AbsenceRequest{
		sickRequest("abs-1", 30*time.Hour, now),
	}, now)

	created, err := svc.SweepSickNotes(context.Background())
	if err != nil {
		t.Fatalf("SweepSickNotes: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}
	n := notifications.created[0]
	if n.RecipientID != "user-1" || n.Level != 1 {
		t.Errorf("notification = %+v", n)
	}
}

func TestSweepSickNotes_EscalationAfter72h(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, notifications := newReminderFixture([]models.AbsenceRequest{
		sickRequest("abs-2", 80*time.Hour, now),
	}, now)

	created, err := svc.SweepSickNotes(context.Background())
	if err != nil {
		t.Fatalf("SweepSickNotes: %v", err)
	}
	// First notice to the employee plus escalation to employee and HR.
	if created != 3 {
		t.Fatalf("created = %d, want 3", created)
	}

	recipients := make(map[string]int)
	for _, n := range notifications.created {
		recipients[n.RecipientID]++
	}
	if recipients["hr-user-1"] != 1 {
		t.Errorf("hr notifications = %d, want 1", recipients["hr-user-1"])
	}
}

func TestSweepSickNotes_Idempotent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, notifications := newReminderFixture([]models.AbsenceRequest{
		sickRequest("abs-3", 80*time.Hour, now),
	}, now)

	for i := 0; i < 3; i++ {
		if _, err := svc.SweepSickNotes(context.Background()); err != nil {
			t.Fatalf("sweep %d: %v", i, err)
		}
	}
	if len(notifications.created) != 3 {
		t.Errorf("notifications = %d after repeated sweeps, want 3", len(notifications.created))
	}
}

func TestSweepSickNotes_YoungRequestSkipped(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, notifications := newReminderFixture([]models.AbsenceRequest{
		sickRequest("abs-4", 10*time.Hour, now),
	}, now)

	created, err := svc.SweepSickNotes(context.Background())
	if err != nil {
		t.Fatalf("SweepSickNotes: %v", err)
	}
	if created != 0 || len(notifications.created) != 0 {
		t.Errorf("young request produced notifications: %d", len(notifications.created))
	}
}
