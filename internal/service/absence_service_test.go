package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
)

type fakeEmployeeStore struct {
	employees map[string]models.Employee
	updates   []float64
}

func (f *fakeEmployeeStore) GetByID(_ context.Context, _ string, id string) (models.Employee, error) {
	return f.employees[id], nil
}

func (f *fakeEmployeeStore) UpdateVacationDays(_ context.Context, id string, days float64) error {
	employee := f.employees[id]
	employee.VacationDays = days
	f.employees[id] = employee
	f.updates = append(f.updates, days)
	return nil
}

type fakeAuditStore struct {
	entries []models.AuditEntry
}

func (f *fakeAuditStore) Append(_ context.Context, entry models.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) HasAction(_ context.Context, action string, entityID string) (bool, error) {
	for _, entry := range f.entries {
		if entry.Action == action && entry.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

type fakeKeyCache struct {
	data        map[string][]byte
	ttls        map[string]time.Duration
	invalidated []string
}

func newFakeKeyCache() *fakeKeyCache {
	return &fakeKeyCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeKeyCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKeyCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKeyCache) Invalidate(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		f.invalidated = append(f.invalidated, key)
	}
	return nil
}

type fakeAbsenceStore struct {
	requests []models.AbsenceRequest
}

func (f *fakeAbsenceStore) Create(_ context.Context, req models.AbsenceRequest) error {
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeAbsenceStore) GetByID(_ context.Context, companyID string, id string) (models.AbsenceRequest, error) {
	for _, req := range f.requests {
		if req.CompanyID == companyID && req.ID == id {
			return req, nil
		}
	}
	return models.AbsenceRequest{}, repository.ErrAbsenceNotFound
}

func (f *fakeAbsenceStore) ListByCompany(_ context.Context, companyID string, _ int, _ int) ([]models.AbsenceRequest, error) {
	var out []models.AbsenceRequest
	for _, req := range f.requests {
		if req.CompanyID == companyID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeAbsenceStore) ListByEmployee(_ context.Context, companyID string, employeeID string, _ int, _ int) ([]models.AbsenceRequest, error) {
	var out []models.AbsenceRequest
	for _, req := range f.requests {
		if req.CompanyID == companyID && req.EmployeeID == employeeID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeAbsenceStore) UpdateStatus(_ context.Context, id string, status models.AbsenceStatus, approvedBy *string) error {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].Status = status
			f.requests[i].ApprovedBy = approvedBy
			return nil
		}
	}
	return repository.ErrAbsenceNotFound
}

func (f *fakeAbsenceStore) SetDocumentKey(_ context.Context, id string, key string) error {
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests[i].DocumentKey = &key
			return nil
		}
	}
	return repository.ErrAbsenceNotFound
}

func date(day int) time.Time {
	return time.Date(2026, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestRequestDays(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		halfDay bool
		want    float64
	}{
		{"single day", 1, 1, false, 1},
		{"five days inclusive", 1, 5, false, 5},
		{"five days half", 1, 5, true, 2.5},
		{"single half day", 3, 3, true, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequestDays(date(tc.start), date(tc.end), tc.halfDay); got != tc.want {
				t.Errorf("RequestDays = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDeductBalance_NeverNegative(t *testing.T) {
	if got := DeductBalance(2, 5); got != 0 {
		t.Errorf("DeductBalance(2, 5) = %v, want 0", got)
	}
	if got := DeductBalance(20, 5); got != 15 {
		t.Errorf("DeductBalance(20, 5) = %v, want 15", got)
	}
}

// A caller scoped to one company must never see another tenant's rows,
// even when filtering by an employee id that belongs to that tenant.
func TestListRequests_EmployeeFilterStaysCompanyScoped(t *testing.T) {
	absences := &fakeAbsenceStore{requests: []models.AbsenceRequest{
		{ID: "abs-a", CompanyID: "acme", EmployeeID: "emp-1", Type: models.AbsenceTypeVacation},
		{ID: "abs-b", CompanyID: "globex", EmployeeID: "emp-9", Type: models.AbsenceTypeSick, Reason: "confidential"},
	}}
	svc := NewAbsenceService(absences, nil, nil, nil, newFakeKeyCache(), zerolog.Nop())
	ctx := context.Background()

	got, err := svc.ListRequests(ctx, "acme", "emp-9", 50, 0)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("foreign employee filter returned %d rows, want 0", len(got))
	}

	got, err = svc.ListRequests(ctx, "acme", "emp-1", 50, 0)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abs-a" {
		t.Errorf("own employee filter = %+v, want [abs-a]", got)
	}

	got, err = svc.ListRequests(ctx, "globex", "", 50, 0)
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abs-b" {
		t.Errorf("company listing = %+v, want [abs-b]", got)
	}
}

func approvedVacation(id string, start int, end int, halfDay bool) models.AbsenceRequest {
	approver := "hr-1"
	return models.AbsenceRequest{
		ID:         id,
		CompanyID:  "acme",
		EmployeeID: "emp-1",
		Type:       models.AbsenceTypeVacation,
		Status:     models.AbsenceStatusApproved,
		StartDate:  date(start),
		EndDate:    date(end),
		HalfDay:    halfDay,
		ApprovedBy: &approver,
	}
}

func newDeductionFixture(balance float64) (*AbsenceService, *fakeEmployeeStore, *fakeAuditStore) {
	employees := &fakeEmployeeStore{employees: map[string]models.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "acme", UserID: "user-1", VacationDays: balance},
	}}
	audit := &fakeAuditStore{}
	svc := NewAbsenceService(nil, employees, audit, nil, newFakeKeyCache(), zerolog.Nop())
	return svc, employees, audit
}

func TestApplyVacationDeduction_FullDays(t *testing.T) {
	svc, employees, audit := newDeductionFixture(20)

	if err := svc.ApplyVacationDeduction(context.Background(), approvedVacation("abs-1", 1, 5, false)); err != nil {
		t.Fatalf("ApplyVacationDeduction: %v", err)
	}

	if got := employees.employees["emp-1"].VacationDays; got != 15 {
		t.Errorf("balance = %v, want 15", got)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.entries))
	}
	if audit.entries[0].Action != "vacation_deduction" {
		t.Errorf("audit action = %q", audit.entries[0].Action)
	}
}

func TestApplyVacationDeduction_HalfDays(t *testing.T) {
	svc, employees, _ := newDeductionFixture(20)

	if err := svc.ApplyVacationDeduction(context.Background(), approvedVacation("abs-2", 1, 5, true)); err != nil {
		t.Fatalf("ApplyVacationDeduction: %v", err)
	}

	if got := employees.employees["emp-1"].VacationDays; got != 17.5 {
		t.Errorf("balance = %v, want 17.5", got)
	}
}

func TestApplyVacationDeduction_FlooredAtZero(t *testing.T) {
	svc, employees, _ := newDeductionFixture(2)

	if err := svc.ApplyVacationDeduction(context.Background(), approvedVacation("abs-3", 1, 5, false)); err != nil {
		t.Fatalf("ApplyVacationDeduction: %v", err)
	}

	if got := employees.employees["emp-1"].VacationDays; got != 0 {
		t.Errorf("balance = %v, want 0", got)
	}
}

func TestApplyVacationDeduction_Idempotent(t *testing.T) {
	svc, employees, audit := newDeductionFixture(20)
	req := approvedVacation("abs-4", 1, 5, false)

	for i := 0; i < 3; i++ {
		if err := svc.ApplyVacationDeduction(context.Background(), req); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if got := employees.employees["emp-1"].VacationDays; got != 15 {
		t.Errorf("balance after repeated application = %v, want 15", got)
	}
	if len(audit.entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(audit.entries))
	}
}

func TestApplyVacationDeduction_IgnoresOtherTypes(t *testing.T) {
	svc, employees, audit := newDeductionFixture(20)

	sick := approvedVacation("abs-5", 1, 5, false)
	sick.Type = models.AbsenceTypeSick
	pending := approvedVacation("abs-6", 1, 5, false)
	pending.Status = models.AbsenceStatusPending

	for _, req := range []models.AbsenceRequest{sick, pending} {
		if err := svc.ApplyVacationDeduction(context.Background(), req); err != nil {
			t.Fatalf("ApplyVacationDeduction(%s): %v", req.ID, err)
		}
	}

	if got := employees.employees["emp-1"].VacationDays; got != 20 {
		t.Errorf("balance = %v, want 20 untouched", got)
	}
	if len(audit.entries) != 0 {
		t.Errorf("audit entries = %d, want 0", len(audit.entries))
	}
}
