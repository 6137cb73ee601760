package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/config"
	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
)

type fakeTenantSessionStore struct {
	session     *models.TenantSession
	lookupErr   error
	deactivated int
}

func (f *fakeTenantSessionStore) Create(_ context.Context, session models.TenantSession) error {
	f.session = &session
	return nil
}

func (f *fakeTenantSessionStore) LatestActive(_ context.Context, _ string) (models.TenantSession, error) {
	if f.lookupErr != nil {
		return models.TenantSession{}, f.lookupErr
	}
	if f.session == nil || !f.session.Active {
		return models.TenantSession{}, repository.ErrTenantSessionNotFound
	}
	return *f.session, nil
}

func (f *fakeTenantSessionStore) DeactivateAll(_ context.Context, _ string) error {
	if f.session != nil {
		f.session.Active = false
	}
	f.deactivated++
	return nil
}

type fakeCompanyStore struct {
	companies map[string]models.Company
}

func (f *fakeCompanyStore) GetByID(_ context.Context, id string) (models.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return models.Company{}, repository.ErrCompanyNotFound
	}
	return company, nil
}

type fakeScopeCache struct {
	purges []string
}

func (f *fakeScopeCache) InvalidateScope(_ context.Context, scope string) error {
	f.purges = append(f.purges, scope)
	return nil
}

func newTenantFixture(sessions *fakeTenantSessionStore) (*TenantService, *fakeScopeCache) {
	cache := &fakeScopeCache{}
	companies := &fakeCompanyStore{companies: map[string]models.Company{
		"acme": {ID: "acme", Name: "ACME", Status: models.CompanyStatusActive},
	}}
	cfg := &config.AppConfig{Tenant: config.TenantConfig{SessionTTL: 8 * time.Hour}}
	svc := NewTenantService(sessions, companies, cache, &fakeAuditStore{}, cfg, zerolog.Nop())
	return svc, cache
}

func superadmin() models.User {
	return models.User{ID: "sa-1", CompanyID: "hq", Role: models.UserRoleSuperAdmin}
}

func TestEnterTenant_RequiresSuperAdmin(t *testing.T) {
	svc, _ := newTenantFixture(&fakeTenantSessionStore{})

	user := superadmin()
	user.Role = models.UserRoleAdmin
	if _, err := svc.EnterTenant(context.Background(), user, "acme"); !errors.Is(err, ErrNotSuperAdmin) {
		t.Fatalf("err = %v, want ErrNotSuperAdmin", err)
	}
}

func TestEnterTenant_CreatesBoundedSession(t *testing.T) {
	sessions := &fakeTenantSessionStore{}
	svc, cache := newTenantFixture(sessions)

	session, err := svc.EnterTenant(context.Background(), superadmin(), "acme")
	if err != nil {
		t.Fatalf("EnterTenant: %v", err)
	}
	if session.CompanyID != "acme" || !session.Active {
		t.Errorf("session = %+v", session)
	}
	if session.ExpiresAt.Before(time.Now().Add(7 * time.Hour)) {
		t.Errorf("expiry too soon: %v", session.ExpiresAt)
	}
	if len(cache.purges) != 1 {
		t.Errorf("cache purges = %d, want 1", len(cache.purges))
	}
}

func TestCheckExpiry_ExpiredSessionCleansUpOnce(t *testing.T) {
	sessions := &fakeTenantSessionStore{session: &models.TenantSession{
		ID:        "ts-1",
		UserID:    "sa-1",
		CompanyID: "acme",
		Active:    true,
		ExpiresAt: time.Now().Add(-time.Minute),
	}}
	svc, cache := newTenantFixture(sessions)

	if err := svc.CheckExpiry(context.Background(), "sa-1"); !errors.Is(err, ErrTenantSessionExpired) {
		t.Fatalf("err = %v, want ErrTenantSessionExpired", err)
	}
	if len(cache.purges) != 1 {
		t.Errorf("cache purges = %d, want exactly 1", len(cache.purges))
	}
	if sessions.deactivated != 1 {
		t.Errorf("deactivations = %d, want 1", sessions.deactivated)
	}

	// The session was deactivated, so a second navigation must not
	// trigger another cleanup.
	if err := svc.CheckExpiry(context.Background(), "sa-1"); err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(cache.purges) != 1 || sessions.deactivated != 1 {
		t.Errorf("cleanup ran twice: purges=%d deactivations=%d", len(cache.purges), sessions.deactivated)
	}
}

func TestCheckExpiry_LiveSessionNoCleanup(t *testing.T) {
	sessions := &fakeTenantSessionStore{session: &models.TenantSession{
		ID:        "ts-2",
		UserID:    "sa-1",
		CompanyID: "acme",
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	svc, cache := newTenantFixture(sessions)

	if err := svc.CheckExpiry(context.Background(), "sa-1"); err != nil {
		t.Fatalf("CheckExpiry: %v", err)
	}
	if len(cache.purges) != 0 || sessions.deactivated != 0 {
		t.Errorf("cleanup fired for live session: purges=%d deactivations=%d", len(cache.purges), sessions.deactivated)
	}
}

func TestCheckExpiry_LookupErrorSwallowed(t *testing.T) {
	sessions := &fakeTenantSessionStore{lookupErr: errors.New("connection reset")}
	svc, cache := newTenantFixture(sessions)

	if err := svc.CheckExpiry(context.Background(), "sa-1"); err != nil {
		t.Fatalf("lookup error should be swallowed, got %v", err)
	}
	if len(cache.purges) != 0 {
		t.Errorf("cache purged despite lookup error")
	}
}

func TestClearTenantContext_PurgesCacheFirst(t *testing.T) {
	sessions := &fakeTenantSessionStore{session: &models.TenantSession{
		ID:        "ts-3",
		UserID:    "sa-1",
		CompanyID: "acme",
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	svc, cache := newTenantFixture(sessions)

	if err := svc.ClearTenantContext(context.Background(), "sa-1"); err != nil {
		t.Fatalf("ClearTenantContext: %v", err)
	}
	if len(cache.purges) != 1 || cache.purges[0] != "scope:sa-1" {
		t.Errorf("purges = %v", cache.purges)
	}
	if sessions.session.Active {
		t.Error("session still active")
	}
}

func TestEffectiveCompanyID(t *testing.T) {
	sessions := &fakeTenantSessionStore{session: &models.TenantSession{
		ID:        "ts-4",
		UserID:    "sa-1",
		CompanyID: "acme",
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	svc, _ := newTenantFixture(sessions)

	got, err := svc.EffectiveCompanyID(context.Background(), superadmin())
	if err != nil || got != "acme" {
		t.Fatalf("superadmin in tenant: %q, %v", got, err)
	}

	regular := models.User{ID: "u-1", CompanyID: "own-co", Role: models.UserRoleEmployee}
	got, err = svc.EffectiveCompanyID(context.Background(), regular)
	if err != nil || got != "own-co" {
		t.Fatalf("regular user: %q, %v", got, err)
	}

	sessions.session.Active = false
	got, err = svc.EffectiveCompanyID(context.Background(), superadmin())
	if err != nil || got != "hq" {
		t.Fatalf("superadmin outside tenant: %q, %v", got, err)
	}
}
