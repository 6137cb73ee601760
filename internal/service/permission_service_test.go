package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/permissions"
)

type fakeGrantStore struct {
	grants map[models.UserRole][]models.PermissionGrant
	reads  int
}

func (f *fakeGrantStore) ListByRole(_ context.Context, role models.UserRole) ([]models.PermissionGrant, error) {
	f.reads++
	return f.grants[role], nil
}

func (f *fakeGrantStore) Upsert(_ context.Context, grant models.PermissionGrant) error {
	f.grants[grant.Role] = append(f.grants[grant.Role], grant)
	return nil
}

func (f *fakeGrantStore) Delete(_ context.Context, role models.UserRole, moduleKey string) error {
	kept := f.grants[role][:0]
	for _, grant := range f.grants[role] {
		if grant.ModuleKey != moduleKey {
			kept = append(kept, grant)
		}
	}
	f.grants[role] = kept
	return nil
}

const testSessionTTL = 12 * time.Hour

func newPermissionFixture() (*PermissionService, *fakeGrantStore, *fakeKeyCache) {
	grants := &fakeGrantStore{grants: map[models.UserRole][]models.PermissionGrant{
		models.UserRoleTeamLead: {
			{Role: models.UserRoleTeamLead, ModuleKey: "knowledge_hub", Actions: []string{"view", "edit"}, Visible: true},
			{Role: models.UserRoleTeamLead, ModuleKey: "absences", Actions: []string{"view", "approve"}, Visible: true},
		},
	}}
	cache := newFakeKeyCache()
	return NewPermissionService(grants, cache, testSessionTTL, zerolog.Nop()), grants, cache
}

func TestCan_SpellingInsensitive(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	ctx := context.Background()

	tests := []struct {
		module string
		action string
		want   bool
	}{
		{"knowledge-hub", "read", true},
		{"Wissensdatenbank", "manage", true},
		{"knowledge_hub", "edit", true},
		{"knowledge-hub", "delete", false},
		{"Abwesenheiten", "approve", true},
		{"urlaub", "view", true},
		{"payroll", "view", false},
	}
	for _, tc := range tests {
		got, err := svc.Can(ctx, models.UserRoleTeamLead, tc.module, tc.action)
		if err != nil {
			t.Fatalf("Can(%s, %s): %v", tc.module, tc.action, err)
		}
		if got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.module, tc.action, got, tc.want)
		}
	}
}

func TestCan_SuperAdminAlwaysAllowed(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	ok, err := svc.Can(context.Background(), models.UserRoleSuperAdmin, "anything", "delete")
	if err != nil || !ok {
		t.Fatalf("superadmin: %v, %v", ok, err)
	}
}

func TestGrantsForRole_Cached(t *testing.T) {
	svc, grants, _ := newPermissionFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.GrantsForRole(ctx, models.UserRoleTeamLead); err != nil {
			t.Fatalf("GrantsForRole: %v", err)
		}
	}
	if grants.reads != 1 {
		t.Errorf("store reads = %d, want 1 (rest from cache)", grants.reads)
	}
}

func TestUpdateGrant_NormalizesAndInvalidates(t *testing.T) {
	svc, grants, cache := newPermissionFixture()
	ctx := context.Background()

	// Warm the cache.
	if _, err := svc.GrantsForRole(ctx, models.UserRoleTeamLead); err != nil {
		t.Fatalf("warm: %v", err)
	}

	err := svc.UpdateGrant(ctx, models.PermissionGrant{
		Role:      models.UserRoleTeamLead,
		ModuleKey: "Zeiterfassung",
		Actions:   []string{"read", "manage"},
		Visible:   true,
	})
	if err != nil {
		t.Fatalf("UpdateGrant: %v", err)
	}

	stored := grants.grants[models.UserRoleTeamLead]
	last := stored[len(stored)-1]
	if last.ModuleKey != "time_tracking" {
		t.Errorf("stored module key = %q, want time_tracking", last.ModuleKey)
	}
	if last.Actions[0] != "view" || last.Actions[1] != "edit" {
		t.Errorf("stored actions = %v", last.Actions)
	}

	if _, ok := cache.data["perms:team_lead"]; ok {
		t.Error("cached grants not invalidated")
	}
}

func TestRemoveGrant_NormalizesAndInvalidates(t *testing.T) {
	svc, grants, cache := newPermissionFixture()
	ctx := context.Background()

	// Warm the cache.
	if _, err := svc.GrantsForRole(ctx, models.UserRoleTeamLead); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// German alias resolves to the canonical knowledge_hub key.
	if err := svc.RemoveGrant(ctx, models.UserRoleTeamLead, "Wissensdatenbank"); err != nil {
		t.Fatalf("RemoveGrant: %v", err)
	}

	for _, grant := range grants.grants[models.UserRoleTeamLead] {
		if grant.ModuleKey == "knowledge_hub" {
			t.Error("knowledge_hub grant still present after removal")
		}
	}
	if _, ok := cache.data["perms:team_lead"]; ok {
		t.Error("cached grants not invalidated")
	}
}

// Preview state must not outlive the auth session it belongs to.
func TestActivatePreview_ExpiresWithSession(t *testing.T) {
	svc, _, cache := newPermissionFixture()

	if _, err := svc.ActivatePreview(context.Background(), "sess-ttl", models.UserRoleSuperAdmin, models.UserRoleEmployee); err != nil {
		t.Fatalf("ActivatePreview: %v", err)
	}

	if got := cache.ttls["preview:sess-ttl"]; got != testSessionTTL {
		t.Errorf("preview ttl = %v, want %v", got, testSessionTTL)
	}
}

func TestPreviewLifecycle(t *testing.T) {
	svc, _, _ := newPermissionFixture()
	ctx := context.Background()

	if _, err := svc.ActivatePreview(ctx, "sess-1", models.UserRoleAdmin, models.UserRoleEmployee); !errors.Is(err, permissions.ErrPreviewNotSuperAdmin) {
		t.Fatalf("non-superadmin preview: err = %v", err)
	}

	state, err := svc.ActivatePreview(ctx, "sess-1", models.UserRoleSuperAdmin, models.UserRoleTeamLead)
	if err != nil {
		t.Fatalf("ActivatePreview: %v", err)
	}
	if !state.Active || state.Preview != models.UserRoleTeamLead {
		t.Errorf("state = %+v", state)
	}

	loaded, err := svc.PreviewFor(ctx, "sess-1")
	if err != nil {
		t.Fatalf("PreviewFor: %v", err)
	}
	if !loaded.Active || loaded.Original != models.UserRoleSuperAdmin {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := svc.DeactivatePreview(ctx, "sess-1"); err != nil {
		t.Fatalf("DeactivatePreview: %v", err)
	}
	cleared, err := svc.PreviewFor(ctx, "sess-1")
	if err != nil {
		t.Fatalf("PreviewFor after deactivate: %v", err)
	}
	if cleared.Active {
		t.Error("preview still active after deactivation")
	}
}
