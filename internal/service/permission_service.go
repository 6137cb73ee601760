package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/models"
	"peoplehub/api/internal/permissions"
)

type GrantStore interface {
	ListByRole(ctx context.Context, role models.UserRole) ([]models.PermissionGrant, error)
	Upsert(ctx context.Context, grant models.PermissionGrant) error
	Delete(ctx context.Context, role models.UserRole, moduleKey string) error
}

// KeyCache is the keyed Get/Set/Invalidate slice of the cache store.
type KeyCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

const grantCacheTTL = 5 * time.Minute

// PermissionService resolves grants through the key normalizer and
// keeps the superadmin role-preview state. Preview is presentation
// only: enforcement always reads the original role.
type PermissionService struct {
	grants     GrantStore
	cache      KeyCache
	previewTTL time.Duration
	log        zerolog.Logger
}

func NewPermissionService(grants GrantStore, cache KeyCache, previewTTL time.Duration, log zerolog.Logger) *PermissionService {
	return &PermissionService{
		grants:     grants,
		cache:      cache,
		previewTTL: previewTTL,
		log:        log,
	}
}

// GrantsForRole returns the role's grants, cached under perms:<role>.
// Cache failures degrade to a direct read.
func (s *PermissionService) GrantsForRole(ctx context.Context, role models.UserRole) ([]models.PermissionGrant, error) {
	cacheKey := "perms:" + string(role)

	if raw, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
		var grants []models.PermissionGrant
		if err := json.Unmarshal(raw, &grants); err == nil {
			return grants, nil
		}
	} else if err != nil {
		s.log.Warn().Err(err).Str("role", string(role)).Msg("grant cache read failed")
	}

	grants, err := s.grants.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(grants); err == nil {
		if err := s.cache.Set(ctx, cacheKey, raw, grantCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("role", string(role)).Msg("grant cache write failed")
		}
	}

	return grants, nil
}

// Can reports whether the role may perform the action on the module.
// Both keys are normalized before comparison, so spelling variants of
// the same capability always resolve to the same answer.
func (s *PermissionService) Can(ctx context.Context, role models.UserRole, moduleKey string, actionKey string) (bool, error) {
	if role == models.UserRoleSuperAdmin {
		return true, nil
	}

	grants, err := s.GrantsForRole(ctx, role)
	if err != nil {
		return false, err
	}

	action := permissions.NormalizeActionKey(actionKey)
	for _, grant := range grants {
		if !permissions.ModuleKeysMatch(grant.ModuleKey, moduleKey) {
			continue
		}
		for _, allowed := range grant.Actions {
			if permissions.NormalizeActionKey(allowed) == action {
				return true, nil
			}
		}
	}
	return false, nil
}

// UpdateGrant writes a grant with canonical keys and invalidates the
// role's cached grants through the dependency graph.
func (s *PermissionService) UpdateGrant(ctx context.Context, grant models.PermissionGrant) error {
	grant.ModuleKey = permissions.NormalizeModuleKey(grant.ModuleKey)
	normalized := make([]string, 0, len(grant.Actions))
	for _, action := range grant.Actions {
		normalized = append(normalized, permissions.NormalizeActionKey(action))
	}
	grant.Actions = normalized
	if grant.ID == "" {
		grant.ID = ids.New()
	}

	if err := s.grants.Upsert(ctx, grant); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, "perms:"+string(grant.Role))
}

// RemoveGrant deletes a role's grant for a module, resolving spelling
// variants to the canonical module key first.
func (s *PermissionService) RemoveGrant(ctx context.Context, role models.UserRole, moduleKey string) error {
	if err := s.grants.Delete(ctx, role, permissions.NormalizeModuleKey(moduleKey)); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, "perms:"+string(role))
}

func previewKey(sessionID string) string {
	return "preview:" + sessionID
}

// ActivatePreview starts a role preview for the auth session. Only a
// user whose original role is superadmin may preview. The stored state
// expires with the session lifetime, so it cannot outlive a session
// that was never explicitly deactivated.
func (s *PermissionService) ActivatePreview(ctx context.Context, sessionID string, original models.UserRole, target models.UserRole) (permissions.PreviewState, error) {
	state, err := permissions.Activate(original, target)
	if err != nil {
		return permissions.PreviewState{}, err
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return permissions.PreviewState{}, err
	}
	if err := s.cache.Set(ctx, previewKey(sessionID), raw, s.previewTTL); err != nil {
		return permissions.PreviewState{}, err
	}
	return state, nil
}

func (s *PermissionService) DeactivatePreview(ctx context.Context, sessionID string) error {
	return s.cache.Invalidate(ctx, previewKey(sessionID))
}

// PreviewFor returns the stored preview state for the session, or the
// zero state when none is active.
func (s *PermissionService) PreviewFor(ctx context.Context, sessionID string) (permissions.PreviewState, error) {
	raw, ok, err := s.cache.Get(ctx, previewKey(sessionID))
	if err != nil {
		return permissions.PreviewState{}, err
	}
	if !ok {
		return permissions.PreviewState{}, nil
	}

	var state permissions.PreviewState
	if err := json.Unmarshal(raw, &state); err != nil {
		return permissions.PreviewState{}, err
	}
	return state, nil
}
