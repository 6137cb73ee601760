package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"peoplehub/api/internal/config"
	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
)

var (
	ErrNotSuperAdmin         = errors.New("tenant scope requires superadmin")
	ErrTenantSessionExpired  = errors.New("tenant session expired")
	ErrCompanyNotActive      = errors.New("company is not active")
	ErrNoActiveTenantSession = errors.New("no active tenant session")
)

type TenantSessionStore interface {
	Create(ctx context.Context, session models.TenantSession) error
	LatestActive(ctx context.Context, userID string) (models.TenantSession, error)
	DeactivateAll(ctx context.Context, userID string) error
}

type CompanyStore interface {
	GetByID(ctx context.Context, id string) (models.Company, error)
}

// ScopeCache is the slice of the cache store the tenant lifecycle
// needs: purging everything a user's tenant scope may have cached.
type ScopeCache interface {
	InvalidateScope(ctx context.Context, scope string) error
}

type AuditAppender interface {
	Append(ctx context.Context, entry models.AuditEntry) error
}

// TenantService owns the superadmin tenant-session lifecycle: entering
// a company scope, lazy expiry detection, and leaving with a
// guaranteed cache purge so no tenant-scoped data survives.
type TenantService struct {
	sessions  TenantSessionStore
	companies CompanyStore
	cache     ScopeCache
	audit     AuditAppender
	cfg       *config.AppConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewTenantService(
	sessions TenantSessionStore,
	companies CompanyStore,
	cache ScopeCache,
	audit AuditAppender,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *TenantService {
	return &TenantService{
		sessions:  sessions,
		companies: companies,
		cache:     cache,
		audit:     audit,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// EnterTenant attaches a superadmin to a company scope until the
// configured TTL runs out. Any cached data from a previous scope is
// purged before the new session becomes visible.
func (s *TenantService) EnterTenant(ctx context.Context, user models.User, companyID string) (models.TenantSession, error) {
	if user.Role != models.UserRoleSuperAdmin {
		return models.TenantSession{}, ErrNotSuperAdmin
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return models.TenantSession{}, err
	}
	if company.Status != models.CompanyStatusActive {
		return models.TenantSession{}, ErrCompanyNotActive
	}

	if err := s.cache.InvalidateScope(ctx, scopeKey(user.ID)); err != nil {
		return models.TenantSession{}, fmt.Errorf("purge scope cache: %w", err)
	}

	session := models.TenantSession{
		ID:        ids.New(),
		UserID:    user.ID,
		CompanyID: companyID,
		Active:    true,
		ExpiresAt: s.now().Add(s.cfg.Tenant.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return models.TenantSession{}, err
	}

	if err := s.audit.Append(ctx, models.AuditEntry{
		ID:         ids.New(),
		CompanyID:  companyID,
		ActorID:    user.ID,
		Action:     "tenant_enter",
		EntityType: "company",
		EntityID:   companyID,
	}); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("audit tenant enter failed")
	}

	return session, nil
}

// CheckExpiry detects a stale tenant session lazily. An expired
// session triggers exactly one cleanup (cache purge + deactivation)
// and returns ErrTenantSessionExpired so the HTTP layer can tell the
// client to leave the tenant view. Lookup failures are logged and
// swallowed; the session stays as-is until the next check.
func (s *TenantService) CheckExpiry(ctx context.Context, userID string) error {
	session, err := s.sessions.LatestActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantSessionNotFound) {
			return nil
		}
		s.log.Error().Err(err).Str("user_id", userID).Msg("tenant session lookup failed")
		return nil
	}

	if !session.Expired(s.now()) {
		return nil
	}

	if err := s.cache.InvalidateScope(ctx, scopeKey(userID)); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("scope cache purge failed")
	}
	if err := s.sessions.DeactivateAll(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("deactivate expired tenant session failed")
	}

	return ErrTenantSessionExpired
}

// ClearTenantContext leaves the current tenant. The cache purge runs
// first and unconditionally: even if the session rows cannot be
// cleared remotely, no tenant-scoped cached data survives.
func (s *TenantService) ClearTenantContext(ctx context.Context, userID string) error {
	if err := s.cache.InvalidateScope(ctx, scopeKey(userID)); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("scope cache purge failed")
	}

	if err := s.sessions.DeactivateAll(ctx, userID); err != nil {
		return fmt.Errorf("clear tenant context: %w", err)
	}
	return nil
}

// CurrentSession returns the live tenant session, if any.
func (s *TenantService) CurrentSession(ctx context.Context, userID string) (models.TenantSession, error) {
	session, err := s.sessions.LatestActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTenantSessionNotFound) {
			return models.TenantSession{}, ErrNoActiveTenantSession
		}
		return models.TenantSession{}, err
	}
	if session.Expired(s.now()) {
		return models.TenantSession{}, ErrNoActiveTenantSession
	}
	return session, nil
}

// EffectiveCompanyID resolves which company scope the user operates
// under: a superadmin inside a live tenant session works in that
// company, everyone else in their own.
func (s *TenantService) EffectiveCompanyID(ctx context.Context, user models.User) (string, error) {
	if user.Role != models.UserRoleSuperAdmin {
		return user.CompanyID, nil
	}

	session, err := s.CurrentSession(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrNoActiveTenantSession) {
			return user.CompanyID, nil
		}
		return "", err
	}
	return session.CompanyID, nil
}

func scopeKey(userID string) string {
	return "scope:" + userID
}
