package permissions

import (
	"errors"

	"peoplehub/api/internal/models"
)

var (
	ErrPreviewNotSuperAdmin = errors.New("role preview requires superadmin")
	ErrPreviewInvalidRole   = errors.New("role not previewable")
)

// PreviewState is a presentation-state tagged union: either no preview
// is active, or a preview role is shown while the original role stays
// recoverable. It never gates enforcement; permission checks always
// read the original role.
type PreviewState struct {
	Active   bool
	Original models.UserRole
	Preview  models.UserRole
}

// Activate starts a preview for original on target. Only a superadmin
// original may preview, and only roles below superadmin are allowed.
func Activate(original models.UserRole, target models.UserRole) (PreviewState, error) {
	if original != models.UserRoleSuperAdmin {
		return PreviewState{}, ErrPreviewNotSuperAdmin
	}
	if !RolePreviewable(target) {
		return PreviewState{}, ErrPreviewInvalidRole
	}
	return PreviewState{Active: true, Original: original, Preview: target}, nil
}

// Deactivate clears the preview, leaving the original role visible.
func (s PreviewState) Deactivate() PreviewState {
	return PreviewState{}
}

// DisplayRole is the role the UI should render for the given user.
func (s PreviewState) DisplayRole(original models.UserRole) models.UserRole {
	if s.Active {
		return s.Preview
	}
	return original
}
