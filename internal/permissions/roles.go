package permissions

import (
	"fmt"

	"peoplehub/api/internal/models"
)

// roleLabels holds the German display names shown throughout the
// product.
var roleLabels = map[models.UserRole]string{
	models.UserRoleEmployee:   "Mitarbeiter",
	models.UserRoleTeamLead:   "Teamleiter",
	models.UserRoleHRAdmin:    "HR-Administrator",
	models.UserRoleAdmin:      "Administrator",
	models.UserRoleSuperAdmin: "Super-Administrator",
}

// PreviewableRoles is the set a superadmin may impersonate in the UI.
// Superadmin itself is excluded; leaving the preview restores it.
var PreviewableRoles = []models.UserRole{
	models.UserRoleEmployee,
	models.UserRoleTeamLead,
	models.UserRoleHRAdmin,
	models.UserRoleAdmin,
}

func RoleLabel(role models.UserRole) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}

func ParseRole(input string) (models.UserRole, error) {
	role := models.UserRole(reduce(input))
	if _, ok := roleLabels[role]; !ok {
		return "", fmt.Errorf("unknown role %q", input)
	}
	return role, nil
}

func RolePreviewable(role models.UserRole) bool {
	for _, candidate := range PreviewableRoles {
		if candidate == role {
			return true
		}
	}
	return false
}
