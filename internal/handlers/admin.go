package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/permissions"
)

type adminUserResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	RoleLabel   string    `json:"roleLabel"`
	Status      string    `json:"status"`
	// Account locking and 2FA are not implemented yet; the fields are
	// part of the admin listing contract so clients can render them.
	IsLocked         bool      `json:"isLocked"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	limit, offset := pagination(c)

	var users []models.User
	if role := c.Query("role"); role != "" {
		parsed, parseErr := permissions.ParseRole(role)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		users, err = h.users.ListByRole(c.Request.Context(), companyID, parsed)
	} else {
		users, err = h.users.ListByCompany(c.Request.Context(), companyID, limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]adminUserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, adminUserResponse{
			ID:               u.ID,
			CompanyID:        u.CompanyID,
			Email:            u.Email,
			DisplayName:      u.DisplayName,
			Role:             string(u.Role),
			RoleLabel:        permissions.RoleLabel(u.Role),
			Status:           string(u.Status),
			IsLocked:         false,
			TwoFactorEnabled: false,
			CreatedAt:        u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type companyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    *string   `json:"domain,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) AdminListCompanies(c *gin.Context) {
	companies, err := h.companies.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]companyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, companyResponse{
			ID:        company.ID,
			Name:      company.Name,
			Domain:    company.Domain,
			Status:    string(company.Status),
			CreatedAt: company.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
