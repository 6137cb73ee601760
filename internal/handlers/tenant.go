package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/repository"
	"peoplehub/api/internal/service"
)

type enterTenantRequest struct {
	CompanyID string `json:"companyId" binding:"required"`
}

type tenantSessionResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h HandlerSet) EnterTenant(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req enterTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.tenantService.EnterTenant(c.Request.Context(), user, req.CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSuperAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrCompanyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCompanyNotActive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": tenantSessionResponse{
		ID:        session.ID,
		CompanyID: session.CompanyID,
		ExpiresAt: session.ExpiresAt,
	}})
}

func (h HandlerSet) LeaveTenant(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.tenantService.ClearTenantContext(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// TenantContext reports which company scope the caller currently
// operates under and whether a tenant session is live.
func (h HandlerSet) TenantContext(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	session, err := h.tenantService.CurrentSession(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveTenantSession) {
			c.JSON(http.StatusOK, gin.H{
				"active":             false,
				"effectiveCompanyId": user.CompanyID,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active":             true,
		"effectiveCompanyId": session.CompanyID,
		"session": tenantSessionResponse{
			ID:        session.ID,
			CompanyID: session.CompanyID,
			ExpiresAt: session.ExpiresAt,
		},
	})
}
