package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/permissions"
	"peoplehub/api/internal/repository"
)

type grantResponse struct {
	ModuleKey   string   `json:"moduleKey"`
	Actions     []string `json:"actions"`
	Visible     bool     `json:"visible"`
	NotifyEmail bool     `json:"notifyEmail"`
	NotifyPush  bool     `json:"notifyPush"`
}

func (h HandlerSet) ListGrants(c *gin.Context) {
	role, err := permissions.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grants, err := h.permService.GrantsForRole(c.Request.Context(), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]grantResponse, 0, len(grants))
	for _, grant := range grants {
		resp = append(resp, grantResponse{
			ModuleKey:   grant.ModuleKey,
			Actions:     grant.Actions,
			Visible:     grant.Visible,
			NotifyEmail: grant.NotifyEmail,
			NotifyPush:  grant.NotifyPush,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"role":      string(role),
		"roleLabel": permissions.RoleLabel(role),
		"grants":    resp,
	})
}

type updateGrantRequest struct {
	ModuleKey   string   `json:"moduleKey" binding:"required"`
	Actions     []string `json:"actions" binding:"required"`
	Visible     bool     `json:"visible"`
	NotifyEmail bool     `json:"notifyEmail"`
	NotifyPush  bool     `json:"notifyPush"`
}

func (h HandlerSet) UpdateGrant(c *gin.Context) {
	role, err := permissions.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req updateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.permService.UpdateGrant(c.Request.Context(), models.PermissionGrant{
		Role:        role,
		ModuleKey:   req.ModuleKey,
		Actions:     req.Actions,
		Visible:     req.Visible,
		NotifyEmail: req.NotifyEmail,
		NotifyPush:  req.NotifyPush,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) DeleteGrant(c *gin.Context) {
	role, err := permissions.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.permService.RemoveGrant(c.Request.Context(), role, c.Param("module")); err != nil {
		if errors.Is(err, repository.ErrGrantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type previewRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h HandlerSet) ActivatePreview(c *gin.Context) {
	user, claims, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := permissions.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.permService.ActivatePreview(c.Request.Context(), claims.SessionID, user.Role, target)
	if err != nil {
		switch {
		case errors.Is(err, permissions.ErrPreviewNotSuperAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, permissions.ErrPreviewInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, previewStateBody(state))
}

func (h HandlerSet) DeactivatePreview(c *gin.Context) {
	_, claims, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	if err := h.permService.DeactivatePreview(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) PreviewState(c *gin.Context) {
	_, claims, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	state, err := h.permService.PreviewFor(c.Request.Context(), claims.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, previewStateBody(state))
}

func previewStateBody(state permissions.PreviewState) gin.H {
	if !state.Active {
		return gin.H{"active": false}
	}
	return gin.H{
		"active":       true,
		"originalRole": string(state.Original),
		"previewRole":  string(state.Preview),
		"previewLabel": permissions.RoleLabel(state.Preview),
	}
}
