package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/repository"
)

type absenceChangedPayload struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	Record struct {
		ID        string `json:"id"`
		CompanyID string `json:"company_id"`
		Status    string `json:"status"`
	} `json:"record" binding:"required"`
}

// AbsenceChangedHook is called by the database trigger whenever an
// absence request row changes. It re-reads the row and funnels it
// through the same deduction path the API uses; the audit guard makes
// the two paths converge instead of double-charging.
func (h HandlerSet) AbsenceChangedHook(c *gin.Context) {
	var payload absenceChangedPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Record.ID == "" || payload.Record.CompanyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record id and company_id required"})
		return
	}

	req, err := h.absences.GetByID(c.Request.Context(), payload.Record.CompanyID, payload.Record.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAbsenceNotFound) {
			// Row deleted between trigger and delivery. Nothing to do.
			c.JSON(http.StatusOK, gin.H{"applied": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.absenceService.ApplyVacationDeduction(c.Request.Context(), req); err != nil {
		h.log.Error().Err(err).Str("absence_id", req.ID).Msg("trigger deduction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": true})
}
