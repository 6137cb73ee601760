package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
	"peoplehub/api/internal/service"
)

type absenceResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	HalfDay     bool       `json:"halfDay"`
	Days        float64    `json:"days"`
	Reason      string     `json:"reason,omitempty"`
	HasDocument bool       `json:"hasDocument"`
	ApprovedBy  *string    `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toAbsenceResponse(req models.AbsenceRequest) absenceResponse {
	return absenceResponse{
		ID:          req.ID,
		EmployeeID:  req.EmployeeID,
		Type:        string(req.Type),
		Status:      string(req.Status),
		StartDate:   req.StartDate.Format("2006-01-02"),
		EndDate:     req.EndDate.Format("2006-01-02"),
		HalfDay:     req.HalfDay,
		Days:        service.RequestDays(req.StartDate, req.EndDate, req.HalfDay),
		Reason:      req.Reason,
		HasDocument: req.DocumentKey != nil,
		ApprovedBy:  req.ApprovedBy,
		ApprovedAt:  req.ApprovedAt,
		CreatedAt:   req.CreatedAt,
	}
}

func (h HandlerSet) ListAbsences(c *gin.Context) {
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
	requests, err := h.absenceService.ListRequests(c.Request.Context(), companyID, c.Query("employeeId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]absenceResponse, 0, len(requests))
	for _, req := range requests {
		items = append(items, toAbsenceResponse(req))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type createAbsenceRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	HalfDay    bool   `json:"halfDay"`
	Reason     string `json:"reason"`
}

func parseAbsenceType(raw string) (models.AbsenceType, bool) {
	switch models.AbsenceType(raw) {
	case models.AbsenceTypeVacation, models.AbsenceTypeSick, models.AbsenceTypeUnpaid, models.AbsenceTypeSpecial:
		return models.AbsenceType(raw), true
	}
	return "", false
}

func (h HandlerSet) CreateAbsence(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req createAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	absenceType, ok := parseAbsenceType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown absence type: " + req.Type})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	created, err := h.absenceService.CreateRequest(c.Request.Context(), service.CreateAbsenceInput{
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		Type:       absenceType,
		StartDate:  start,
		EndDate:    end,
		HalfDay:    req.HalfDay,
		Reason:     req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrEmployeeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"absence": toAbsenceResponse(created)})
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

func (h HandlerSet) DecideAbsence(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	decided, err := h.absenceService.Decide(c.Request.Context(), companyID, c.Param("id"), req.Approve, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAbsenceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAbsenceNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"absence": toAbsenceResponse(decided)})
}

const maxDocumentSize = 10 << 20

func (h HandlerSet) UploadAbsenceDocument(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' required"})
		return
	}
	if fileHeader.Size > maxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "document exceeds 10 MiB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.absenceService.AttachDocument(c.Request.Context(), companyID, c.Param("id"), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		if errors.Is(err, repository.ErrAbsenceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"documentKey": key})
}

func (h HandlerSet) AbsenceDocumentURL(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	url, err := h.absenceService.DocumentURL(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAbsenceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
