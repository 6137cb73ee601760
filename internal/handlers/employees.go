package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"peoplehub/api/internal/ids"
	"peoplehub/api/internal/models"
	"peoplehub/api/internal/repository"
	"peoplehub/api/internal/validate"
)

type employeeResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Position     string    `json:"position"`
	Department   string    `json:"department"`
	VacationDays float64   `json:"vacationDays"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toEmployeeResponse(employee models.Employee) employeeResponse {
	return employeeResponse{
		ID:           employee.ID,
		UserID:       employee.UserID,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Position:     employee.Position,
		Department:   employee.Department,
		VacationDays: employee.VacationDays,
		CreatedAt:    employee.CreatedAt,
	}
}

func (h HandlerSet) ListEmployees(c *gin.Context) {
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
	employees, err := h.employees.ListByCompany(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		items = append(items, toEmployeeResponse(employee))
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// MyEmployeeProfile returns the caller's own employee record. No grant
// is required; everyone may read their own profile.
func (h HandlerSet) MyEmployeeProfile(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	employee, err := h.employees.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no employee record for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": toEmployeeResponse(employee)})
}

func (h HandlerSet) GetEmployee(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.employees.GetByID(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": toEmployeeResponse(employee)})
}

type createEmployeeRequest struct {
	UserID       string  `json:"userId" binding:"required"`
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName" binding:"required"`
	Position     string  `json:"position"`
	Department   string  `json:"department"`
	VacationDays float64 `json:"vacationDays"`
}

func (h HandlerSet) CreateEmployee(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.VacationDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vacationDays must not be negative"})
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	employee := models.Employee{
		ID:           ids.New(),
		CompanyID:    companyID,
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		Department:   req.Department,
		VacationDays: req.VacationDays,
	}
	if err := h.employees.Create(c.Request.Context(), employee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"employee": toEmployeeResponse(employee)})
}

type bankDetailsRequest struct {
	IBAN string `json:"iban" binding:"required"`
	BIC  string `json:"bic" binding:"required"`
}

func (h HandlerSet) UpdateBankDetails(c *gin.Context) {
	user, _, ok := h.currentIdentity(c)
	if !ok {
		return
	}

	var req bankDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.IBAN(req.IBAN); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "iban"})
		return
	}
	if err := validate.BIC(req.BIC); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "bic"})
		return
	}

	companyID, err := h.tenantService.EffectiveCompanyID(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.employees.UpdateBankDetails(c.Request.Context(), companyID, c.Param("id"), &req.IBAN, &req.BIC); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (limit int, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.Query("perPage")); err == nil && v > 0 {
		if v > 200 {
			v = 200
		}
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 1 {
		offset = (v - 1) * limit
	}
	return limit, offset
}
