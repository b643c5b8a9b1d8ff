package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// EmployeeHandler handles employee and cost-rate requests.
type EmployeeHandler struct {
	employeeService services.EmployeeServicer
	auditService    services.AuditServicer
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService services.EmployeeServicer, auditService services.AuditServicer) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, auditService: auditService}
}

// CreateEmployeeRequest represents the request payload for creating an employee.
type CreateEmployeeRequest struct {
	FirstName           string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName            string  `json:"last_name" binding:"required,min=1,max=100"`
	Email               string  `json:"email" binding:"required,email,max=255"`
	CostPerHour         float64 `json:"cost_per_hour" binding:"gte=0"`
	DefaultPricePerHour float64 `json:"default_price_per_hour" binding:"gte=0"`
	WeeklyHours         float64 `json:"weekly_hours" binding:"gte=0,lte=168"`
	TargetUtilization   float64 `json:"target_utilization" binding:"omitempty,fraction"`
}

// UpdateEmployeeRequest represents the request payload for updating an employee.
type UpdateEmployeeRequest struct {
	CostPerHour         *float64 `json:"cost_per_hour" binding:"omitempty,gte=0"`
	DefaultPricePerHour *float64 `json:"default_price_per_hour" binding:"omitempty,gte=0"`
	WeeklyHours         *float64 `json:"weekly_hours" binding:"omitempty,gte=0,lte=168"`
	TargetUtilization   *float64 `json:"target_utilization" binding:"omitempty,fraction"`
	IsActive            *bool    `json:"is_active"`
}

// AddCostHistoryRequest represents the request payload for adding a cost-rate window.
type AddCostHistoryRequest struct {
	CostPerHour   float64    `json:"cost_per_hour" binding:"gte=0"`
	EffectiveFrom time.Time  `json:"effective_from" binding:"required"`
	EffectiveTo   *time.Time `json:"effective_to"`
}

// CreateEmployee handles the creation of a new employee.
// @Summary     Create an employee
// @Description Create a new employee with rate and capacity data
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEmployeeRequest true "Employee details"
// @Success     201 {object} models.Employee "Employee created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	employee, err := h.employeeService.CreateEmployee(
		req.FirstName, req.LastName, req.Email,
		req.CostPerHour, req.DefaultPricePerHour, req.WeeklyHours, req.TargetUtilization,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EMPLOYEE", "employee", employee.ID, c.ClientIP(),
		map[string]interface{}{"email": req.Email})

	c.JSON(http.StatusCreated, gin.H{"employee": employee})
}

// GetEmployees handles listing employees.
// @Summary     Get employees
// @Description Get a paginated list of employees
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active status"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Employee] "Paginated employees"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees [get]
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.employeeService.GetEmployees(page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEmployee handles retrieving a specific employee.
// @Summary     Get employee by ID
// @Description Get a specific employee by ID
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Employee ID"
// @Success     200 {object} models.Employee "Employee details"
// @Failure     400 {object} ErrorResponse "Invalid employee ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employeeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	employee, err := h.employeeService.GetEmployeeByID(employeeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// UpdateEmployee handles updating an existing employee.
// @Summary     Update employee
// @Description Update an existing employee's rates and status
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Employee ID"
// @Param       request body UpdateEmployeeRequest true "Updated employee details"
// @Success     200 {object} models.Employee "Updated employee"
// @Failure     400 {object} ErrorResponse "Invalid input or employee ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	employeeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	employee, err := h.employeeService.UpdateEmployee(
		employeeID, req.CostPerHour, req.DefaultPricePerHour, req.WeeklyHours, req.TargetUtilization, req.IsActive,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EMPLOYEE", "employee", employeeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// AddCostHistory handles adding a historical cost-rate window.
// @Summary     Add cost history
// @Description Add a cost-rate window for an employee
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Employee ID"
// @Param       request body AddCostHistoryRequest true "Cost-rate window"
// @Success     201 {object} models.EmployeeCostHistory "Cost history created"
// @Failure     400 {object} ErrorResponse "Invalid input or employee ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees/{id}/cost-history [post]
func (h *EmployeeHandler) AddCostHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	employeeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddCostHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.employeeService.AddCostHistory(employeeID, req.CostPerHour, req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_COST_HISTORY", "employee", employeeID, c.ClientIP(),
		map[string]interface{}{"cost_per_hour": req.CostPerHour})

	c.JSON(http.StatusCreated, gin.H{"cost_history": record})
}

// GetCostHistory handles listing an employee's cost-rate windows.
// @Summary     Get cost history
// @Description Get all cost-rate windows for an employee
// @Tags        employees
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Employee ID"
// @Success     200 {array} models.EmployeeCostHistory "Cost history"
// @Failure     400 {object} ErrorResponse "Invalid employee ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /employees/{id}/cost-history [get]
func (h *EmployeeHandler) GetCostHistory(c *gin.Context) {
	employeeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	history, err := h.employeeService.GetCostHistory(employeeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_history": history})
}
