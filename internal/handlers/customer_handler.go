package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// CustomerHandler handles customer-related requests.
type CustomerHandler struct {
	customerService services.CustomerServicer
	auditService    services.AuditServicer
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService services.CustomerServicer, auditService services.AuditServicer) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, auditService: auditService}
}

// CreateCustomerRequest represents the request payload for creating a customer.
type CreateCustomerRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=200"`
	OrgNumber        string  `json:"org_number" binding:"max=20"`
	FixedPriceAmount float64 `json:"fixed_price_amount" binding:"omitempty,gte=0"`
}

// UpdateCustomerRequest represents the request payload for updating a customer.
type UpdateCustomerRequest struct {
	Name             string   `json:"name" binding:"omitempty,min=1,max=200"`
	OrgNumber        string   `json:"org_number" binding:"max=20"`
	FixedPriceAmount *float64 `json:"fixed_price_amount" binding:"omitempty,gte=0"`
	IsActive         *bool    `json:"is_active"`
}

// CreateCustomer handles the creation of a new customer.
// @Summary     Create a customer
// @Description Create a new customer to bill time against
// @Tags        customers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCustomerRequest true "Customer details"
// @Success     201 {object} models.Customer "Customer created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(req.Name, req.OrgNumber, req.FixedPriceAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CUSTOMER", "customer", customer.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "org_number": req.OrgNumber})

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// GetCustomers handles listing customers.
// @Summary     Get customers
// @Description Get a paginated list of customers
// @Tags        customers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active status"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Customer] "Paginated customers"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /customers [get]
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
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

	result, err := h.customerService.GetCustomers(page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCustomer handles retrieving a specific customer.
// @Summary     Get customer by ID
// @Description Get a specific customer by ID
// @Tags        customers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Customer ID"
// @Success     200 {object} models.Customer "Customer details"
// @Failure     400 {object} ErrorResponse "Invalid customer ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// UpdateCustomer handles updating an existing customer.
// @Summary     Update customer
// @Description Update an existing customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Customer ID"
// @Param       request body UpdateCustomerRequest true "Updated customer details"
// @Success     200 {object} models.Customer "Updated customer"
// @Failure     400 {object} ErrorResponse "Invalid input or customer ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(customerID, req.Name, req.OrgNumber, req.FixedPriceAmount, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CUSTOMER", "customer", customerID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DeleteCustomer handles deleting a customer.
// @Summary     Delete customer
// @Description Soft-delete a customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Customer ID"
// @Success     200 {object} MessageResponse "Customer deleted"
// @Failure     400 {object} ErrorResponse "Invalid customer ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.customerService.DeleteCustomer(customerID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CUSTOMER", "customer", customerID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
