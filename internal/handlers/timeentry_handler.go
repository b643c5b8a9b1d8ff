package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// TimeEntryHandler handles time entry requests.
type TimeEntryHandler struct {
	timeEntryService services.TimeEntryServicer
	auditService     services.AuditServicer
}

// NewTimeEntryHandler creates a new TimeEntryHandler.
func NewTimeEntryHandler(timeEntryService services.TimeEntryServicer, auditService services.AuditServicer) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryService: timeEntryService, auditService: auditService}
}

// CreateTimeEntryRequest represents the request payload for creating a time entry.
type CreateTimeEntryRequest struct {
	EmployeeID uint      `json:"employee_id" binding:"required"`
	CustomerID uint      `json:"customer_id" binding:"required"`
	ArticleID  uint      `json:"article_id" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
	Hours      float64   `json:"hours" binding:"required,gt=0,lte=24"`
	Note       string    `json:"note" binding:"max=500"`
}

// UpdateTimeEntryRequest represents the request payload for updating a time entry.
type UpdateTimeEntryRequest struct {
	Date  *time.Time `json:"date"`
	Hours *float64   `json:"hours" binding:"omitempty,gt=0,lte=24"`
	Note  *string    `json:"note" binding:"omitempty,max=500"`
}

// SetRunningPriceRequest represents the request payload for setting a running price.
type SetRunningPriceRequest struct {
	RunningPrice *float64 `json:"running_price" binding:"omitempty,gte=0"`
}

// CreateTimeEntry handles recording worked hours.
// @Summary     Create a time entry
// @Description Record worked hours; cost and price are derived by the pricing pipeline
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTimeEntryRequest true "Time entry details"
// @Success     201 {object} models.TimeEntry "Time entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Employee, customer or article not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries [post]
func (h *TimeEntryHandler) CreateTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.timeEntryService.CreateTimeEntry(req.EmployeeID, req.CustomerID, req.ArticleID, req.Date, req.Hours, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TIME_ENTRY", "time_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"employee_id": req.EmployeeID, "customer_id": req.CustomerID, "hours": req.Hours})

	c.JSON(http.StatusCreated, gin.H{"time_entry": entry})
}

// GetTimeEntries handles listing time entries.
// @Summary     Get time entries
// @Description Get a paginated, filtered list of time entries
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       employee_id query int    false "Filter by employee"
// @Param       customer_id query int    false "Filter by customer"
// @Param       article_id  query int    false "Filter by article"
// @Param       from        query string false "From date (RFC 3339)"
// @Param       to          query string false "To date (RFC 3339)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TimeEntry] "Paginated time entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries [get]
func (h *TimeEntryHandler) GetTimeEntries(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TimeEntryFilter
	var err error
	if filter.EmployeeID, err = parseUintQuery(c, "employee_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.CustomerID, err = parseUintQuery(c, "customer_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ArticleID, err = parseUintQuery(c, "article_id"); err != nil {
		respondWithError(c, err)
		return
	}
	for param, dest := range map[string]**time.Time{"from": &filter.FromDate, "to": &filter.ToDate} {
		if v := c.Query(param); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, param+" must be RFC 3339"))
				return
			}
			*dest = &parsed
		}
	}

	result, err := h.timeEntryService.GetTimeEntries(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTimeEntry handles retrieving a specific time entry.
// @Summary     Get time entry by ID
// @Description Get a specific time entry by ID
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Success     200 {object} models.TimeEntry "Time entry details"
// @Failure     400 {object} ErrorResponse "Invalid time entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Time entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries/{id} [get]
func (h *TimeEntryHandler) GetTimeEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.timeEntryService.GetTimeEntryByID(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

// UpdateTimeEntry handles updating a time entry.
// @Summary     Update time entry
// @Description Update a time entry; derived pricing fields are recomputed
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Time entry ID"
// @Param       request body UpdateTimeEntryRequest true "Updated values"
// @Success     200 {object} models.TimeEntry "Updated time entry"
// @Failure     400 {object} ErrorResponse "Invalid input or time entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Time entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries/{id} [put]
func (h *TimeEntryHandler) UpdateTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.timeEntryService.UpdateTimeEntry(entryID, req.Date, req.Hours, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TIME_ENTRY", "time_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}

// DeleteTimeEntry handles deleting a time entry.
// @Summary     Delete time entry
// @Description Soft-delete a time entry
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Time entry ID"
// @Success     200 {object} MessageResponse "Time entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid time entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Time entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries/{id} [delete]
func (h *TimeEntryHandler) DeleteTimeEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.timeEntryService.DeleteTimeEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TIME_ENTRY", "time_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Time entry deleted"})
}

// SetRunningPrice handles setting or clearing an entry's running price.
// @Summary     Set running price
// @Description Record or clear the would-have-billed value for fixed-price variance reporting
// @Tags        time-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Time entry ID"
// @Param       request body SetRunningPriceRequest true "Running price, null to clear"
// @Success     200 {object} models.TimeEntry "Updated time entry"
// @Failure     400 {object} ErrorResponse "Invalid input or time entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Time entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /time-entries/{id}/running-price [put]
func (h *TimeEntryHandler) SetRunningPrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetRunningPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.timeEntryService.SetRunningPrice(entryID, req.RunningPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_RUNNING_PRICE", "time_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"time_entry": entry})
}
