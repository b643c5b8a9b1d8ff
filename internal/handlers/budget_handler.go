package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tidbok/internal/budgeting"
	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// BudgetHandler handles budget entry requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateDraftRequest represents the request payload for creating a draft budget entry.
type CreateDraftRequest struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	ArticleID  uint    `json:"article_id" binding:"required"`
	Year       int     `json:"year" binding:"required,min=2000,max=2200"`
	Month      int     `json:"month" binding:"required,month"`
	Hours      float64 `json:"hours" binding:"gte=0"`
	Amount     float64 `json:"amount" binding:"gte=0"`
}

// UpdateDraftRequest represents the request payload for updating a draft budget entry.
type UpdateDraftRequest struct {
	Hours  *float64 `json:"hours" binding:"omitempty,gte=0"`
	Amount *float64 `json:"amount" binding:"omitempty,gte=0"`
}

// PublishRequest represents the request payload for publishing drafts.
type PublishRequest struct {
	Year       int   `json:"year" binding:"required,min=2000,max=2200"`
	Month      int   `json:"month" binding:"required,month"`
	CustomerID *uint `json:"customer_id"`
}

// parsePeriodQuery parses required year and month query parameters.
func parsePeriodQuery(c *gin.Context, yearParam, monthParam string) (int, int, error) {
	year, err := strconv.Atoi(c.Query(yearParam))
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+yearParam)
	}
	month, err := strconv.Atoi(c.Query(monthParam))
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+monthParam)
	}
	return year, month, nil
}

// parseBudgetFilter parses the optional customer/article filter parameters.
func parseBudgetFilter(c *gin.Context) (services.BudgetFilter, error) {
	var filter services.BudgetFilter
	customerID, err := parseUintQuery(c, "customer_id")
	if err != nil {
		return filter, err
	}
	articleID, err := parseUintQuery(c, "article_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID
	filter.ArticleID = articleID
	return filter, nil
}

// CreateDraft handles the creation of a draft budget entry.
// @Summary     Create a draft budget entry
// @Description Create a draft budget entry targeting a calendar month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDraftRequest true "Draft details"
// @Success     201 {object} models.BudgetEntry "Draft created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Customer or article not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateDraft(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.budgetService.CreateDraft(req.CustomerID, req.ArticleID, req.Year, req.Month, req.Hours, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET_DRAFT", "budget_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"customer_id": req.CustomerID, "article_id": req.ArticleID, "year": req.Year, "month": req.Month})

	c.JSON(http.StatusCreated, gin.H{"budget_entry": entry})
}

// GetEntries handles listing budget entries.
// @Summary     Get budget entries
// @Description Get a paginated list of budget entries
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status (draft/published)"
// @Param       customer_id query int    false "Filter by customer"
// @Param       article_id  query int    false "Filter by article"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetEntry] "Paginated budget entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetEntries(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.BudgetStatus
	if v := c.Query("status"); v != "" {
		s := models.BudgetStatus(v)
		if s != models.BudgetStatusDraft && s != models.BudgetStatusPublished {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'draft' or 'published'"))
			return
		}
		status = &s
	}

	filter, err := parseBudgetFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.GetEntries(page, status, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEntry handles retrieving a specific budget entry.
// @Summary     Get budget entry by ID
// @Description Get a specific budget entry by ID
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget entry ID"
// @Success     200 {object} models.BudgetEntry "Budget entry details"
// @Failure     400 {object} ErrorResponse "Invalid budget entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.budgetService.GetEntryByID(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_entry": entry})
}

// UpdateDraft handles updating a draft budget entry.
// @Summary     Update draft budget entry
// @Description Update hours/amount on a draft budget entry; published entries are immutable
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Budget entry ID"
// @Param       request body UpdateDraftRequest true "Updated draft values"
// @Success     200 {object} models.BudgetEntry "Updated draft"
// @Failure     400 {object} ErrorResponse "Invalid input or budget entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget entry not found"
// @Failure     409 {object} ErrorResponse "Entry is not a draft"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateDraft(c *gin.Context) {
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

	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.budgetService.UpdateDraft(entryID, req.Hours, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET_DRAFT", "budget_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget_entry": entry})
}

// DeleteEntry handles deleting a budget entry.
// @Summary     Delete budget entry
// @Description Soft-delete a budget entry
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget entry ID"
// @Success     200 {object} MessageResponse "Budget entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteEntry(c *gin.Context) {
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

	if err := h.budgetService.DeleteEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_ENTRY", "budget_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget entry deleted"})
}

// DeleteDrafts handles bulk-deleting drafts for a customer and month.
// @Summary     Bulk-delete drafts
// @Description Delete all draft entries for a customer and target month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       customer_id query int true "Customer ID"
// @Param       year        query int true "Target year"
// @Param       month       query int true "Target month (1-12)"
// @Success     200 {object} MessageResponse "Drafts deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/drafts [delete]
func (h *BudgetHandler) DeleteDrafts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customerID, err := parseUintQuery(c, "customer_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if customerID == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "customer_id is required"))
		return
	}
	year, month, err := parsePeriodQuery(c, "year", "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.budgetService.DeleteDrafts(*customerID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET_DRAFTS", "budget_entry", *customerID, c.ClientIP(),
		map[string]interface{}{"year": year, "month": month, "deleted": deleted})

	c.JSON(http.StatusOK, gin.H{"message": "Drafts deleted", "deleted": deleted})
}

// Publish handles publishing drafts for a target month.
// @Summary     Publish budget drafts
// @Description Promote all drafts targeting a month to published, versioning and auto-closing as needed
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PublishRequest true "Target period"
// @Success     200 {object} services.PublishResult "Publish summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Nothing to publish"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/publish [post]
func (h *BudgetHandler) Publish(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.Publish(req.Year, req.Month, req.CustomerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "PUBLISH_BUDGETS", "budget_entry", 0, c.ClientIP(),
		map[string]interface{}{"year": req.Year, "month": req.Month, "published": len(result.Published), "closed": len(result.Closed)})

	c.JSON(http.StatusOK, result)
}

// GetEffective handles evaluating the effective budget for a month.
// @Summary     Get effective budget
// @Description Get the deduplicated published entries in force for a month
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year        query int true  "Target year"
// @Param       month       query int true  "Target month (1-12)"
// @Param       customer_id query int false "Filter by customer"
// @Param       article_id  query int false "Filter by article"
// @Success     200 {array} models.BudgetEntry "Effective entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/effective [get]
func (h *BudgetHandler) GetEffective(c *gin.Context) {
	year, month, err := parsePeriodQuery(c, "year", "month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter, err := parseBudgetFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.budgetService.EvaluateEffective(year, month, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "year": year, "month": month})
}

// GetAggregate handles aggregating budgets across a month range.
// @Summary     Aggregate budget range
// @Description Sum effective budget hours/amount per customer+article over an inclusive month range
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start_year  query int true  "Range start year"
// @Param       start_month query int true  "Range start month (1-12)"
// @Param       end_year    query int true  "Range end year"
// @Param       end_month   query int true  "Range end month (1-12)"
// @Param       customer_id query int false "Filter by customer"
// @Param       article_id  query int false "Filter by article"
// @Success     200 {object} map[string]budgeting.RangeTotal "Totals keyed by customer:article"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/aggregate [get]
func (h *BudgetHandler) GetAggregate(c *gin.Context) {
	startYear, startMonth, err := parsePeriodQuery(c, "start_year", "start_month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endYear, endMonth, err := parsePeriodQuery(c, "end_year", "end_month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter, err := parseBudgetFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.budgetService.AggregateRange(startYear, startMonth, endYear, endMonth, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if totals == nil {
		totals = map[string]budgeting.RangeTotal{}
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}
