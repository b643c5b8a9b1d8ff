package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// PricingHandler handles pricing rule requests.
type PricingHandler struct {
	pricingService services.PricingServicer
	auditService   services.AuditServicer
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService services.PricingServicer, auditService services.AuditServicer) *PricingHandler {
	return &PricingHandler{pricingService: pricingService, auditService: auditService}
}

// PricingRuleRequest represents the request payload for creating or updating a pricing rule.
type PricingRuleRequest struct {
	Name                string              `json:"name" binding:"required,min=1,max=200"`
	Scope               models.PricingScope `json:"scope" binding:"required,pricing_scope"`
	Priority            int                 `json:"priority"`
	CustomerID          *uint               `json:"customer_id"`
	ArticleID           *uint               `json:"article_id"`
	ArticleGroupID      *uint               `json:"article_group_id"`
	PricePerHour        *float64            `json:"price_per_hour" binding:"omitempty,gte=0"`
	Discount            *float64            `json:"discount" binding:"omitempty,fraction"`
	Markup              *float64            `json:"markup" binding:"omitempty,gte=0"`
	FixedPriceComponent *float64            `json:"fixed_price_component" binding:"omitempty,gte=0"`
	MinimumCharge       *float64            `json:"minimum_charge" binding:"omitempty,gte=0"`
	ValidFrom           *time.Time          `json:"valid_from"`
	ValidTo             *time.Time          `json:"valid_to"`
}

func (r *PricingRuleRequest) toInput() services.PricingRuleInput {
	return services.PricingRuleInput{
		Name:                r.Name,
		Scope:               r.Scope,
		Priority:            r.Priority,
		CustomerID:          r.CustomerID,
		ArticleID:           r.ArticleID,
		ArticleGroupID:      r.ArticleGroupID,
		PricePerHour:        r.PricePerHour,
		Discount:            r.Discount,
		Markup:              r.Markup,
		FixedPriceComponent: r.FixedPriceComponent,
		MinimumCharge:       r.MinimumCharge,
		ValidFrom:           r.ValidFrom,
		ValidTo:             r.ValidTo,
	}
}

// CreateRule handles the creation of a pricing rule.
// @Summary     Create a pricing rule
// @Description Create a new pricing rule at a given scope
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PricingRuleRequest true "Rule details"
// @Success     201 {object} models.PricingRule "Rule created"
// @Failure     400 {object} ErrorResponse "Invalid input or scope target"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules [post]
func (h *PricingHandler) CreateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.pricingService.CreateRule(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PRICING_RULE", "pricing_rule", rule.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "scope": req.Scope})

	c.JSON(http.StatusCreated, gin.H{"pricing_rule": rule})
}

// GetRules handles listing pricing rules.
// @Summary     Get pricing rules
// @Description Get a paginated list of pricing rules
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool   false "Filter by active status"
// @Param       scope     query string false "Filter by scope"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PricingRule] "Paginated rules"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules [get]
func (h *PricingHandler) GetRules(c *gin.Context) {
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

	var scope *models.PricingScope
	if v := c.Query("scope"); v != "" {
		s := models.PricingScope(v)
		switch s {
		case models.PricingScopeGlobal, models.PricingScopeArticleGroup, models.PricingScopeArticle,
			models.PricingScopeCustomer, models.PricingScopeCustomerArticle:
			scope = &s
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid scope"))
			return
		}
	}

	result, err := h.pricingService.GetRules(page, isActive, scope)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRule handles retrieving a specific pricing rule.
// @Summary     Get pricing rule by ID
// @Description Get a specific pricing rule by ID
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     200 {object} models.PricingRule "Rule details"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules/{id} [get]
func (h *PricingHandler) GetRule(c *gin.Context) {
	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rule, err := h.pricingService.GetRuleByID(ruleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricing_rule": rule})
}

// UpdateRule handles updating an existing pricing rule.
// @Summary     Update pricing rule
// @Description Update an existing pricing rule
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Rule ID"
// @Param       request body PricingRuleRequest true "Updated rule details"
// @Success     200 {object} models.PricingRule "Updated rule"
// @Failure     400 {object} ErrorResponse "Invalid input or rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules/{id} [put]
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rule, err := h.pricingService.UpdateRule(ruleID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PRICING_RULE", "pricing_rule", ruleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"pricing_rule": rule})
}

// DeactivateRule handles soft-disabling a pricing rule.
// @Summary     Deactivate pricing rule
// @Description Disable a pricing rule without deleting it
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Rule ID"
// @Success     200 {object} MessageResponse "Rule deactivated"
// @Failure     400 {object} ErrorResponse "Invalid rule ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Rule not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules/{id} [delete]
func (h *PricingHandler) DeactivateRule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ruleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.pricingService.DeactivateRule(ruleID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DEACTIVATE_PRICING_RULE", "pricing_rule", ruleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Pricing rule deactivated"})
}

// ResolveRule handles resolving the applicable rule for a combination.
// @Summary     Resolve pricing rule
// @Description Find the pricing rule that applies to a customer, article and date
// @Tags        pricing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       customer_id query int    true  "Customer ID"
// @Param       article_id  query int    true  "Article ID"
// @Param       date        query string false "Date (RFC 3339, defaults to today)"
// @Success     200 {object} models.PricingRule "Resolved rule, null when none applies"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pricing-rules/resolve [get]
func (h *PricingHandler) ResolveRule(c *gin.Context) {
	customerID, err := parseUintQuery(c, "customer_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	articleID, err := parseUintQuery(c, "article_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if customerID == nil || articleID == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "customer_id and article_id are required"))
		return
	}

	date := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be RFC 3339"))
			return
		}
		date = parsed
	}

	rule, err := h.pricingService.ResolveRule(*customerID, *articleID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pricing_rule": rule})
}
