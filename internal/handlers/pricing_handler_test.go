package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

type mockPricingService struct {
	createRuleFn     func(input services.PricingRuleInput) (*models.PricingRule, error)
	getRulesFn       func(page pagination.PageRequest, isActive *bool, scope *models.PricingScope) (*pagination.PageResponse[models.PricingRule], error)
	getRuleByIDFn    func(id uint) (*models.PricingRule, error)
	updateRuleFn     func(id uint, input services.PricingRuleInput) (*models.PricingRule, error)
	deactivateRuleFn func(id uint) error
	resolveRuleFn    func(customerID, articleID uint, date time.Time) (*models.PricingRule, error)
}

func (m *mockPricingService) CreateRule(input services.PricingRuleInput) (*models.PricingRule, error) {
	if m.createRuleFn != nil {
		return m.createRuleFn(input)
	}
	return &models.PricingRule{}, nil
}

func (m *mockPricingService) GetRules(page pagination.PageRequest, isActive *bool, scope *models.PricingScope) (*pagination.PageResponse[models.PricingRule], error) {
	if m.getRulesFn != nil {
		return m.getRulesFn(page, isActive, scope)
	}
	resp := pagination.NewPageResponse([]models.PricingRule{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPricingService) GetRuleByID(id uint) (*models.PricingRule, error) {
	if m.getRuleByIDFn != nil {
		return m.getRuleByIDFn(id)
	}
	return &models.PricingRule{}, nil
}

func (m *mockPricingService) UpdateRule(id uint, input services.PricingRuleInput) (*models.PricingRule, error) {
	if m.updateRuleFn != nil {
		return m.updateRuleFn(id, input)
	}
	return &models.PricingRule{}, nil
}

func (m *mockPricingService) DeactivateRule(id uint) error {
	if m.deactivateRuleFn != nil {
		return m.deactivateRuleFn(id)
	}
	return nil
}

func (m *mockPricingService) ResolveRule(customerID, articleID uint, date time.Time) (*models.PricingRule, error) {
	if m.resolveRuleFn != nil {
		return m.resolveRuleFn(customerID, articleID, date)
	}
	return nil, nil
}

var _ services.PricingServicer = (*mockPricingService)(nil)

func setupPricingRouter(handler *PricingHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/pricing-rules", handler.CreateRule)
	auth.GET("/pricing-rules", handler.GetRules)
	auth.GET("/pricing-rules/resolve", handler.ResolveRule)
	auth.GET("/pricing-rules/:id", handler.GetRule)
	auth.PUT("/pricing-rules/:id", handler.UpdateRule)
	auth.DELETE("/pricing-rules/:id", handler.DeactivateRule)
	return r
}

func TestPricingHandler_CreateRule(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotInput services.PricingRuleInput
		svc := &mockPricingService{
			createRuleFn: func(input services.PricingRuleInput) (*models.PricingRule, error) {
				gotInput = input
				price := 950.0
				return &models.PricingRule{
					Base:         models.Base{ID: 1},
					Name:         input.Name,
					Scope:        input.Scope,
					Priority:     input.Priority,
					CustomerID:   input.CustomerID,
					PricePerHour: &price,
					IsActive:     true,
				}, nil
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "POST", "/pricing-rules",
			`{"name":"Acme rate","scope":"customer","priority":10,"customer_id":3,"price_per_hour":950}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotInput.Scope != models.PricingScopeCustomer {
			t.Errorf("expected customer scope, got %q", gotInput.Scope)
		}
		if gotInput.CustomerID == nil || *gotInput.CustomerID != 3 {
			t.Error("expected customer_id 3 in input")
		}
		result := parseJSON(t, rec)
		rule := result["pricing_rule"].(map[string]interface{})
		if rule["price_per_hour"].(float64) != 950 {
			t.Errorf("expected price 950, got %v", rule["price_per_hour"])
		}
	})

	t.Run("returns 400 on unknown scope", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "POST", "/pricing-rules",
			`{"name":"Broken","scope":"regional","price_per_hour":950}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on discount above one", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "POST", "/pricing-rules",
			`{"name":"Too generous","scope":"global","discount":1.5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when scope target missing", func(t *testing.T) {
		svc := &mockPricingService{
			createRuleFn: func(_ services.PricingRuleInput) (*models.PricingRule, error) {
				return nil, apperrors.ErrInvalidScopeTarget
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "POST", "/pricing-rules",
			`{"name":"No target","scope":"customer","price_per_hour":950}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_SCOPE_TARGET")
	})
}

func TestPricingHandler_ResolveRule(t *testing.T) {
	t.Run("returns resolved rule", func(t *testing.T) {
		var gotCustomer, gotArticle uint
		var gotDate time.Time
		svc := &mockPricingService{
			resolveRuleFn: func(customerID, articleID uint, date time.Time) (*models.PricingRule, error) {
				gotCustomer, gotArticle, gotDate = customerID, articleID, date
				return &models.PricingRule{Base: models.Base{ID: 7}, Name: "Acme rate", Scope: models.PricingScopeCustomer}, nil
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules/resolve?customer_id=3&article_id=5&date=2025-03-15T00:00:00Z", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotCustomer != 3 || gotArticle != 5 {
			t.Errorf("expected customer 3 article 5, got %d %d", gotCustomer, gotArticle)
		}
		if gotDate.Year() != 2025 || gotDate.Month() != time.March {
			t.Errorf("expected March 2025 date, got %v", gotDate)
		}
		result := parseJSON(t, rec)
		rule := result["pricing_rule"].(map[string]interface{})
		if rule["id"].(float64) != 7 {
			t.Errorf("expected rule 7, got %v", rule["id"])
		}
	})

	t.Run("returns null when no rule applies", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules/resolve?customer_id=3&article_id=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["pricing_rule"] != nil {
			t.Errorf("expected null rule, got %v", result["pricing_rule"])
		}
	})

	t.Run("requires customer_id and article_id", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules/resolve?customer_id=3", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules/resolve?customer_id=3&article_id=5&date=2025-03-15", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when article missing", func(t *testing.T) {
		svc := &mockPricingService{
			resolveRuleFn: func(_, _ uint, _ time.Time) (*models.PricingRule, error) {
				return nil, apperrors.ErrArticleNotFound
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules/resolve?customer_id=3&article_id=99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ARTICLE_NOT_FOUND")
	})
}

func TestPricingHandler_DeactivateRule(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		called := false
		svc := &mockPricingService{
			deactivateRuleFn: func(id uint) error {
				called = true
				if id != 4 {
					t.Errorf("expected id 4, got %d", id)
				}
				return nil
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "DELETE", "/pricing-rules/4", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("expected DeactivateRule to be called")
		}
	})

	t.Run("returns 404 for unknown rule", func(t *testing.T) {
		svc := &mockPricingService{
			deactivateRuleFn: func(_ uint) error {
				return apperrors.ErrPricingRuleNotFound
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "DELETE", "/pricing-rules/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PRICING_RULE_NOT_FOUND")
	})
}

func TestPricingHandler_GetRules(t *testing.T) {
	t.Run("rejects unknown scope filter", func(t *testing.T) {
		handler := NewPricingHandler(&mockPricingService{}, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules?scope=regional", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("passes filters through", func(t *testing.T) {
		var gotActive *bool
		var gotScope *models.PricingScope
		svc := &mockPricingService{
			getRulesFn: func(_ pagination.PageRequest, isActive *bool, scope *models.PricingScope) (*pagination.PageResponse[models.PricingRule], error) {
				gotActive, gotScope = isActive, scope
				resp := pagination.NewPageResponse([]models.PricingRule{{Base: models.Base{ID: 1}}}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewPricingHandler(svc, &mockAuditService{})
		r := setupPricingRouter(handler)

		rec := doRequest(r, "GET", "/pricing-rules?is_active=true&scope=customer", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotActive == nil || !*gotActive {
			t.Error("expected is_active filter true")
		}
		if gotScope == nil || *gotScope != models.PricingScopeCustomer {
			t.Error("expected customer scope filter")
		}
	})
}
