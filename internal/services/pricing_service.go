package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/pricing"
)

// pricingService manages pricing rules and runs rule resolution.
type pricingService struct {
	db *gorm.DB
}

// NewPricingService creates a new PricingServicer.
func NewPricingService(db *gorm.DB) PricingServicer {
	return &pricingService{db: db}
}

// validateScopeTarget checks that the input carries exactly the foreign
// keys its scope requires.
func validateScopeTarget(input PricingRuleInput) error {
	switch input.Scope {
	case models.PricingScopeGlobal:
	case models.PricingScopeArticleGroup:
		if input.ArticleGroupID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidScopeTarget, "article_group scope requires article_group_id")
		}
	case models.PricingScopeArticle:
		if input.ArticleID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidScopeTarget, "article scope requires article_id")
		}
	case models.PricingScopeCustomer:
		if input.CustomerID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidScopeTarget, "customer scope requires customer_id")
		}
	case models.PricingScopeCustomerArticle:
		if input.CustomerID == nil || input.ArticleID == nil {
			return apperrors.WithMessage(apperrors.ErrInvalidScopeTarget, "customer_article scope requires customer_id and article_id")
		}
	default:
		return apperrors.ErrInvalidScopeTarget
	}
	return nil
}

func validateFractions(input PricingRuleInput) error {
	if input.Discount != nil && (*input.Discount < 0 || *input.Discount > 1) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "discount must be between 0 and 1")
	}
	if input.Markup != nil && *input.Markup < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "markup must not be negative")
	}
	return nil
}

// CreateRule creates a pricing rule after validating its scope target.
func (s *pricingService) CreateRule(input PricingRuleInput) (*models.PricingRule, error) {
	if err := validateScopeTarget(input); err != nil {
		return nil, err
	}
	if err := validateFractions(input); err != nil {
		return nil, err
	}

	rule := &models.PricingRule{
		Name:                input.Name,
		Scope:               input.Scope,
		Priority:            input.Priority,
		CustomerID:          input.CustomerID,
		ArticleID:           input.ArticleID,
		ArticleGroupID:      input.ArticleGroupID,
		PricePerHour:        input.PricePerHour,
		Discount:            input.Discount,
		Markup:              input.Markup,
		FixedPriceComponent: input.FixedPriceComponent,
		MinimumCharge:       input.MinimumCharge,
		ValidFrom:           input.ValidFrom,
		ValidTo:             input.ValidTo,
		IsActive:            true,
	}
	if err := s.db.Create(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rule, nil
}

// GetRules returns a paginated list of pricing rules.
func (s *pricingService) GetRules(page pagination.PageRequest, isActive *bool, scope *models.PricingScope) (*pagination.PageResponse[models.PricingRule], error) {
	page.Defaults()

	query := s.db.Model(&models.PricingRule{})
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	if scope != nil {
		query = query.Where("scope = ?", *scope)
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rules []models.PricingRule
	if err := query.Order("scope, priority DESC").
		Scopes(pagination.Paginate(page)).Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(rules, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRuleByID returns a pricing rule by ID.
func (s *pricingService) GetRuleByID(id uint) (*models.PricingRule, error) {
	var rule models.PricingRule
	if err := s.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPricingRuleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &rule, nil
}

// UpdateRule replaces a rule's writable fields. BeforeSave keeps the
// foreign keys consistent with the (possibly changed) scope.
func (s *pricingService) UpdateRule(id uint, input PricingRuleInput) (*models.PricingRule, error) {
	rule, err := s.GetRuleByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateScopeTarget(input); err != nil {
		return nil, err
	}
	if err := validateFractions(input); err != nil {
		return nil, err
	}

	rule.Name = input.Name
	rule.Scope = input.Scope
	rule.Priority = input.Priority
	rule.CustomerID = input.CustomerID
	rule.ArticleID = input.ArticleID
	rule.ArticleGroupID = input.ArticleGroupID
	rule.PricePerHour = input.PricePerHour
	rule.Discount = input.Discount
	rule.Markup = input.Markup
	rule.FixedPriceComponent = input.FixedPriceComponent
	rule.MinimumCharge = input.MinimumCharge
	rule.ValidFrom = input.ValidFrom
	rule.ValidTo = input.ValidTo

	if err := s.db.Save(rule).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rule, nil
}

// DeactivateRule disables a rule without deleting it, so historical
// time entries keep a resolvable rule reference.
func (s *pricingService) DeactivateRule(id uint) error {
	rule, err := s.GetRuleByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Model(rule).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ResolveRule selects the applicable rule for a customer, article and
// date. A missing article is a hard error; no matching rule is not.
func (s *pricingService) ResolveRule(customerID, articleID uint, date time.Time) (*models.PricingRule, error) {
	var article models.Article
	if err := s.db.First(&article, articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rules []models.PricingRule
	if err := s.db.Where("is_active = ?", true).
		Order("priority DESC, id").Find(&rules).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return pricing.Resolve(rules, customerID, articleID, article.GroupID, date), nil
}
