package models

import (
	"time"

	"gorm.io/gorm"
)

// PricingScope is the specificity level a pricing rule is declared at
type PricingScope string

const (
	PricingScopeGlobal          PricingScope = "global"
	PricingScopeArticleGroup    PricingScope = "article_group"
	PricingScopeArticle         PricingScope = "article"
	PricingScopeCustomer        PricingScope = "customer"
	PricingScopeCustomerArticle PricingScope = "customer_article"
)

// PricingRule modifies the billed price for work matching its scope.
// Only the foreign keys relevant to the scope may be set; BeforeSave
// clears the rest so a rule can never match outside its scope.
type PricingRule struct {
	Base
	Name     string       `gorm:"not null" json:"name"`
	Scope    PricingScope `gorm:"not null;index" json:"scope"`
	Priority int          `gorm:"not null;default:0" json:"priority"`

	CustomerID     *uint `gorm:"index" json:"customer_id,omitempty"`
	ArticleID      *uint `gorm:"index" json:"article_id,omitempty"`
	ArticleGroupID *uint `gorm:"index" json:"article_group_id,omitempty"`

	PricePerHour        *float64 `json:"price_per_hour,omitempty"`
	Discount            *float64 `json:"discount,omitempty"`
	Markup              *float64 `json:"markup,omitempty"`
	FixedPriceComponent *float64 `json:"fixed_price_component,omitempty"`
	MinimumCharge       *float64 `json:"minimum_charge,omitempty"`

	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}

// BeforeSave clears foreign keys that do not belong to the rule's scope.
func (r *PricingRule) BeforeSave(tx *gorm.DB) error {
	switch r.Scope {
	case PricingScopeGlobal:
		r.CustomerID = nil
		r.ArticleID = nil
		r.ArticleGroupID = nil
	case PricingScopeArticleGroup:
		r.CustomerID = nil
		r.ArticleID = nil
	case PricingScopeArticle:
		r.CustomerID = nil
		r.ArticleGroupID = nil
	case PricingScopeCustomer:
		r.ArticleID = nil
		r.ArticleGroupID = nil
	case PricingScopeCustomerArticle:
		r.ArticleGroupID = nil
	}
	return nil
}

// InForce reports whether the rule is active and its validity window
// contains the given date. Nil bounds are open.
func (r *PricingRule) InForce(date time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom != nil && date.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && date.After(*r.ValidTo) {
		return false
	}
	return true
}
