// Package pricing implements the pricing rule resolution and price
// calculation rules. Like budgeting, it is pure: candidates are fetched
// by the services layer and passed in.
package pricing

import (
	"sort"
	"time"

	"tidbok/internal/models"
)

// Resolve selects the single applicable pricing rule for a
// (customer, article, date) combination, or nil when none applies.
//
// Scopes are tried from most to least specific: customer+article,
// customer, article, article group, global. The first tier with a match
// wins; within a tier, candidates are ordered by descending priority
// (stable, so equal priorities keep their fetch order). Tier always
// beats priority.
func Resolve(rules []models.PricingRule, customerID, articleID, articleGroupID uint, date time.Time) *models.PricingRule {
	candidates := make([]models.PricingRule, 0, len(rules))
	for i := range rules {
		if rules[i].InForce(date) {
			candidates = append(candidates, rules[i])
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	tiers := []func(r *models.PricingRule) bool{
		func(r *models.PricingRule) bool {
			return r.Scope == models.PricingScopeCustomerArticle &&
				matchesID(r.CustomerID, customerID) && matchesID(r.ArticleID, articleID)
		},
		func(r *models.PricingRule) bool {
			return r.Scope == models.PricingScopeCustomer && matchesID(r.CustomerID, customerID)
		},
		func(r *models.PricingRule) bool {
			return r.Scope == models.PricingScopeArticle && matchesID(r.ArticleID, articleID)
		},
		func(r *models.PricingRule) bool {
			return r.Scope == models.PricingScopeArticleGroup && matchesID(r.ArticleGroupID, articleGroupID)
		},
		func(r *models.PricingRule) bool {
			return r.Scope == models.PricingScopeGlobal
		},
	}

	for _, matches := range tiers {
		for i := range candidates {
			if matches(&candidates[i]) {
				return &candidates[i]
			}
		}
	}
	return nil
}

func matchesID(ruleID *uint, id uint) bool {
	return ruleID != nil && *ruleID == id
}
