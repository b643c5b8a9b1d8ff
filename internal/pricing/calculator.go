package pricing

import "tidbok/internal/models"

// Result holds the derived amounts for a time entry.
type Result struct {
	CostAmount      float64 `json:"cost_amount"`
	CalculatedPrice float64 `json:"calculated_price"`
}

// Calculate turns worked hours, a resolved rule (nil when none applied)
// and the employee's rates into cost and billed price.
//
// Cost is always costPerHour × hours. Price starts from the employee's
// default rate and, when a rule applies, each set field is applied in
// order: pricePerHour replaces the base, fixedPriceComponent is added,
// markup and discount compound multiplicatively, and minimumCharge is a
// floor applied last. The order matters and must not be rearranged.
func Calculate(hours float64, rule *models.PricingRule, defaultPricePerHour, costPerHour float64) Result {
	result := Result{
		CostAmount:      costPerHour * hours,
		CalculatedPrice: defaultPricePerHour * hours,
	}
	if rule == nil {
		return result
	}

	if rule.PricePerHour != nil {
		result.CalculatedPrice = *rule.PricePerHour * hours
	}
	if rule.FixedPriceComponent != nil {
		result.CalculatedPrice += *rule.FixedPriceComponent
	}
	if rule.Markup != nil {
		result.CalculatedPrice *= 1 + *rule.Markup
	}
	if rule.Discount != nil {
		result.CalculatedPrice *= 1 - *rule.Discount
	}
	if rule.MinimumCharge != nil && result.CalculatedPrice < *rule.MinimumCharge {
		result.CalculatedPrice = *rule.MinimumCharge
	}
	return result
}
