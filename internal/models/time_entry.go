package models

import "time"

// TimeEntry is one worked-hours record for (employee, customer, article, date).
// CostAmount, CalculatedPrice, and PricingRuleID are derived by the pricing
// pipeline when the entry is written and recomputed on every edit; nothing
// else may set them.
type TimeEntry struct {
	Base
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	ArticleID  uint      `gorm:"not null;index" json:"article_id"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	Hours      float64   `gorm:"not null" json:"hours"`
	Note       string    `json:"note"`

	CostAmount      float64 `gorm:"not null;default:0" json:"cost_amount"`
	CalculatedPrice float64 `gorm:"not null;default:0" json:"calculated_price"`
	PricingRuleID   *uint   `json:"pricing_rule_id,omitempty"`
	// RunningPrice tracks what the entry would have billed at the running
	// rate, for fixed-price variance reporting. Nil when not tracked.
	RunningPrice *float64 `json:"running_price,omitempty"`

	// Relationships
	Employee    Employee     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Customer    Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Article     Article      `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	PricingRule *PricingRule `gorm:"foreignKey:PricingRuleID" json:"pricing_rule,omitempty"`
}
