package models

// Customer represents a client of the firm that time is billed against
type Customer struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	OrgNumber string `gorm:"size:20" json:"org_number"`
	// FixedPriceAmount is the monthly fixed-price (fastpris) budget for
	// articles flagged IncludedInFixedPrice. Zero means no fixed-price deal.
	FixedPriceAmount float64 `gorm:"not null;default:0" json:"fixed_price_amount"`
	IsActive         bool    `gorm:"default:true" json:"is_active"`

	// Relationships
	BudgetEntries []BudgetEntry `gorm:"foreignKey:CustomerID" json:"budget_entries,omitempty"`
	TimeEntries   []TimeEntry   `gorm:"foreignKey:CustomerID" json:"time_entries,omitempty"`
}
