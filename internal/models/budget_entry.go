package models

// BudgetStatus represents the lifecycle status of a budget entry
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusPublished BudgetStatus = "published"
)

// BudgetEntry is a monthly allocation of hours and amount for one
// (customer, article) pair, valid from its start period until its end
// period. Nil end fields mean the entry is ongoing.
type BudgetEntry struct {
	Base
	CustomerID uint         `gorm:"not null;index" json:"customer_id"`
	ArticleID  uint         `gorm:"not null;index" json:"article_id"`
	StartYear  int          `gorm:"not null" json:"start_year"`
	StartMonth int          `gorm:"not null" json:"start_month"`
	EndYear    *int         `json:"end_year,omitempty"`
	EndMonth   *int         `json:"end_month,omitempty"`
	Hours      float64      `gorm:"not null;default:0" json:"hours"`
	Amount     float64      `gorm:"not null;default:0" json:"amount"`
	Status     BudgetStatus `gorm:"not null;default:'draft';index" json:"status"`
	// Version increases by one for each publish cycle of a customer+article.
	Version int `gorm:"not null;default:0" json:"version"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Article  Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}
