package models

import "time"

// Employee carries the rate and capacity data used by the pricing
// pipeline and the utilization reports
type Employee struct {
	Base
	UserID    *uint  `gorm:"uniqueIndex" json:"user_id,omitempty"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	// CostPerHour is the current internal cost rate. A matching
	// EmployeeCostHistory window takes precedence for historical dates.
	CostPerHour         float64 `gorm:"not null;default:0" json:"cost_per_hour"`
	DefaultPricePerHour float64 `gorm:"not null;default:0" json:"default_price_per_hour"`
	WeeklyHours         float64 `gorm:"not null;default:40" json:"weekly_hours"`
	TargetUtilization   float64 `gorm:"not null;default:0" json:"target_utilization"`
	IsActive            bool    `gorm:"default:true" json:"is_active"`

	// Relationships
	CostHistory []EmployeeCostHistory `gorm:"foreignKey:EmployeeID" json:"cost_history,omitempty"`
	TimeEntries []TimeEntry           `gorm:"foreignKey:EmployeeID" json:"time_entries,omitempty"`
}

// EmployeeCostHistory overrides an employee's cost rate for a date range.
// A nil EffectiveTo means the window is open-ended.
type EmployeeCostHistory struct {
	Base
	EmployeeID    uint       `gorm:"not null;index" json:"employee_id"`
	CostPerHour   float64    `gorm:"not null" json:"cost_per_hour"`
	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// Covers reports whether the history window contains the given date.
func (h *EmployeeCostHistory) Covers(date time.Time) bool {
	if date.Before(h.EffectiveFrom) {
		return false
	}
	return h.EffectiveTo == nil || !date.After(*h.EffectiveTo)
}
