// Package kpi holds the reporting formulas that consume time entries and
// budget data. All functions are total: empty input is fine, and ratios
// with a zero denominator return 0.
package kpi

import "tidbok/internal/models"

// Entry is the flattened time-entry data the KPI functions operate on.
type Entry struct {
	Hours            float64
	CalculatedPrice  float64
	CostAmount       float64
	RunningPrice     *float64
	ArticleGroupType models.ArticleGroupType
}

// Capacity holds an employee's working-hour capacity for a period.
type Capacity struct {
	TotalWorkingHours float64 `json:"total_working_hours"`
	AbsenceHours      float64 `json:"absence_hours"`
}

// Budget holds budgeted hours and amount for a comparison period.
type Budget struct {
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
}

// DebitableHours sums hours excluding internal time.
func DebitableHours(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		if e.ArticleGroupType != models.ArticleGroupTypeInterntid {
			sum += e.Hours
		}
	}
	return sum
}

// TotalHours sums all hours, internal time included.
func TotalHours(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Hours
	}
	return sum
}

// AvailableHours is capacity minus absence.
func AvailableHours(c Capacity) float64 {
	return c.TotalWorkingHours - c.AbsenceHours
}

// Utilization (beläggning) is debitable hours over available hours.
func Utilization(entries []Entry, c Capacity) float64 {
	available := AvailableHours(c)
	if available <= 0 {
		return 0
	}
	return DebitableHours(entries) / available
}

// ContributionMargin (TB) is revenue minus cost.
func ContributionMargin(entries []Entry) float64 {
	var tb float64
	for _, e := range entries {
		tb += e.CalculatedPrice - e.CostAmount
	}
	return tb
}

// MarginRatio (TG%) is contribution margin over revenue.
func MarginRatio(entries []Entry) float64 {
	var revenue float64
	for _, e := range entries {
		revenue += e.CalculatedPrice
	}
	if revenue == 0 {
		return 0
	}
	return ContributionMargin(entries) / revenue
}

// BudgetVarianceHours is actual hours minus budgeted hours; positive
// means over budget.
func BudgetVarianceHours(entries []Entry, b Budget) float64 {
	return TotalHours(entries) - b.Hours
}

// BudgetVarianceAmount is billed price minus budgeted amount.
func BudgetVarianceAmount(entries []Entry, b Budget) float64 {
	var revenue float64
	for _, e := range entries {
		revenue += e.CalculatedPrice
	}
	return revenue - b.Amount
}

// BudgetDeviationPercent is (actual - budget) / budget as a fraction.
func BudgetDeviationPercent(actual, budget float64) float64 {
	if budget == 0 {
		return 0
	}
	return (actual - budget) / budget
}

// CouldHaveBilledDiff sums calculatedPrice minus runningPrice. Entries
// without a running price contribute nothing.
func CouldHaveBilledDiff(entries []Entry) float64 {
	var diff float64
	for _, e := range entries {
		if e.RunningPrice != nil {
			diff += e.CalculatedPrice - *e.RunningPrice
		}
	}
	return diff
}
