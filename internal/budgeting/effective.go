package budgeting

import (
	"sort"

	"tidbok/internal/models"
)

// IsEffective reports whether a budget entry is in force for the target
// month: the entry is published, its start period is at or before the
// target, and its end period (open when nil) is at or after it.
func IsEffective(e *models.BudgetEntry, target Month) bool {
	if e.Status != models.BudgetStatusPublished {
		return false
	}
	start := Month{Year: e.StartYear, Month: e.StartMonth}
	if start.After(target) {
		return false
	}
	if e.EndYear == nil {
		return true
	}
	end := Month{Year: *e.EndYear, Month: 12}
	if e.EndMonth != nil {
		end.Month = *e.EndMonth
	}
	return !end.Before(target)
}

// Effective returns the published entries in force for the target month,
// collapsed to at most one entry per (customer, article) pair. When a pair
// has several effective entries, the one with the greatest start period
// wins: a revised budget supersedes the history it replaced. Equal start
// periods are broken by higher version, then higher ID, so the pick is
// deterministic regardless of input order.
func Effective(entries []models.BudgetEntry, target Month) []models.BudgetEntry {
	type pairKey struct {
		customerID uint
		articleID  uint
	}

	winners := make(map[pairKey]models.BudgetEntry)
	order := make([]pairKey, 0, len(entries))

	for i := range entries {
		e := entries[i]
		if !IsEffective(&e, target) {
			continue
		}
		key := pairKey{customerID: e.CustomerID, articleID: e.ArticleID}
		current, seen := winners[key]
		if !seen {
			winners[key] = e
			order = append(order, key)
			continue
		}
		if supersedes(&e, &current) {
			winners[key] = e
		}
	}

	out := make([]models.BudgetEntry, 0, len(winners))
	for _, key := range order {
		out = append(out, winners[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CustomerID != out[j].CustomerID {
			return out[i].CustomerID < out[j].CustomerID
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out
}

// supersedes reports whether a should replace b as the effective entry
// for their shared (customer, article) pair.
func supersedes(a, b *models.BudgetEntry) bool {
	aStart := Month{Year: a.StartYear, Month: a.StartMonth}
	bStart := Month{Year: b.StartYear, Month: b.StartMonth}
	if aStart != bStart {
		return aStart.After(bStart)
	}
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	return a.ID > b.ID
}
