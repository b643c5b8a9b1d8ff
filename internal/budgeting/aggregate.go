package budgeting

import (
	"fmt"

	"tidbok/internal/models"
)

// RangeTotal accumulates budgeted hours and amount for one
// (customer, article) pair across a month range.
type RangeTotal struct {
	CustomerID uint    `json:"customer_id"`
	ArticleID  uint    `json:"article_id"`
	Hours      float64 `json:"hours"`
	Amount     float64 `json:"amount"`
}

// RangeKey returns the map key used for a (customer, article) pair.
func RangeKey(customerID, articleID uint) string {
	return fmt.Sprintf("%d:%d", customerID, articleID)
}

// AggregateRange sums effective budget hours and amount per
// (customer, article) pair for every month from start to end inclusive.
// The sum is a monthly allocation: an entry effective for six of the
// queried months contributes its hours and amount six times. An empty or
// inverted range yields an empty map.
func AggregateRange(entries []models.BudgetEntry, start, end Month) map[string]RangeTotal {
	totals := make(map[string]RangeTotal)
	for _, month := range Months(start, end) {
		for _, e := range Effective(entries, month) {
			key := RangeKey(e.CustomerID, e.ArticleID)
			t, ok := totals[key]
			if !ok {
				t = RangeTotal{CustomerID: e.CustomerID, ArticleID: e.ArticleID}
			}
			t.Hours += e.Hours
			t.Amount += e.Amount
			totals[key] = t
		}
	}
	return totals
}
