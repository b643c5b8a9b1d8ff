package budgeting

import (
	"testing"

	"tidbok/internal/models"
)

func TestMonths(t *testing.T) {
	t.Run("single_month", func(t *testing.T) {
		months := Months(Month{2024, 3}, Month{2024, 3})
		if len(months) != 1 || months[0] != (Month{2024, 3}) {
			t.Errorf("expected [2024-03], got %v", months)
		}
	})

	t.Run("rolls_over_year_boundary", func(t *testing.T) {
		months := Months(Month{2024, 11}, Month{2025, 2})
		want := []Month{{2024, 11}, {2024, 12}, {2025, 1}, {2025, 2}}
		if len(months) != len(want) {
			t.Fatalf("expected %d months, got %d", len(want), len(months))
		}
		for i := range want {
			if months[i] != want[i] {
				t.Errorf("month %d: expected %s, got %s", i, want[i], months[i])
			}
		}
	})

	t.Run("inverted_range_is_empty", func(t *testing.T) {
		if months := Months(Month{2024, 6}, Month{2024, 1}); len(months) != 0 {
			t.Errorf("expected empty enumeration, got %v", months)
		}
	})
}

func TestAggregateRange(t *testing.T) {
	t.Run("entry_contributes_once_per_covered_month", func(t *testing.T) {
		entries := []models.BudgetEntry{publishedEntry(1, 1, 1, 2024, 1, 10, 1000)}

		totals := AggregateRange(entries, Month{2024, 1}, Month{2024, 6})
		got := totals[RangeKey(1, 1)]
		if got.Hours != 60 {
			t.Errorf("expected 60 hours over 6 months, got %v", got.Hours)
		}
		if got.Amount != 6000 {
			t.Errorf("expected 6000 amount over 6 months, got %v", got.Amount)
		}
	})

	t.Run("partial_coverage", func(t *testing.T) {
		e := publishedEntry(1, 1, 1, 2024, 3, 10, 1000)
		e.EndYear = intPtr(2024)
		e.EndMonth = intPtr(4)

		totals := AggregateRange([]models.BudgetEntry{e}, Month{2024, 1}, Month{2024, 6})
		got := totals[RangeKey(1, 1)]
		if got.Hours != 20 || got.Amount != 2000 {
			t.Errorf("expected 2 covered months, got %+v", got)
		}
	})

	t.Run("revision_switches_mid_range", func(t *testing.T) {
		old := publishedEntry(1, 1, 1, 2024, 1, 10, 1000)
		old.EndYear = intPtr(2024)
		old.EndMonth = intPtr(3)
		revised := publishedEntry(2, 1, 1, 2024, 4, 20, 2000)
		revised.Version = 2

		totals := AggregateRange([]models.BudgetEntry{old, revised}, Month{2024, 1}, Month{2024, 6})
		got := totals[RangeKey(1, 1)]
		// Jan-Mar at 10h, Apr-Jun at 20h.
		if got.Hours != 90 {
			t.Errorf("expected 90 hours, got %v", got.Hours)
		}
		if got.Amount != 9000 {
			t.Errorf("expected 9000 amount, got %v", got.Amount)
		}
	})

	t.Run("splitting_the_range_is_linear", func(t *testing.T) {
		entries := []models.BudgetEntry{
			publishedEntry(1, 1, 1, 2024, 1, 10, 1000),
			publishedEntry(2, 1, 2, 2024, 2, 5, 500),
			publishedEntry(3, 2, 1, 2023, 11, 8, 800),
		}

		whole := AggregateRange(entries, Month{2024, 1}, Month{2024, 3})

		split := make(map[string]RangeTotal)
		for _, m := range []Month{{2024, 1}, {2024, 2}, {2024, 3}} {
			for key, t := range AggregateRange(entries, m, m) {
				acc := split[key]
				acc.CustomerID = t.CustomerID
				acc.ArticleID = t.ArticleID
				acc.Hours += t.Hours
				acc.Amount += t.Amount
				split[key] = acc
			}
		}

		if len(whole) != len(split) {
			t.Fatalf("expected identical key sets, got %d vs %d", len(whole), len(split))
		}
		for key, want := range whole {
			got := split[key]
			if got.Hours != want.Hours || got.Amount != want.Amount {
				t.Errorf("key %s: whole=%+v split=%+v", key, want, got)
			}
		}
	})

	t.Run("inverted_range_returns_empty_map", func(t *testing.T) {
		entries := []models.BudgetEntry{publishedEntry(1, 1, 1, 2024, 1, 10, 1000)}
		totals := AggregateRange(entries, Month{2024, 6}, Month{2024, 1})
		if len(totals) != 0 {
			t.Errorf("expected empty totals, got %v", totals)
		}
	})
}
