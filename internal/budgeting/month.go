// Package budgeting implements the budget effectiveness evaluation and
// range aggregation rules. Everything here is a pure function over
// already-fetched budget entries; persistence stays in the services layer.
package budgeting

import "fmt"

// Month identifies a calendar month.
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool {
	return o.Before(m)
}

// Next returns the following calendar month, rolling over the year.
func (m Month) Next() Month {
	if m.Month >= 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding calendar month, rolling over the year.
func (m Month) Prev() Month {
	if m.Month <= 1 {
		return Month{Year: m.Year - 1, Month: 12}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Months enumerates every month from start to end inclusive. A start
// later than end yields an empty slice; an invalid range is the
// caller's mistake, not an error.
func Months(start, end Month) []Month {
	if start.After(end) {
		return nil
	}
	var out []Month
	for m := start; !m.After(end); m = m.Next() {
		out = append(out, m)
	}
	return out
}
