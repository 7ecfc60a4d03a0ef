// Package reporting derives the admin dashboard figures from the order
// collection.
package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"sportsgear/internal/repository"
)

const dayLayout = "2006-01-02"

// DayTotal is the order volume of one UTC calendar day.
type DayTotal struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Sales decimal.Decimal `json:"sales"`
}

// GroupByDay buckets sales by the UTC day they were created on, oldest
// first.
func GroupByDay(records []repository.SaleRecord) []DayTotal {
	byDay := make(map[string]*DayTotal)
	for _, r := range records {
		day := r.CreatedAt.UTC().Format(dayLayout)
		t, ok := byDay[day]
		if !ok {
			t = &DayTotal{Date: day, Sales: decimal.Zero}
			byDay[day] = t
		}
		t.Count++
		t.Sales = t.Sales.Add(decimal.NewFromFloat(r.TotalPrice))
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, t := range byDay {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Sum adds up the sales of every day.
func Sum(days []DayTotal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.Sales)
	}
	return total
}

// Newest returns a copy of days ordered most recent first.
func Newest(days []DayTotal) []DayTotal {
	out := make([]DayTotal, len(days))
	for i, d := range days {
		out[len(days)-1-i] = d
	}
	return out
}
