// Package stats turns collection records into the summary figures the
// dashboards show. Summaries are always recomputed from the full row
// set handed in; running totals are never patched incrementally, since
// an average cannot be updated without its prior count and sum.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/dairy-collection/internal/model"
)

// Summary is the common shape of every aggregate: lifetime, windowed
// or per day. An empty input yields the zero value, never an error.
type Summary struct {
	TotalLiters decimal.Decimal `json:"total_liters"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Entries     int             `json:"entries"`
	// AverageFat is computed only over records that carry a fat
	// percentage; records without one are excluded from the
	// denominator, not counted as zero. FatSamples is that
	// denominator so callers can tell "no data" from "0%".
	AverageFat decimal.Decimal `json:"average_fat"`
	FatSamples int             `json:"fat_samples"`
}

// DailySummary groups one calendar day across all suppliers in the
// input. Date is the literal stored date string.
type DailySummary struct {
	Date string `json:"date"`
	Summary
}

// Summarize folds records into a single Summary.
func Summarize(records []model.CollectionRecord) Summary {
	var s Summary
	var fatSum decimal.Decimal
	for _, r := range records {
		s.TotalLiters = s.TotalLiters.Add(r.QuantityLiters)
		s.TotalAmount = s.TotalAmount.Add(r.TotalAmount)
		s.Entries++
		if r.FatPercent.Valid {
			fatSum = fatSum.Add(r.FatPercent.Decimal)
			s.FatSamples++
		}
	}
	if s.FatSamples > 0 {
		s.AverageFat = fatSum.Div(decimal.NewFromInt(int64(s.FatSamples))).Round(2)
	}
	return s
}

// DailySummaries groups records by their stored date string and
// summarizes each group. Two records land in the same group if and
// only if their date strings are byte-identical; nothing is parsed,
// so a timezone can never move a record across days. Output is
// sorted descending by date (most recent first), which is correct
// lexicographically for YYYY-MM-DD values.
func DailySummaries(records []model.CollectionRecord) []DailySummary {
	byDate := make(map[string][]model.CollectionRecord)
	for _, r := range records {
		byDate[r.CollectedOn] = append(byDate[r.CollectedOn], r)
	}
	out := make([]DailySummary, 0, len(byDate))
	for date, group := range byDate {
		out = append(out, DailySummary{Date: date, Summary: Summarize(group)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
