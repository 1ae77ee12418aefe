package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dairy-collection/internal/model"
)

func rec(supplier uint64, date, qty, rate, total string, fat *string) model.CollectionRecord {
	r := model.CollectionRecord{
		SupplierID:     supplier,
		CollectedOn:    date,
		QuantityLiters: decimal.RequireFromString(qty),
		RatePerLiter:   decimal.RequireFromString(rate),
		TotalAmount:    decimal.RequireFromString(total),
	}
	if fat != nil {
		r.FatPercent = decimal.NullDecimal{Decimal: decimal.RequireFromString(*fat), Valid: true}
	}
	return r
}

func strp(s string) *string { return &s }

func TestSummarizeEmptyIsAllZero(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Entries)
	assert.Equal(t, 0, s.FatSamples)
	assert.True(t, s.TotalLiters.IsZero())
	assert.True(t, s.TotalAmount.IsZero())
	assert.True(t, s.AverageFat.IsZero())
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize([]model.CollectionRecord{
		rec(1, "2026-08-24", "120.50", "35.00", "4217.50", nil),
		rec(1, "2026-08-25", "10.00", "35.00", "350.00", nil),
	})
	assert.Equal(t, 2, s.Entries)
	assert.True(t, s.TotalLiters.Equal(decimal.RequireFromString("130.50")), "got %s", s.TotalLiters)
	assert.True(t, s.TotalAmount.Equal(decimal.RequireFromString("4567.50")), "got %s", s.TotalAmount)
}

func TestAverageFatExcludesMissingEntries(t *testing.T) {
	// [4, null, 6] -> average 5, not (4+0+6)/3.
	s := Summarize([]model.CollectionRecord{
		rec(1, "2026-08-25", "10", "30", "300.00", strp("4")),
		rec(2, "2026-08-25", "10", "30", "300.00", nil),
		rec(3, "2026-08-25", "10", "30", "300.00", strp("6")),
	})
	assert.Equal(t, 2, s.FatSamples)
	assert.True(t, s.AverageFat.Equal(decimal.RequireFromString("5")), "got %s", s.AverageFat)
}

func TestDailySummariesGroupsByLiteralDate(t *testing.T) {
	out := DailySummaries([]model.CollectionRecord{
		rec(1, "2026-08-25", "10", "30", "300.00", nil),
		rec(2, "2026-08-25", "20", "30", "600.00", nil),
		// Same calendar day written in a different stored format must
		// never merge with the group above.
		rec(3, "2026-08-25T00:00:00Z", "5", "30", "150.00", nil),
		rec(1, "2026-08-24", "7", "30", "210.00", nil),
	})
	require.Len(t, out, 3)

	byDate := map[string]DailySummary{}
	for _, d := range out {
		byDate[d.Date] = d
	}
	same := byDate["2026-08-25"]
	assert.Equal(t, 2, same.Entries)
	assert.True(t, same.TotalLiters.Equal(decimal.RequireFromString("30")))
	assert.Equal(t, 1, byDate["2026-08-25T00:00:00Z"].Entries)
	assert.Equal(t, 1, byDate["2026-08-24"].Entries)
}

func TestDailySummariesSortedDescending(t *testing.T) {
	out := DailySummaries([]model.CollectionRecord{
		rec(1, "2026-08-23", "1", "30", "30.00", nil),
		rec(1, "2026-08-25", "1", "30", "30.00", nil),
		rec(1, "2026-08-24", "1", "30", "30.00", nil),
	})
	require.Len(t, out, 3)
	assert.Equal(t, "2026-08-25", out[0].Date)
	assert.Equal(t, "2026-08-24", out[1].Date)
	assert.Equal(t, "2026-08-23", out[2].Date)
}

func TestDailySummariesEmptyInput(t *testing.T) {
	assert.Empty(t, DailySummaries(nil))
}
