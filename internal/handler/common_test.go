package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/dairy-collection/internal/model"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"120.50", "120.5", true},
		{"0", "0", true},
		{"35", "35", true},
		{"12.345", "", false}, // three decimals
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := parseMoney(c.in)
		assert.Equal(t, c.ok, ok, "input %q", c.in)
		if c.ok {
			assert.Equal(t, c.want, got.String(), "input %q", c.in)
		}
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate("2026-08-25"))
	assert.False(t, validDate("2026-8-25"))
	assert.False(t, validDate("25-08-2026"))
	assert.False(t, validDate("2026-08-25T00:00:00Z"))
	assert.False(t, validDate(""))
}

func TestCollectionRespFormatting(t *testing.T) {
	rec := model.CollectionRecord{
		ID:             7,
		SupplierID:     3,
		SupplierCode:   "S001",
		SupplierName:   "Ravi Kumar",
		CollectedOn:    "2026-08-25",
		QuantityLiters: decimal.RequireFromString("12.5"),
		FatPercent:     decimal.NullDecimal{Decimal: decimal.RequireFromString("4"), Valid: true},
		RatePerLiter:   decimal.RequireFromString("36.75"),
		TotalAmount:    decimal.RequireFromString("459.38"),
	}
	p := collectionResp(rec)
	assert.Equal(t, "12.50", p.QuantityLiters)
	assert.Equal(t, "36.75", p.RatePerLiter)
	assert.Equal(t, "459.38", p.TotalAmount)
	if assert.NotNil(t, p.FatPercent) {
		assert.Equal(t, "4.0", *p.FatPercent)
	}
	assert.Equal(t, "2026-08-25", p.Date)

	rec.FatPercent = decimal.NullDecimal{}
	p = collectionResp(rec)
	assert.Nil(t, p.FatPercent)
}
