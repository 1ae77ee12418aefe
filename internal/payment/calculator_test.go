package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("flat")
	require.NoError(t, err)
	assert.Equal(t, ModeFlat, m)

	m, err = ParseMode(" fat_adjusted ")
	require.NoError(t, err)
	assert.Equal(t, ModeFatAdjusted, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeFlat, m)

	_, err = ParseMode("per-kg")
	assert.Error(t, err)
}

func TestCalculateFlat(t *testing.T) {
	res := Calculate(ModeFlat, dec("120.50"), dec("35.00"), decimal.NullDecimal{})
	assert.True(t, res.TotalAmount.Equal(dec("4217.50")), "got %s", res.TotalAmount)
	assert.True(t, res.RatePerLiter.Equal(dec("35.00")))
}

func TestCalculateFlatRoundsToMinorUnit(t *testing.T) {
	// 3.33 * 0.33 = 1.0989 -> 1.10
	res := Calculate(ModeFlat, dec("0.33"), dec("3.33"), decimal.NullDecimal{})
	assert.True(t, res.TotalAmount.Equal(dec("1.10")), "got %s", res.TotalAmount)
}

func TestCalculateFatAdjusted(t *testing.T) {
	// base 40.00 at 5% fat -> 42.00/L, 10 L -> 420.00
	res := Calculate(ModeFatAdjusted, dec("10"), dec("40.00"), nullDec("5"))
	assert.True(t, res.RatePerLiter.Equal(dec("42.00")), "got %s", res.RatePerLiter)
	assert.True(t, res.TotalAmount.Equal(dec("420.00")), "got %s", res.TotalAmount)
}

func TestCalculateFatAdjustedZeroFatEqualsFlat(t *testing.T) {
	flat := Calculate(ModeFlat, dec("87.25"), dec("33.50"), decimal.NullDecimal{})
	adjusted := Calculate(ModeFatAdjusted, dec("87.25"), dec("33.50"), nullDec("0"))
	assert.True(t, flat.TotalAmount.Equal(adjusted.TotalAmount))
	assert.True(t, flat.RatePerLiter.Equal(adjusted.RatePerLiter))
}

func TestCalculateFatAdjustedMissingFatIsZeroAdjustment(t *testing.T) {
	res := Calculate(ModeFatAdjusted, dec("12.00"), dec("30.00"), decimal.NullDecimal{})
	assert.True(t, res.RatePerLiter.Equal(dec("30.00")))
	assert.True(t, res.TotalAmount.Equal(dec("360.00")))
}

func TestTotalMatchesStoredRateTimesQuantity(t *testing.T) {
	// The persisted invariant: total == round(qty * stored rate, 2),
	// including when the rate itself was fat-derived.
	res := Calculate(ModeFatAdjusted, dec("120.50"), dec("35.00"), nullDec("4"))
	recomputed := dec("120.50").Mul(res.RatePerLiter).Round(2)
	assert.True(t, res.TotalAmount.Equal(recomputed))
}
