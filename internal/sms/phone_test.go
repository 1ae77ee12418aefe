package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBareNationalNumber(t *testing.T) {
	got, err := Normalize("98765 43210", "+91")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)
}

func TestNormalizeKeepsExistingCountryCode(t *testing.T) {
	got, err := Normalize("+91-98765-43210", "+1")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	got, err = Normalize("00919876543210", "+1")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)
}

func TestNormalizeStripsPunctuation(t *testing.T) {
	got, err := Normalize("(987) 654-3210", "91")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)
}

func TestNormalizeRejectsShortInput(t *testing.T) {
	_, err := Normalize("12345", "+91")
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = Normalize("", "+91")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestNormalizeIsDeterministicAcrossFormats(t *testing.T) {
	a, err := Normalize("98765 43210", "+91")
	require.NoError(t, err)
	b, err := Normalize("+91 98765-43210", "+91")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPseudoEmail(t *testing.T) {
	assert.Equal(t, "919876543210@sms.local", PseudoEmail("+919876543210"))
}
