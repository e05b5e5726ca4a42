package anaf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facturis/efactura-pro/pkg/anaf"
)

func TestIsValidTaxID_KnownVector(t *testing.T) {
	// 18547290: base 1854729 padded to 001854729, control 753217532,
	// sum 111, 111*10 mod 11 = 10 -> check digit 0.
	assert.True(t, anaf.IsValidTaxID("18547290"), "known-good CUI must validate")
	assert.True(t, anaf.IsValidTaxID("RO18547290"), "RO prefix must be accepted")
	assert.True(t, anaf.IsValidTaxID("ro18547290"), "prefix match is case-insensitive")
	assert.True(t, anaf.IsValidTaxID(" RO18547290 "), "surrounding whitespace is tolerated")
}

func TestIsValidTaxID_AlteredCheckDigit(t *testing.T) {
	assert.False(t, anaf.IsValidTaxID("18547291"), "altering the check digit must invalidate the CUI")
	assert.False(t, anaf.IsValidTaxID("RO18547299"))
}

func TestIsValidTaxID_MinimumLength(t *testing.T) {
	// Base digit 1 padded to 000000001: sum 2, 20 mod 11 = 9.
	assert.True(t, anaf.IsValidTaxID("19"), "two digits is the shortest legal CUI")
	assert.False(t, anaf.IsValidTaxID("18"))
}

func TestIsValidTaxIDFormat(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"18547290", true},
		{"RO18547290", true},
		{"RO18547291", true}, // format-only: bad checksum still passes
		{"19", true},
		{"1234567890", true},
		{"1", false},            // below 2 digits
		{"12345678901", false},  // above 10 digits
		{"RO", false},           // prefix only
		{"RO1854729A", false},   // non-digit
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, anaf.IsValidTaxIDFormat(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeTaxID(t *testing.T) {
	assert.Equal(t, "RO18547290", anaf.NormalizeTaxID("18547290"))
	assert.Equal(t, "RO18547290", anaf.NormalizeTaxID("RO18547290"), "prefix must not be doubled")
	assert.Equal(t, "18547290", anaf.StripTaxIDPrefix("RO18547290"))
	assert.Equal(t, "18547290", anaf.StripTaxIDPrefix("18547290"))
}
