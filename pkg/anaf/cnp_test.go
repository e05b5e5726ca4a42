package anaf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/facturis/efactura-pro/pkg/anaf"
)

// Vectors computed against the official control key 279146358279:
//   1860513240151: category 1 (male, 1900s), born 1986-05-13, sum 241,
//                  241 mod 11 = 10 -> check digit 1.
//   2981231120011: category 2 (female, 1900s), born 1998-12-31, sum 199,
//                  199 mod 11 = 1.
//   5040229401232: category 5 (male, 2000s), born 2004-02-29 (leap year),
//                  sum 156, 156 mod 11 = 2.

func TestIsValidPersonalID_KnownVectors(t *testing.T) {
	assert.True(t, anaf.IsValidPersonalID("1860513240151"))
	assert.True(t, anaf.IsValidPersonalID("2981231120011"))
	assert.True(t, anaf.IsValidPersonalID("5040229401232"), "Feb 29 in a leap year is a valid birth date")
}

func TestIsValidPersonalID_AlteredCheckDigit(t *testing.T) {
	assert.False(t, anaf.IsValidPersonalID("1860513240150"), "altering the 13th digit must invalidate the CNP")
	assert.False(t, anaf.IsValidPersonalID("2981231120012"))
}

func TestIsValidPersonalID_AnonymousPlaceholder(t *testing.T) {
	assert.True(t, anaf.IsValidPersonalID("0000000000000"),
		"the all-zero CNP is the accepted placeholder for anonymous submissions")
	assert.False(t, anaf.IsValidPersonalID("0000000000001"),
		"category 0 is only legal as the all-zero placeholder")
}

func TestIsValidPersonalID_EmbeddedDate(t *testing.T) {
	assert.False(t, anaf.IsValidPersonalID("1861313240151"), "month 13 is not a date")
	assert.False(t, anaf.IsValidPersonalID("1860532240151"), "day 32 is not a date")
	assert.False(t, anaf.IsValidPersonalID("5050229401232"), "Feb 29 outside a leap year must fail")
	assert.False(t, anaf.IsValidPersonalID("1860400240151"), "day 00 is not a date")
}

func TestIsValidPersonalIDFormat(t *testing.T) {
	assert.True(t, anaf.IsValidPersonalIDFormat("1860513240150"), "format-only check ignores the checksum")
	assert.False(t, anaf.IsValidPersonalIDFormat("186051324015"), "12 digits is too short")
	assert.False(t, anaf.IsValidPersonalIDFormat("18605132401511"), "14 digits is too long")
	assert.False(t, anaf.IsValidPersonalIDFormat("186051324015A"))
	assert.False(t, anaf.IsValidPersonalIDFormat(""))
}
