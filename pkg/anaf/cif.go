package anaf

import "strings"

// cifWeights is the official control key for the CUI/CIF check digit
// (Ministerul Finanțelor). Applied right-aligned to the 9 digits preceding
// the check digit, after left-padding with zeros.
var cifWeights = [9]int{7, 5, 3, 2, 1, 7, 5, 3, 2}

// IsValidTaxIDFormat reports whether taxID looks like a Romanian CUI/CIF:
// an optional RO prefix followed by 2 to 10 digits. No checksum is applied;
// use IsValidTaxID for the strict variant.
func IsValidTaxIDFormat(taxID string) bool {
	digits := stripTaxIDPrefix(taxID)
	if len(digits) < 2 || len(digits) > 10 {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidTaxID reports whether taxID is a well-formed CUI/CIF with a correct
// modulo-11 check digit. The last digit is the check digit; the preceding
// digits are left-padded to 9 positions and multiplied against cifWeights.
// A remainder of 10 maps to check digit 0.
func IsValidTaxID(taxID string) bool {
	if !IsValidTaxIDFormat(taxID) {
		return false
	}
	digits := stripTaxIDPrefix(taxID)
	check := int(digits[len(digits)-1] - '0')
	base := digits[:len(digits)-1]

	var padded [9]byte
	for i := range padded {
		padded[i] = '0'
	}
	copy(padded[9-len(base):], base)

	sum := 0
	for i, d := range padded {
		sum += int(d-'0') * cifWeights[i]
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		remainder = 0
	}
	return remainder == check
}

// NormalizeTaxID returns the CIF in its VAT form: RO prefix plus digits.
// Used for cac:PartyTaxScheme/cbc:CompanyID of registered VAT payers.
func NormalizeTaxID(taxID string) string {
	return "RO" + stripTaxIDPrefix(taxID)
}

// StripTaxIDPrefix returns the bare digits of the CIF, without the RO
// prefix. Used for cac:PartyLegalEntity/cbc:CompanyID, which carries the
// unprefixed registry form.
func StripTaxIDPrefix(taxID string) string {
	return stripTaxIDPrefix(taxID)
}

func stripTaxIDPrefix(taxID string) string {
	s := strings.TrimSpace(taxID)
	if len(s) >= 2 && strings.EqualFold(s[:2], "RO") {
		s = s[2:]
	}
	return strings.TrimSpace(s)
}
