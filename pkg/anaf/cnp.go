package anaf

import "time"

// cnpWeights is the official control key "279146358279" used for the CNP
// check digit (the 13th digit). A remainder of 10 maps to check digit 1.
var cnpWeights = [12]int{2, 7, 9, 1, 4, 6, 3, 5, 8, 2, 7, 9}

// cnpAnonymous is the placeholder CNP accepted for anonymous submissions
// (simplified invoices to unidentified individuals). It short-circuits all
// structural and checksum checks.
const cnpAnonymous = "0000000000000"

// IsValidPersonalIDFormat reports whether cnp is 13 digits. No date or
// checksum validation; use IsValidPersonalID for the strict variant.
func IsValidPersonalIDFormat(cnp string) bool {
	if len(cnp) != 13 {
		return false
	}
	for i := 0; i < len(cnp); i++ {
		if cnp[i] < '0' || cnp[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidPersonalID reports whether cnp is a valid Romanian personal numeric
// code: 13 digits, a recognized sex/century category digit, a valid embedded
// birth date and a correct modulo-11 check digit. The all-zero placeholder
// is always accepted.
func IsValidPersonalID(cnp string) bool {
	if !IsValidPersonalIDFormat(cnp) {
		return false
	}
	if cnp == cnpAnonymous {
		return true
	}

	century, ok := cnpCentury(cnp[0])
	if !ok {
		return false
	}
	year := century + int(cnp[1]-'0')*10 + int(cnp[2]-'0')
	month := int(cnp[3]-'0')*10 + int(cnp[4]-'0')
	day := int(cnp[5]-'0')*10 + int(cnp[6]-'0')
	if !isValidDate(year, month, day) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(cnp[i]-'0') * cnpWeights[i]
	}
	remainder := sum % 11
	if remainder == 10 {
		remainder = 1
	}
	return remainder == int(cnp[12]-'0')
}

// cnpCentury maps the category digit (sex + century) to the birth century.
// 1/2 born 1900-1999, 3/4 born 1800-1899, 5/6 born 2000-2099.
// 7/8 (residents) and 9 (foreign citizens) carry no century of their own;
// they are validated against the 1900s like categories 1/2.
func cnpCentury(category byte) (int, bool) {
	switch category {
	case '1', '2', '7', '8', '9':
		return 1900, true
	case '3', '4':
		return 1800, true
	case '5', '6':
		return 2000, true
	default:
		return 0, false
	}
}

// isValidDate checks the calendar date including month lengths and leap
// years, by letting time.Date normalize and comparing the round trip.
func isValidDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}
