package efactura

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/facturis/efactura-pro/internal/domain/entity"
	"github.com/facturis/efactura-pro/pkg/anaf"
)

// Stable rule identifiers. Callers match on these programmatically; the
// messages are free to change, the identifiers are not.
const (
	RuleInvoiceIDRequired    = "invoice-id-required"
	RuleIssueDateRequired    = "issue-date-required"
	RulePartyNameRequired    = "party-name-required"
	RulePartyTaxIDRequired   = "party-tax-id-required"
	RulePartyStreetRequired  = "party-street-required"
	RulePartyCityRequired    = "party-city-required"
	RuleLinesRequired        = "lines-required"
	RuleLineNameRequired     = "line-name-required"
	RuleLineQuantityZero     = "line-quantity-zero"
	RuleLinePriceNegative    = "line-price-negative"
	RuleLineTaxRateRange     = "line-tax-rate-range"
	RuleInvoiceIDTooLong     = "invoice-id-too-long"
	RulePartyNameTooLong     = "party-name-too-long"
	RulePartyTaxIDTooLong    = "party-tax-id-too-long"
	RuleStreetTooLong        = "street-too-long"
	RuleCityTooLong          = "city-too-long"
	RulePostalCodeTooLong    = "postal-code-too-long"
	RuleLineNameTooLong      = "line-name-too-long"
	RuleLineDescTooLong      = "line-description-too-long"
	RuleInvoiceIDNeedsDigit  = "invoice-id-needs-digit"
	RuleCountyRequired       = "county-required"
	RuleCountyUnknown        = "county-unknown"
	RuleDocTypeUnknown       = "document-type-unknown"
)

// Field length ceilings (in runes) accepted by the upload service.
const (
	maxLenInvoiceID  = 30
	maxLenPartyName  = 200
	maxLenTaxID      = 20
	maxLenStreet     = 150
	maxLenCity       = 60
	maxLenPostalCode = 15
	maxLenLineName   = 200
	maxLenLineDesc   = 500
)

// ValidationFailure is a single business-rule violation. Always recoverable
// by correcting the input; returned, never panicked.
type ValidationFailure struct {
	Rule    string // stable identifier, see the Rule* constants
	Message string
}

func (f *ValidationFailure) Error() string {
	return f.Rule + ": " + f.Message
}

func failf(rule, format string, args ...any) *ValidationFailure {
	return &ValidationFailure{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// invoiceChecks is the ordered rule table. Evaluation short-circuits on the
// first failure; the order is part of the contract (callers show one
// actionable message at a time) and is pinned by tests.
var invoiceChecks = []func(*entity.Invoice) *ValidationFailure{
	checkStructural,
	checkLines,
	checkLengths,
	checkIDHasDigit,
	checkCounties,
	checkDocumentType,
}

// Validate runs the ordered business-rule table against the invoice and
// returns the first failure, or nil when the invoice is fit for building.
func Validate(inv *entity.Invoice) error {
	for _, check := range invoiceChecks {
		if f := check(inv); f != nil {
			return f
		}
	}
	return nil
}

func checkStructural(inv *entity.Invoice) *ValidationFailure {
	if inv.ID == "" {
		return failf(RuleInvoiceIDRequired, "invoice identifier is required")
	}
	if inv.IssueDate.IsZero() {
		return failf(RuleIssueDateRequired, "issue date is required")
	}
	for _, p := range []struct {
		role  string
		party *entity.Party
	}{
		{"supplier", &inv.Supplier},
		{"customer", &inv.Customer},
	} {
		if p.party.Name == "" {
			return failf(RulePartyNameRequired, "%s registration name is required", p.role)
		}
		if p.party.TaxID == "" {
			return failf(RulePartyTaxIDRequired, "%s tax identifier is required", p.role)
		}
		if p.party.Address.Street == "" {
			return failf(RulePartyStreetRequired, "%s street is required", p.role)
		}
		if p.party.Address.City == "" {
			return failf(RulePartyCityRequired, "%s city is required", p.role)
		}
	}
	return nil
}

func checkLines(inv *entity.Invoice) *ValidationFailure {
	if len(inv.Lines) == 0 {
		return failf(RuleLinesRequired, "invoice must have at least one line")
	}
	allowZero := inv.Kind().AllowZeroQuantity()
	for i := range inv.Lines {
		line := &inv.Lines[i]
		pos := i + 1
		if line.Name == "" {
			return failf(RuleLineNameRequired, "line %d: item name is required", pos)
		}
		if line.Quantity.IsZero() && !allowZero {
			return failf(RuleLineQuantityZero, "line %d: quantity must not be zero", pos)
		}
		if line.UnitPrice.IsNegative() {
			return failf(RuleLinePriceNegative, "line %d: unit price must not be negative", pos)
		}
		if line.TaxRate.IsNegative() || line.TaxRate.GreaterThan(oneHundred) {
			return failf(RuleLineTaxRateRange, "line %d: tax rate must be between 0 and 100", pos)
		}
	}
	return nil
}

func checkLengths(inv *entity.Invoice) *ValidationFailure {
	if utf8.RuneCountInString(inv.ID) > maxLenInvoiceID {
		return failf(RuleInvoiceIDTooLong, "invoice identifier exceeds %d characters", maxLenInvoiceID)
	}
	for _, p := range []struct {
		role  string
		party *entity.Party
	}{
		{"supplier", &inv.Supplier},
		{"customer", &inv.Customer},
	} {
		if utf8.RuneCountInString(p.party.Name) > maxLenPartyName {
			return failf(RulePartyNameTooLong, "%s name exceeds %d characters", p.role, maxLenPartyName)
		}
		if utf8.RuneCountInString(p.party.TaxID) > maxLenTaxID {
			return failf(RulePartyTaxIDTooLong, "%s tax identifier exceeds %d characters", p.role, maxLenTaxID)
		}
		if utf8.RuneCountInString(p.party.Address.Street) > maxLenStreet {
			return failf(RuleStreetTooLong, "%s street exceeds %d characters", p.role, maxLenStreet)
		}
		if utf8.RuneCountInString(p.party.Address.City) > maxLenCity {
			return failf(RuleCityTooLong, "%s city exceeds %d characters", p.role, maxLenCity)
		}
		if utf8.RuneCountInString(p.party.Address.PostalCode) > maxLenPostalCode {
			return failf(RulePostalCodeTooLong, "%s postal code exceeds %d characters", p.role, maxLenPostalCode)
		}
	}
	for i := range inv.Lines {
		line := &inv.Lines[i]
		if utf8.RuneCountInString(line.Name) > maxLenLineName {
			return failf(RuleLineNameTooLong, "line %d: item name exceeds %d characters", i+1, maxLenLineName)
		}
		if utf8.RuneCountInString(line.Description) > maxLenLineDesc {
			return failf(RuleLineDescTooLong, "line %d: description exceeds %d characters", i+1, maxLenLineDesc)
		}
	}
	return nil
}

func checkIDHasDigit(inv *entity.Invoice) *ValidationFailure {
	for _, r := range inv.ID {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return failf(RuleInvoiceIDNeedsDigit, "invoice identifier %q must contain at least one digit", inv.ID)
}

// checkCounties enforces the domestic-address county rules: presence is
// required (never silently defaulted) and the literal must normalize to an
// ISO 3166-2:RO code. Non-domestic regions pass through unvalidated.
func checkCounties(inv *entity.Invoice) *ValidationFailure {
	for _, p := range []struct {
		role  string
		party *entity.Party
	}{
		{"supplier", &inv.Supplier},
		{"customer", &inv.Customer},
	} {
		addr := &p.party.Address
		if !addr.IsDomestic() {
			continue
		}
		if addr.County == "" {
			return failf(RuleCountyRequired, "%s address: county is required for Romanian addresses", p.role)
		}
		if _, ok := anaf.NormalizeCounty(addr.County); !ok {
			return failf(RuleCountyUnknown, "%s address: unknown county %q", p.role, addr.County)
		}
	}
	return nil
}

func checkDocumentType(inv *entity.Invoice) *ValidationFailure {
	if code := inv.DocumentTypeCode(); !anaf.ValidDocumentTypeCodes[code] {
		return failf(RuleDocTypeUnknown, "unsupported document type code %q", code)
	}
	return nil
}
