package entity

import (
	"github.com/shopspring/decimal"

	"github.com/facturis/efactura-pro/pkg/anaf"
)

// DocumentKind is the structural variant of the output document. It is
// selected once at build start from the type code and dispatched; the
// builder never re-checks the raw code.
type DocumentKind int

const (
	// KindInvoice serializes as a UBL Invoice (type codes 380, 384, 389).
	KindInvoice DocumentKind = iota
	// KindCreditNote serializes as a UBL CreditNote (type code 381):
	// CreditNoteLine/CreditedQuantity element names and an inverted sign
	// convention for quantities and amounts.
	KindCreditNote
)

// KindForTypeCode maps a UNTDID 1001 code to its document kind. Unknown
// codes fall back to the invoice shape; the validator rejects them earlier.
func KindForTypeCode(code string) DocumentKind {
	if code == anaf.DocTypeCreditNote {
		return KindCreditNote
	}
	return KindInvoice
}

var minusOne = decimal.NewFromInt(-1)

// SignFactor is the factor applied exactly once to quantities and monetary
// values at serialization. Credit notes are modeled internally as
// negative-quantity invoices; negating on output yields a positive UBL
// CreditNote.
func (k DocumentKind) SignFactor() decimal.Decimal {
	if k == KindCreditNote {
		return minusOne
	}
	return decimal.NewFromInt(1)
}

// AllowZeroQuantity is the per-kind zero-quantity policy consulted by the
// business-rule validator. Both kinds reject zero today; the boundary has
// shifted across revisions of the compliance rules, so it stays a policy
// rather than a constant in the rule itself.
func (k DocumentKind) AllowZeroQuantity() bool {
	return false
}

func (k DocumentKind) String() string {
	if k == KindCreditNote {
		return "credit-note"
	}
	return "invoice"
}
