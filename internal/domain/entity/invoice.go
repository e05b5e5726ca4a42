package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturis/efactura-pro/pkg/anaf"
)

// Upload lifecycle states of a built e-Factura document.
const (
	EFacturaStatusDraft    = "DRAFT"    // stored, XML not yet generated
	EFacturaStatusBuilt    = "BUILT"    // XML generated and validated locally
	EFacturaStatusSent     = "SENT"     // uploaded to ANAF, answer pending
	EFacturaStatusAccepted = "ACCEPTED" // accepted by ANAF
	EFacturaStatusRejected = "REJECTED" // rejected by ANAF with messages
	EFacturaStatusError    = "ERROR"    // generation or transport error
)

// Invoice is the normalized input of the document builder. The builder
// borrows it immutably: no method here or downstream mutates it.
type Invoice struct {
	ID                 string     // series + number, must contain a digit
	IssueDate          time.Time
	DueDate            *time.Time
	CurrencyCode       string // ISO 4217; empty means RON
	PaymentIBAN        string // optional; emits cac:PaymentMeans when set
	TypeCode           string // UNTDID 1001; empty means 380
	PrecedingInvoiceID string // referenced invoice, for credit notes
	Supplier           Party
	Customer           Party
	Lines              []Line
}

// Currency returns the document currency, defaulting to RON.
func (i *Invoice) Currency() string {
	if i.CurrencyCode == "" {
		return anaf.CurrencyCode
	}
	return i.CurrencyCode
}

// DocumentTypeCode returns the type code, defaulting to 380.
func (i *Invoice) DocumentTypeCode() string {
	if i.TypeCode == "" {
		return anaf.DocTypeCommercialInvoice
	}
	return i.TypeCode
}

// Kind returns the structural variant selected by the type code.
func (i *Invoice) Kind() DocumentKind {
	return KindForTypeCode(i.DocumentTypeCode())
}

// Party is one side of the invoice (supplier or customer).
type Party struct {
	Name               string // legal registration name
	TaxID              string // CUI/CIF, accepted with or without RO prefix
	RegistrationNumber string // trade register number (J40/...), optional
	VATPayer           bool   // registered VAT payer (plătitor de TVA)
	Address            Address
}

// Address is a postal address. County is required and validated only for
// domestic (RO) addresses; for other countries it passes through untouched.
type Address struct {
	Street      string
	City        string
	PostalCode  string // optional
	County      string // free text; normalized to ISO 3166-2:RO when domestic
	CountryCode string // ISO 3166-1 alpha-2; empty means RO
}

// Country returns the country code, defaulting to the domestic RO.
func (a *Address) Country() string {
	if a.CountryCode == "" {
		return anaf.CountryCode
	}
	return a.CountryCode
}

// IsDomestic reports whether the address is in the domestic jurisdiction.
func (a *Address) IsDomestic() bool {
	return a.Country() == anaf.CountryCode
}

// Line is one invoice line. Quantity is signed: negative quantities model
// returns/credits and propagate as-is into totals and the serialized line.
type Line struct {
	ID          string // optional explicit identifier; positional otherwise
	Name        string
	Description string // optional
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // non-negative
	UnitCode    string          // UN/ECE Rec 20; empty means EA
	TaxRate     decimal.Decimal // VAT percent, 0-100 inclusive
}

// Unit returns the unit-of-measure code, defaulting to "each".
func (l *Line) Unit() string {
	if l.UnitCode == "" {
		return anaf.UnitEach
	}
	return l.UnitCode
}

// RawExtension is the unrounded quantity × unit price. Rounding happens at
// the single disclosed-total points in the aggregator, never here.
func (l *Line) RawExtension() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}
