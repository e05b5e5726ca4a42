package dto

import (
	"github.com/shopspring/decimal"
)

// PartyRequest is one side of the invoice as received over HTTP.
type PartyRequest struct {
	Name               string `json:"name"`
	TaxID              string `json:"tax_id"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	VATPayer           bool   `json:"vat_payer"`
	Street             string `json:"street"`
	City               string `json:"city"`
	PostalCode         string `json:"postal_code,omitempty"`
	County             string `json:"county,omitempty"`
	CountryCode        string `json:"country_code,omitempty"`
}

// LineRequest is one invoice line as received over HTTP. Quantity and rates
// are decimal strings; fiber's body parser feeds them to shopspring/decimal.
type LineRequest struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCode    string          `json:"unit_code,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateEInvoiceRequest is the build request. Dates use the YYYY-MM-DD layout.
type CreateEInvoiceRequest struct {
	InvoiceID          string         `json:"invoice_id"`
	IssueDate          string         `json:"issue_date"`
	DueDate            string         `json:"due_date,omitempty"`
	CurrencyCode       string         `json:"currency_code,omitempty"`
	PaymentIBAN        string         `json:"payment_iban,omitempty"`
	TypeCode           string         `json:"type_code,omitempty"`
	PrecedingInvoiceID string         `json:"preceding_invoice_id,omitempty"`
	Supplier           PartyRequest   `json:"supplier"`
	Customer           PartyRequest   `json:"customer"`
	Lines              []LineRequest  `json:"lines"`
}

// EInvoiceResponse describes a stored document. Amounts are fixed two-decimal
// strings, exactly as disclosed in the XML.
type EInvoiceResponse struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoice_id"`
	TypeCode    string `json:"type_code"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
	Taxable     string `json:"taxable"`
	Tax         string `json:"tax"`
	Gross       string `json:"gross"`
	UploadIndex string `json:"upload_index,omitempty"`
	Messages    string `json:"messages,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// EInvoiceListResponse is the paged listing body.
type EInvoiceListResponse struct {
	Items []EInvoiceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
