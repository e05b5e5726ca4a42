package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EInvoiceDocument is the persisted outcome of one build: the serialized
// XML, the disclosed totals and the ANAF upload state. The business invoice
// identity (series + number) lives in InvoiceID; ID is a surrogate key.
type EInvoiceDocument struct {
	ID            string
	InvoiceID     string
	IssueDate     time.Time
	CurrencyCode  string
	TypeCode      string
	SupplierName  string
	SupplierTaxID string
	CustomerName  string
	CustomerTaxID string

	Status      string // EFacturaStatus* constants
	Fingerprint string // SHA-384 of the canonical XML, dedup key
	XML         string

	Taxable decimal.Decimal
	Tax     decimal.Decimal
	Gross   decimal.Decimal

	UploadIndex string // index_incarcare returned by the ANAF upload
	DownloadID  string // id_descarcare once ANAF finished processing
	Messages    string // ANAF error/rejection messages, if any

	CreatedAt time.Time
	UpdatedAt time.Time
}
