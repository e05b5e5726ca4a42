// Package anaf contains catalogues and validations aligned with the ANAF
// e-Factura technical specification (RO_CIUS v1.0.1, based on EN 16931 /
// UBL 2.1). Pure lookup tables and checksum algorithms; no I/O.
package anaf

// =============================================================================
// Document type codes (UNTDID 1001, subset accepted by RO_CIUS)
// The code selects the document kind: 380/384/389 serialize as an Invoice,
// 381 serializes as a CreditNote with its own element names.
// =============================================================================

const (
	DocTypeCommercialInvoice = "380" // standard commercial invoice
	DocTypeCreditNote        = "381" // credit note (storno)
	DocTypeCorrectedInvoice  = "384" // corrected invoice
	DocTypeSelfBilledInvoice = "389" // self-billed invoice
)

// ValidDocumentTypeCodes lists the document type codes accepted for upload.
var ValidDocumentTypeCodes = map[string]bool{
	DocTypeCommercialInvoice: true,
	DocTypeCreditNote:        true,
	DocTypeCorrectedInvoice:  true,
	DocTypeSelfBilledInvoice: true,
}

// =============================================================================
// Unit of measure codes (UN/ECE Recommendation 20, common subset)
// =============================================================================

const (
	UnitEach        = "EA"  // each (default when the caller sends none)
	UnitPiece       = "H87" // piece
	UnitKilogram    = "KGM" // kilogram
	UnitGram        = "GRM" // gram
	UnitLitre       = "LTR" // litre
	UnitMetre       = "MTR" // metre
	UnitSquareMetre = "MTK" // square metre
	UnitCubicMetre  = "MTQ" // cubic metre
	UnitHour        = "HUR" // hour
	UnitDay         = "DAY" // day
)

// =============================================================================
// VAT category codes (UNTDID 5305, subset used by RO_CIUS)
// =============================================================================

const (
	TaxCategoryStandard   = "S" // standard rated
	TaxCategoryZeroRated  = "Z" // zero rated
	TaxCategoryNotSubject = "O" // services outside scope of tax (neplătitor de TVA)

	// ExemptionReasonNotSubject is the fixed VATEX code emitted together with
	// category O for suppliers that are not registered VAT payers.
	ExemptionReasonNotSubject = "VATEX-EU-O"
)

// =============================================================================
// Payment means codes (UNTDID 4461, common subset)
// =============================================================================

const (
	PaymentMeansCreditTransfer = "30" // credit transfer (IBAN in PayeeFinancialAccount)
	PaymentMeansCash           = "10" // cash
	PaymentMeansCard           = "48" // bank card
)

// =============================================================================
// Jurisdiction constants
// =============================================================================

const (
	// CountryCode is the domestic country code; addresses in this country
	// must carry a county normalizable to an ISO 3166-2:RO subdivision.
	CountryCode = "RO"

	// CurrencyCode is the domestic currency. Non-RON invoices restate the
	// VAT total in RON (cbc:TaxCurrencyCode + second cac:TaxTotal).
	CurrencyCode = "RON"
)
