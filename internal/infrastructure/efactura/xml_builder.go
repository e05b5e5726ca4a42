// Package efactura builds the UBL 2.1 / CIUS-RO document accepted by the
// ANAF e-Factura upload service, from a validated, aggregated invoice.
package efactura

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	domain "github.com/facturis/efactura-pro/internal/domain/efactura"
	"github.com/facturis/efactura-pro/internal/domain/entity"
	"github.com/facturis/efactura-pro/pkg/anaf"
)

// UBL 2.1 namespaces and the CIUS-RO customization identifier.
const (
	NsInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	// Common Aggregate Components
	NsCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	// Common Basic Components
	NsCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	// CustomizationID required by ANAF (RO_CIUS 1.0.1 over EN 16931).
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1"
	UBLVersion      = "2.1"

	dateLayout = "2006-01-02"
)

// BuildResult is the outcome of one build: the serialized document plus the
// computed totals, so callers persist exactly what was disclosed in the XML.
type BuildResult struct {
	XML    []byte
	Totals domain.Totals
}

// XMLBuilderService assembles the UBL document. Stateless; one instance may
// be shared across goroutines.
type XMLBuilderService struct{}

// NewXMLBuilderService creates the service.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build validates the invoice, aggregates its VAT groups and emits the
// CIUS-RO document. The invoice is borrowed immutably. On a business-rule
// violation the returned error is the *efactura.ValidationFailure; there is
// no partial output.
func (s *XMLBuilderService) Build(inv *entity.Invoice) (*BuildResult, error) {
	if inv == nil {
		return nil, fmt.Errorf("efactura: nil invoice")
	}
	if err := domain.Validate(inv); err != nil {
		return nil, err
	}

	totals := domain.AggregateTaxes(inv.Lines, inv.Supplier.VATPayer)
	kind := inv.Kind()
	sign := kind.SignFactor()
	currency := inv.Currency()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(rootElementName(kind))
	root.CreateAttr("xmlns", rootNamespace(kind))
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	addCbc(root, "UBLVersionID", UBLVersion)
	addCbc(root, "CustomizationID", CustomizationID)
	addCbc(root, "ID", inv.ID)
	addCbc(root, "IssueDate", inv.IssueDate.Format(dateLayout))
	if inv.DueDate != nil {
		addCbc(root, "DueDate", inv.DueDate.Format(dateLayout))
	}
	addCbc(root, typeCodeElementName(kind), inv.DocumentTypeCode())
	addCbc(root, "DocumentCurrencyCode", currency)
	if currency != anaf.CurrencyCode {
		// VAT must additionally be restated in the domestic currency.
		addCbc(root, "TaxCurrencyCode", anaf.CurrencyCode)
	}

	if inv.PrecedingInvoiceID != "" {
		billingRef := addCac(root, "BillingReference")
		docRef := addCac(billingRef, "InvoiceDocumentReference")
		addCbc(docRef, "ID", inv.PrecedingInvoiceID)
	}

	s.writeParty(addCac(root, "AccountingSupplierParty"), &inv.Supplier)
	s.writeParty(addCac(root, "AccountingCustomerParty"), &inv.Customer)

	if inv.PaymentIBAN != "" {
		paymentMeans := addCac(root, "PaymentMeans")
		addCbc(paymentMeans, "PaymentMeansCode", anaf.PaymentMeansCreditTransfer)
		account := addCac(paymentMeans, "PayeeFinancialAccount")
		addCbc(account, "ID", inv.PaymentIBAN)
	}

	s.writeTaxTotal(root, totals, currency, sign)
	if currency != anaf.CurrencyCode {
		// Second TaxTotal block: the tax amount restated under RON. The data
		// model carries no exchange rate, so the restatement is 1:1; callers
		// needing a true conversion convert before building.
		ronTotal := addCac(root, "TaxTotal")
		addAmount(ronTotal, "TaxAmount", totals.Tax.Mul(sign), anaf.CurrencyCode)
	}

	s.writeMonetaryTotal(root, totals, currency, sign)

	for i := range inv.Lines {
		s.writeLine(root, kind, &inv.Lines[i], i+1, inv.Supplier.VATPayer, currency, sign)
	}

	doc.Indent(2)
	xmlBytes, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("efactura: serialize document: %w", err)
	}
	return &BuildResult{XML: xmlBytes, Totals: totals}, nil
}

func rootElementName(kind entity.DocumentKind) string {
	if kind == entity.KindCreditNote {
		return "CreditNote"
	}
	return "Invoice"
}

func rootNamespace(kind entity.DocumentKind) string {
	if kind == entity.KindCreditNote {
		return NsCreditNote
	}
	return NsInvoice
}

func typeCodeElementName(kind entity.DocumentKind) string {
	if kind == entity.KindCreditNote {
		return "CreditNoteTypeCode"
	}
	return "InvoiceTypeCode"
}

func quantityElementName(kind entity.DocumentKind) string {
	if kind == entity.KindCreditNote {
		return "CreditedQuantity"
	}
	return "InvoicedQuantity"
}

func lineElementName(kind entity.DocumentKind) string {
	if kind == entity.KindCreditNote {
		return "CreditNoteLine"
	}
	return "InvoiceLine"
}

// writeParty emits the cac:Party block. The compliance-mandated divergence:
// PartyTaxScheme (present only for registered VAT payers) carries the
// RO-prefixed VAT form of the identifier, while PartyLegalEntity always
// carries the raw, unprefixed registry form.
func (s *XMLBuilderService) writeParty(container *etree.Element, party *entity.Party) {
	p := addCac(container, "Party")

	s.writeAddress(addCac(p, "PostalAddress"), &party.Address)

	if party.VATPayer {
		taxScheme := addCac(p, "PartyTaxScheme")
		addCbc(taxScheme, "CompanyID", anaf.NormalizeTaxID(party.TaxID))
		scheme := addCac(taxScheme, "TaxScheme")
		addCbc(scheme, "ID", "VAT")
	}

	legal := addCac(p, "PartyLegalEntity")
	addCbc(legal, "RegistrationName", party.Name)
	addCbc(legal, "CompanyID", anaf.StripTaxIDPrefix(party.TaxID))
	if party.RegistrationNumber != "" {
		addCbc(legal, "CompanyLegalForm", party.RegistrationNumber)
	}
}

// writeAddress emits cac:PostalAddress. For domestic addresses the county
// has already passed validation and normalizes to its ISO 3166-2:RO code;
// Bucharest sector references are folded into the city label (SECTOR3).
// Foreign regions pass through unmodified, or are omitted when absent.
func (s *XMLBuilderService) writeAddress(addr *etree.Element, a *entity.Address) {
	addCbc(addr, "StreetName", a.Street)
	addCbc(addr, "CityName", cityLabel(a))
	if a.PostalCode != "" {
		addCbc(addr, "PostalZone", a.PostalCode)
	}
	if a.IsDomestic() {
		if code, ok := anaf.NormalizeCounty(a.County); ok {
			addCbc(addr, "CountrySubentity", code)
		}
	} else if a.County != "" {
		addCbc(addr, "CountrySubentity", a.County)
	}
	country := addCac(addr, "Country")
	addCbc(country, "IdentificationCode", a.Country())
}

func cityLabel(a *entity.Address) string {
	if !a.IsDomestic() {
		return a.City
	}
	if n, ok := anaf.SectorNumber(a.City); ok {
		return "SECTOR" + strconv.Itoa(n)
	}
	if n, ok := anaf.SectorNumber(a.County); ok {
		return "SECTOR" + strconv.Itoa(n)
	}
	return a.City
}

// writeTaxTotal emits cac:TaxTotal with one cac:TaxSubtotal per group, in
// group order. Amounts carry the kind's sign factor exactly once.
func (s *XMLBuilderService) writeTaxTotal(root *etree.Element, totals domain.Totals, currency string, sign decimal.Decimal) {
	taxTotal := addCac(root, "TaxTotal")
	addAmount(taxTotal, "TaxAmount", totals.Tax.Mul(sign), currency)
	for _, group := range totals.Groups {
		sub := addCac(taxTotal, "TaxSubtotal")
		addAmount(sub, "TaxableAmount", group.Taxable.Mul(sign), currency)
		addAmount(sub, "TaxAmount", group.TaxAmount.Mul(sign), currency)
		category := addCac(sub, "TaxCategory")
		addCbc(category, "ID", group.Category)
		addCbc(category, "Percent", domain.FormatRate(group.Rate))
		if group.Category == anaf.TaxCategoryNotSubject {
			addCbc(category, "TaxExemptionReasonCode", anaf.ExemptionReasonNotSubject)
		}
		scheme := addCac(category, "TaxScheme")
		addCbc(scheme, "ID", "VAT")
	}
}

func (s *XMLBuilderService) writeMonetaryTotal(root *etree.Element, totals domain.Totals, currency string, sign decimal.Decimal) {
	monetary := addCac(root, "LegalMonetaryTotal")
	addAmount(monetary, "LineExtensionAmount", totals.Taxable.Mul(sign), currency)
	addAmount(monetary, "TaxExclusiveAmount", totals.Taxable.Mul(sign), currency)
	addAmount(monetary, "TaxInclusiveAmount", totals.Gross.Mul(sign), currency)
	addAmount(monetary, "PayableAmount", totals.Gross.Mul(sign), currency)
}

func (s *XMLBuilderService) writeLine(root *etree.Element, kind entity.DocumentKind, line *entity.Line, pos int, supplierVATPayer bool, currency string, sign decimal.Decimal) {
	lineEl := addCac(root, lineElementName(kind))

	id := line.ID
	if id == "" {
		id = strconv.Itoa(pos)
	}
	addCbc(lineEl, "ID", id)

	qty := addCbc(lineEl, quantityElementName(kind), line.Quantity.Mul(sign).String())
	qty.CreateAttr("unitCode", line.Unit())

	extension := domain.RoundMoney(line.RawExtension()).Mul(sign)
	addAmount(lineEl, "LineExtensionAmount", extension, currency)

	item := addCac(lineEl, "Item")
	if line.Description != "" {
		addCbc(item, "Description", line.Description)
	}
	addCbc(item, "Name", line.Name)
	category := addCac(item, "ClassifiedTaxCategory")
	addCbc(category, "ID", domain.CategoryForRate(domain.RateKey(line.TaxRate), supplierVATPayer))
	addCbc(category, "Percent", domain.FormatRate(line.TaxRate))
	scheme := addCac(category, "TaxScheme")
	addCbc(scheme, "ID", "VAT")

	price := addCac(lineEl, "Price")
	addAmount(price, "PriceAmount", line.UnitPrice, currency)
}

// ── etree helpers ────────────────────────────────────────────────────────────

func addCac(parent *etree.Element, local string) *etree.Element {
	return parent.CreateElement("cac:" + local)
}

func addCbc(parent *etree.Element, local, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + local)
	el.SetText(value)
	return el
}

func addAmount(parent *etree.Element, local string, amount decimal.Decimal, currency string) *etree.Element {
	el := addCbc(parent, local, domain.FormatAmount(amount))
	el.CreateAttr("currencyID", currency)
	return el
}
