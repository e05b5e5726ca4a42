package einvoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturis/efactura-pro/internal/application/dto"
	"github.com/facturis/efactura-pro/internal/domain"
	domefactura "github.com/facturis/efactura-pro/internal/domain/efactura"
	"github.com/facturis/efactura-pro/internal/domain/entity"
	"github.com/facturis/efactura-pro/internal/domain/repository"
	infraefactura "github.com/facturis/efactura-pro/internal/infrastructure/efactura"
	"github.com/facturis/efactura-pro/pkg/anaf"
	"github.com/facturis/efactura-pro/pkg/logger"
)

const dateLayout = "2006-01-02"

// BuildEInvoiceUseCase builds, persists and (optionally) transmits e-Factura
// documents:
//
//	validate → aggregate → XML → fingerprint → persist → upload → poll state
//
// Upload runs in its own goroutine with an independent timeout, decoupled
// from the HTTP request cycle. With a nil uploader the use case is
// build-only and documents stay in BUILT.
type BuildEInvoiceUseCase struct {
	repo     repository.EInvoiceDocumentRepository
	builder  *infraefactura.XMLBuilderService
	uploader Uploader
	log      *logger.Logger
}

// NewBuildEInvoiceUseCase wires the use case. uploader may be nil.
func NewBuildEInvoiceUseCase(
	repo repository.EInvoiceDocumentRepository,
	builder *infraefactura.XMLBuilderService,
	uploader Uploader,
	log *logger.Logger,
) *BuildEInvoiceUseCase {
	return &BuildEInvoiceUseCase{repo: repo, builder: builder, uploader: uploader, log: log}
}

// Create builds the document from the request and persists it. Identical
// content (same canonical fingerprint) is idempotent: the stored document is
// returned instead of a duplicate. A *ValidationFailure surfaces unchanged
// so the transport layer can report the rule ID.
func (uc *BuildEInvoiceUseCase) Create(ctx context.Context, in dto.CreateEInvoiceRequest) (*dto.EInvoiceResponse, error) {
	inv, err := uc.toInvoice(in)
	if err != nil {
		return nil, err
	}

	// Plausibility pre-check on taxpayer identifiers. Format only: the
	// checksum is the registry's business, not a build precondition.
	for _, p := range []struct {
		role  string
		party *entity.Party
	}{{"supplier", &inv.Supplier}, {"customer", &inv.Customer}} {
		if p.party.VATPayer && !anaf.IsValidTaxIDFormat(p.party.TaxID) {
			return nil, fmt.Errorf("%w: %s tax id %q is not a plausible CIF", domain.ErrInvalidInput, p.role, p.party.TaxID)
		}
	}

	result, err := uc.builder.Build(inv)
	if err != nil {
		return nil, err
	}

	fingerprint, err := infraefactura.Fingerprint(result.XML)
	if err != nil {
		return nil, fmt.Errorf("fingerprint document: %w", err)
	}

	if existing, err := uc.repo.GetByFingerprint(ctx, fingerprint); err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	} else if existing != nil {
		uc.log.Info().Str("document_id", existing.ID).Str("invoice_id", existing.InvoiceID).
			Msg("identical document already stored, returning it")
		return toResponse(existing), nil
	}

	now := time.Now()
	doc := &entity.EInvoiceDocument{
		ID:            uuid.New().String(),
		InvoiceID:     inv.ID,
		IssueDate:     inv.IssueDate,
		CurrencyCode:  inv.Currency(),
		TypeCode:      inv.DocumentTypeCode(),
		SupplierName:  inv.Supplier.Name,
		SupplierTaxID: anaf.StripTaxIDPrefix(inv.Supplier.TaxID),
		CustomerName:  inv.Customer.Name,
		CustomerTaxID: anaf.StripTaxIDPrefix(inv.Customer.TaxID),
		Status:        entity.EFacturaStatusBuilt,
		Fingerprint:   fingerprint,
		XML:           string(result.XML),
		Taxable:       result.Totals.Taxable,
		Tax:           result.Totals.Tax,
		Gross:         result.Totals.Gross,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	uc.log.Info().Str("document_id", doc.ID).Str("invoice_id", doc.InvoiceID).
		Str("gross", domefactura.FormatAmount(doc.Gross)).
		Msg("document built")

	if uc.uploader != nil {
		go uc.upload(doc.ID)
	}

	return toResponse(doc), nil
}

// Get returns the stored document metadata.
func (uc *BuildEInvoiceUseCase) Get(ctx context.Context, id string) (*dto.EInvoiceResponse, error) {
	doc, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(doc), nil
}

// GetXML returns the serialized UBL document.
func (uc *BuildEInvoiceUseCase) GetXML(ctx context.Context, id string) ([]byte, error) {
	doc, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return []byte(doc.XML), nil
}

// RefreshStatus re-polls ANAF for documents still in SENT and persists the
// outcome. For every other state (or with no uploader) it is a plain read.
func (uc *BuildEInvoiceUseCase) RefreshStatus(ctx context.Context, id string) (*dto.EInvoiceResponse, error) {
	doc, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != entity.EFacturaStatusSent || uc.uploader == nil || doc.UploadIndex == "" {
		return toResponse(doc), nil
	}

	state, err := uc.uploader.CheckStatus(ctx, doc.UploadIndex)
	if err != nil {
		return nil, fmt.Errorf("check message state: %w", err)
	}
	switch state.State {
	case StateOK:
		doc.Status = entity.EFacturaStatusAccepted
		doc.DownloadID = state.DownloadID
	case StateNotOK:
		doc.Status = entity.EFacturaStatusRejected
		doc.DownloadID = state.DownloadID
		doc.Messages = state.Errors
	default:
		// Still processing; nothing to persist.
		return toResponse(doc), nil
	}
	doc.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", doc.ID).Str("status", doc.Status).Msg("message state refreshed")
	return toResponse(doc), nil
}

// List returns a page of stored documents, newest first.
func (uc *BuildEInvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.EInvoiceListResponse, error) {
	page.DefaultPage()
	docs, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EInvoiceResponse, len(docs))
	for i, d := range docs {
		items[i] = *toResponse(d)
	}
	return &dto.EInvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// upload transmits one built document. Runs detached from the HTTP cycle
// with its own deadline; the final state always lands in the repository.
func (uc *BuildEInvoiceUseCase) upload(docID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := uc.repo.GetByID(ctx, docID)
	if err != nil || doc == nil {
		uc.log.Error().Err(err).Str("document_id", docID).Msg("upload: document not found")
		return
	}
	if doc.Status != entity.EFacturaStatusBuilt {
		uc.log.Warn().Str("document_id", docID).Str("status", doc.Status).
			Msg("upload: unexpected status, skipping")
		return
	}

	receipt, err := uc.uploader.Upload(ctx, []byte(doc.XML), doc.SupplierTaxID)
	if err != nil {
		doc.Status = entity.EFacturaStatusError
		doc.Messages = err.Error()
		doc.UpdatedAt = time.Now()
		if uErr := uc.repo.Update(ctx, doc); uErr != nil {
			uc.log.Error().Err(uErr).Str("document_id", docID).Msg("upload: could not persist ERROR")
		}
		uc.log.Error().Err(err).Str("document_id", docID).Msg("upload failed")
		return
	}

	doc.Status = entity.EFacturaStatusSent
	doc.UploadIndex = receipt.UploadIndex
	doc.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, doc); err != nil {
		uc.log.Error().Err(err).Str("document_id", docID).Msg("upload: could not persist SENT")
		return
	}
	uc.log.Info().Str("document_id", docID).Str("upload_index", receipt.UploadIndex).
		Msg("document uploaded")
}

func (uc *BuildEInvoiceUseCase) mustGet(ctx context.Context, id string) (*entity.EInvoiceDocument, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// toInvoice maps the transport request onto the domain invoice. Field-level
// business rules stay in the validator; only shape problems (unparseable
// dates) are rejected here.
func (uc *BuildEInvoiceUseCase) toInvoice(in dto.CreateEInvoiceRequest) (*entity.Invoice, error) {
	issueDate, err := time.Parse(dateLayout, in.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issue_date %q (want YYYY-MM-DD)", domain.ErrInvalidInput, in.IssueDate)
	}
	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date %q (want YYYY-MM-DD)", domain.ErrInvalidInput, in.DueDate)
		}
		dueDate = &d
	}

	lines := make([]entity.Line, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = entity.Line{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			UnitCode:    l.UnitCode,
			TaxRate:     l.TaxRate,
		}
	}

	return &entity.Invoice{
		ID:                 in.InvoiceID,
		IssueDate:          issueDate,
		DueDate:            dueDate,
		CurrencyCode:       in.CurrencyCode,
		PaymentIBAN:        in.PaymentIBAN,
		TypeCode:           in.TypeCode,
		PrecedingInvoiceID: in.PrecedingInvoiceID,
		Supplier:           toParty(in.Supplier),
		Customer:           toParty(in.Customer),
		Lines:              lines,
	}, nil
}

func toParty(p dto.PartyRequest) entity.Party {
	return entity.Party{
		Name:               p.Name,
		TaxID:              p.TaxID,
		RegistrationNumber: p.RegistrationNumber,
		VATPayer:           p.VATPayer,
		Address: entity.Address{
			Street:      p.Street,
			City:        p.City,
			PostalCode:  p.PostalCode,
			County:      p.County,
			CountryCode: p.CountryCode,
		},
	}
}

func toResponse(doc *entity.EInvoiceDocument) *dto.EInvoiceResponse {
	return &dto.EInvoiceResponse{
		ID:          doc.ID,
		InvoiceID:   doc.InvoiceID,
		TypeCode:    doc.TypeCode,
		Currency:    doc.CurrencyCode,
		Status:      doc.Status,
		Fingerprint: doc.Fingerprint,
		Taxable:     domefactura.FormatAmount(doc.Taxable),
		Tax:         domefactura.FormatAmount(doc.Tax),
		Gross:       domefactura.FormatAmount(doc.Gross),
		UploadIndex: doc.UploadIndex,
		Messages:    doc.Messages,
		CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
	}
}
