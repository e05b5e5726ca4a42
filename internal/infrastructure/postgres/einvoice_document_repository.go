package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facturis/efactura-pro/internal/domain"
	"github.com/facturis/efactura-pro/internal/domain/entity"
	"github.com/facturis/efactura-pro/internal/domain/repository"
)

var _ repository.EInvoiceDocumentRepository = (*EInvoiceDocumentRepo)(nil)

// EInvoiceDocumentRepo persists built documents (usable with pool or tx).
type EInvoiceDocumentRepo struct {
	q Querier
}

// NewEInvoiceDocumentRepository builds the adapter. Pass a pool or tx (Querier).
func NewEInvoiceDocumentRepository(q Querier) *EInvoiceDocumentRepo {
	return &EInvoiceDocumentRepo{q: q}
}

const documentColumns = `
	id, invoice_id, issue_date, currency_code, type_code,
	supplier_name, supplier_tax_id, customer_name, customer_tax_id,
	status, fingerprint, xml, taxable, tax, gross,
	COALESCE(upload_index, ''), COALESCE(download_id, ''), COALESCE(messages, ''),
	created_at, updated_at`

// Create persists a new document. The fingerprint and the invoice business
// identity carry unique constraints; both collisions map to ErrDuplicate.
func (r *EInvoiceDocumentRepo) Create(ctx context.Context, doc *entity.EInvoiceDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO einvoice_documents (
			id, invoice_id, issue_date, currency_code, type_code,
			supplier_name, supplier_tax_id, customer_name, customer_tax_id,
			status, fingerprint, xml, taxable, tax, gross,
			upload_index, download_id, messages, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.InvoiceID, doc.IssueDate, doc.CurrencyCode, doc.TypeCode,
		doc.SupplierName, doc.SupplierTaxID, doc.CustomerName, doc.CustomerTaxID,
		doc.Status, doc.Fingerprint, doc.XML, doc.Taxable, doc.Tax, doc.Gross,
		nullIfEmpty(doc.UploadIndex), nullIfEmpty(doc.DownloadID), nullIfEmpty(doc.Messages),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document for invoice %s already stored", domain.ErrDuplicate, doc.InvoiceID)
		}
		return fmt.Errorf("insert einvoice document: %w", err)
	}
	return nil
}

// Update persists the mutable upload-state fields.
func (r *EInvoiceDocumentRepo) Update(ctx context.Context, doc *entity.EInvoiceDocument) error {
	query := `
		UPDATE einvoice_documents
		SET status       = $2,
		    upload_index = COALESCE($3, upload_index),
		    download_id  = COALESCE($4, download_id),
		    messages     = COALESCE($5, messages),
		    updated_at   = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		doc.ID, doc.Status,
		nullIfEmpty(doc.UploadIndex), nullIfEmpty(doc.DownloadID), nullIfEmpty(doc.Messages),
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update einvoice document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: einvoice document %s", domain.ErrNotFound, doc.ID)
	}
	return nil
}

// GetByID returns one document, or (nil, nil) when absent.
func (r *EInvoiceDocumentRepo) GetByID(ctx context.Context, id string) (*entity.EInvoiceDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM einvoice_documents WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByFingerprint returns the document with the given canonical fingerprint,
// or (nil, nil). This is the idempotency lookup for repeated build requests.
func (r *EInvoiceDocumentRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*entity.EInvoiceDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM einvoice_documents WHERE fingerprint = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, fingerprint))
}

// List returns a page of documents, newest first.
func (r *EInvoiceDocumentRepo) List(ctx context.Context, limit, offset int) ([]*entity.EInvoiceDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM einvoice_documents
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list einvoice documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.EInvoiceDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func (r *EInvoiceDocumentRepo) scanOne(row pgx.Row) (*entity.EInvoiceDocument, error) {
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func scanDocument(row pgx.Row) (*entity.EInvoiceDocument, error) {
	var doc entity.EInvoiceDocument
	err := row.Scan(
		&doc.ID, &doc.InvoiceID, &doc.IssueDate, &doc.CurrencyCode, &doc.TypeCode,
		&doc.SupplierName, &doc.SupplierTaxID, &doc.CustomerName, &doc.CustomerTaxID,
		&doc.Status, &doc.Fingerprint, &doc.XML, &doc.Taxable, &doc.Tax, &doc.Gross,
		&doc.UploadIndex, &doc.DownloadID, &doc.Messages,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan einvoice document: %w", err)
	}
	return &doc, nil
}
