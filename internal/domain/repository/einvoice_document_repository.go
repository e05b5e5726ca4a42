package repository

import (
	"context"

	"github.com/facturis/efactura-pro/internal/domain/entity"
)

// EInvoiceDocumentRepository is the persistence port for built documents.
// Get methods return (nil, nil) when no row matches.
type EInvoiceDocumentRepository interface {
	Create(ctx context.Context, doc *entity.EInvoiceDocument) error
	Update(ctx context.Context, doc *entity.EInvoiceDocument) error
	GetByID(ctx context.Context, id string) (*entity.EInvoiceDocument, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*entity.EInvoiceDocument, error)
	List(ctx context.Context, limit, offset int) ([]*entity.EInvoiceDocument, error)
}
