package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturis/efactura-pro/internal/application/dto"
	appeinvoice "github.com/facturis/efactura-pro/internal/application/einvoice"
	"github.com/facturis/efactura-pro/internal/domain"
	"github.com/facturis/efactura-pro/internal/domain/efactura"
)

// EInvoiceHandler serves the e-Factura document endpoints (protected).
type EInvoiceHandler struct {
	uc *appeinvoice.BuildEInvoiceUseCase
}

// NewEInvoiceHandler builds the handler.
func NewEInvoiceHandler(uc *appeinvoice.BuildEInvoiceUseCase) *EInvoiceHandler {
	return &EInvoiceHandler{uc: uc}
}

// Create builds, stores and (when configured) transmits a document.
// POST /api/einvoices
func (h *EInvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	resp, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List returns a page of stored documents.
// GET /api/einvoices
func (h *EInvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	resp, err := h.uc.List(c.Context(), page)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// GetByID returns one document's metadata.
// GET /api/einvoices/:id
func (h *EInvoiceHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// GetXML streams the stored UBL document.
// GET /api/einvoices/:id/xml
func (h *EInvoiceHandler) GetXML(c *fiber.Ctx) error {
	xml, err := h.uc.GetXML(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(xml)
}

// GetStatus returns the document state, re-polling ANAF for in-flight uploads.
// GET /api/einvoices/:id/status
func (h *EInvoiceHandler) GetStatus(c *fiber.Ctx) error {
	resp, err := h.uc.RefreshStatus(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// mapError translates domain errors to HTTP. Business-rule failures keep
// their stable rule ID as the error code.
func (h *EInvoiceHandler) mapError(c *fiber.Ctx, err error) error {
	var failure *efactura.ValidationFailure
	if errors.As(err, &failure) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: failure.Rule, Message: failure.Message})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "document not found"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
