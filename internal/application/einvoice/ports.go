package einvoice

import "context"

// UploadReceipt is what ANAF returns for an accepted upload: the loading
// index used later to poll the message state.
type UploadReceipt struct {
	UploadIndex string
}

// MessageState is the processing state of an uploaded document.
type MessageState struct {
	// State as reported by ANAF: "ok", "nok" or "in prelucrare".
	State      string
	DownloadID string
	Errors     string
}

// ANAF message states.
const (
	StateOK         = "ok"
	StateNotOK      = "nok"
	StateProcessing = "in prelucrare"
)

// Uploader is the outbound port to the ANAF e-Factura REST service. The
// concrete implementation speaks HTTP; tests inject a fake. A nil Uploader
// means the deployment runs build-only (no transmission).
type Uploader interface {
	// Upload submits the UBL document for the given fiscal code.
	Upload(ctx context.Context, xml []byte, cif string) (*UploadReceipt, error)
	// CheckStatus polls the processing state of a prior upload.
	CheckStatus(ctx context.Context, uploadIndex string) (*MessageState, error)
	// Download fetches the response archive once processing finished.
	Download(ctx context.Context, downloadID string) ([]byte, error)
}
