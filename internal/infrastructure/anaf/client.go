// Package anaf is the REST adapter for the ANAF e-Factura service
// (upload, message state, download).
package anaf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/facturis/efactura-pro/internal/application/einvoice"
)

// Environment identifiers. In "dev" no client is constructed at all; the
// composition root leaves the uploader nil.
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"

	baseURLTest = "https://api.anaf.ro/test/FCTEL/rest"
	baseURLProd = "https://api.anaf.ro/prod/FCTEL/rest"
)

var _ einvoice.Uploader = (*RestClient)(nil)

// RestClient implements the Uploader port against the ANAF REST endpoints.
// The *http.Client is injected: OAuth2 token handling lives in its transport,
// outside this adapter.
type RestClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewRestClient builds the client for the given environment ("test" or
// "prod"). baseURL overrides the environment endpoint when non-empty, which
// the tests use to point at a local server.
func NewRestClient(httpClient *http.Client, env, baseURL string) (*RestClient, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if baseURL == "" {
		switch env {
		case EnvTest:
			baseURL = baseURLTest
		case EnvProd:
			baseURL = baseURLProd
		default:
			return nil, fmt.Errorf("anaf: unknown environment %q (want %q or %q)", env, EnvTest, EnvProd)
		}
	}
	return &RestClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload POSTs the UBL document. ANAF answers with a small XML header:
// ExecutionStatus 0 plus index_incarcare on success, or Errors elements.
func (c *RestClient) Upload(ctx context.Context, xml []byte, cif string) (*einvoice.UploadReceipt, error) {
	if len(xml) == 0 {
		return nil, fmt.Errorf("anaf: empty document")
	}
	if cif == "" {
		return nil, fmt.Errorf("anaf: empty cif")
	}

	endpoint := fmt.Sprintf("%s/upload?standard=UBL&cif=%s", c.baseURL, url.QueryEscape(cif))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(xml))
	if err != nil {
		return nil, fmt.Errorf("anaf: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(body)
	if err != nil {
		return nil, fmt.Errorf("anaf: parse upload response: %w", err)
	}
	if header.errors != "" {
		return nil, fmt.Errorf("anaf: upload rejected: %s", header.errors)
	}
	if header.uploadIndex == "" {
		return nil, fmt.Errorf("anaf: upload response carries no index_incarcare")
	}
	return &einvoice.UploadReceipt{UploadIndex: header.uploadIndex}, nil
}

// CheckStatus GETs stareMesaj for a prior upload.
func (c *RestClient) CheckStatus(ctx context.Context, uploadIndex string) (*einvoice.MessageState, error) {
	if uploadIndex == "" {
		return nil, fmt.Errorf("anaf: empty upload index")
	}
	endpoint := fmt.Sprintf("%s/stareMesaj?id_incarcare=%s", c.baseURL, url.QueryEscape(uploadIndex))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("anaf: build status request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(body)
	if err != nil {
		return nil, fmt.Errorf("anaf: parse status response: %w", err)
	}
	if header.errors != "" && header.state == "" {
		return nil, fmt.Errorf("anaf: status query failed: %s", header.errors)
	}
	return &einvoice.MessageState{
		State:      strings.ToLower(header.state),
		DownloadID: header.downloadID,
		Errors:     header.errors,
	}, nil
}

// Download GETs the response archive (a ZIP with the signed document or the
// rejection details).
func (c *RestClient) Download(ctx context.Context, downloadID string) ([]byte, error) {
	if downloadID == "" {
		return nil, fmt.Errorf("anaf: empty download id")
	}
	endpoint := fmt.Sprintf("%s/descarcare?id=%s", c.baseURL, url.QueryEscape(downloadID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("anaf: build download request: %w", err)
	}
	return c.do(req)
}

func (c *RestClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, fmt.Errorf("anaf: request cancelled: %w", req.Context().Err())
		}
		return nil, fmt.Errorf("anaf: http call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // max 10 MB
	if err != nil {
		return nil, fmt.Errorf("anaf: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anaf: unexpected HTTP %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// responseHeader is the flat view of ANAF's XML answer envelope.
type responseHeader struct {
	uploadIndex string // index_incarcare attribute
	state       string // stare attribute
	downloadID  string // id_descarcare attribute
	errors      string // Errors/errorMessage children, joined
}

func parseHeader(body []byte) (*responseHeader, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("not XML: %s", truncate(body, 200))
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty XML body")
	}

	h := &responseHeader{
		uploadIndex: root.SelectAttrValue("index_incarcare", ""),
		state:       root.SelectAttrValue("stare", ""),
		downloadID:  root.SelectAttrValue("id_descarcare", ""),
	}
	var msgs []string
	for _, e := range root.FindElements("Errors") {
		if m := e.SelectAttrValue("errorMessage", ""); m != "" {
			msgs = append(msgs, m)
		} else if t := strings.TrimSpace(e.Text()); t != "" {
			msgs = append(msgs, t)
		}
	}
	h.errors = strings.Join(msgs, "; ")
	return h, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
