package efactura

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/ucarion/c14n"
)

// Fingerprint returns the SHA-384 hex digest of the canonical (C14N) form
// of the document. Whitespace and attribute-order differences between two
// serializations of the same document produce the same fingerprint, which
// makes it usable as an idempotency key for uploads.
func Fingerprint(xmlBytes []byte) (string, error) {
	if len(xmlBytes) == 0 {
		return "", fmt.Errorf("efactura: empty document")
	}
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("efactura: canonicalize document: %w", err)
	}
	sum := sha512.Sum384(canonical)
	return hex.EncodeToString(sum[:]), nil
}
