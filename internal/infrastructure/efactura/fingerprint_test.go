package efactura_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infra "github.com/facturis/efactura-pro/internal/infrastructure/efactura"
)

func TestFingerprint_Deterministic(t *testing.T) {
	result, err := infra.NewXMLBuilderService().Build(testInvoice())
	require.NoError(t, err)

	first, err := infra.Fingerprint(result.XML)
	require.NoError(t, err)
	second, err := infra.Fingerprint(result.XML)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 96, "SHA-384 hex digest is 96 characters")
}

func TestFingerprint_WhitespaceInsensitive(t *testing.T) {
	compact := []byte(`<a><b attr="1">x</b></a>`)
	indented := []byte("<a>\n  <b attr=\"1\">x</b>\n</a>")

	fp1, err := infra.Fingerprint(compact)
	require.NoError(t, err)
	fp2, err := infra.Fingerprint(indented)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2, "canonicalization absorbs inter-element whitespace")
}

func TestFingerprint_DistinguishesContent(t *testing.T) {
	fp1, err := infra.Fingerprint([]byte(`<a>1</a>`))
	require.NoError(t, err)
	fp2, err := infra.Fingerprint([]byte(`<a>2</a>`))
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprint_Errors(t *testing.T) {
	_, err := infra.Fingerprint(nil)
	assert.Error(t, err)

	_, err = infra.Fingerprint([]byte(`<a><unclosed>`))
	assert.Error(t, err)
}
