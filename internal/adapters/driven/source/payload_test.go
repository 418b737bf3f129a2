package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

func TestDecodeBareArray(t *testing.T) {
	docs, err := DecodeRawDocuments([]byte(`[{"id":"a","date":"2024-01-01"}]`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
}

func TestDecodeEnvelopes(t *testing.T) {
	for _, key := range []string{"items", "docs", "documents"} {
		payload := []byte(`{"` + key + `":[{"id":"a"},{"id":"b"}]}`)
		docs, err := DecodeRawDocuments(payload)
		require.NoError(t, err, "envelope %q", key)
		assert.Len(t, docs, 2)
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	docs, err := DecodeRawDocuments([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = DecodeRawDocuments([]byte(`{"documents":[]}`))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDecodeRejectsUnknownShape(t *testing.T) {
	for _, payload := range []string{`{"results":[]}`, `"text"`, `42`, `not json`} {
		_, err := DecodeRawDocuments([]byte(payload))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "payload %s", payload)
	}
}
