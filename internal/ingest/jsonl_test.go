package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/model"
)

func collectJSONL(t *testing.T, input string) ([]model.Document, Stats) {
	t.Helper()
	var docs []model.Document
	stats, err := NewReader().EachJSONL(context.Background(), strings.NewReader(input), func(doc model.Document) error {
		docs = append(docs, doc)
		return nil
	})
	require.NoError(t, err)
	return docs, stats
}

func TestReader_EachJSONL(t *testing.T) {
	input := `{"document_id":"doc-1","client_id":"client-1","source":"EMAIL","category_label":"Payslips","classified_at":"2025-06-01T09:00:00Z"}
{"document_id":"doc-2","client_id":"client-1","category_label":null}
{"document_id":"doc-3","client_id":"client-2","category_label":"NA"}
{"document_id":"doc-4","client_id":"client-2"}
`

	docs, stats := collectJSONL(t, input)

	assert.Equal(t, Stats{Records: 4}, stats)
	require.Len(t, docs, 4)

	require.NotNil(t, docs[0].CategoryLabel)
	assert.Equal(t, "Payslips", *docs[0].CategoryLabel)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), docs[0].ClassifiedAt)
	assert.NotEmpty(t, docs[0].Hash)

	assert.Nil(t, docs[1].CategoryLabel, "explicit null label")
	require.NotNil(t, docs[2].CategoryLabel)
	assert.Equal(t, "NA", *docs[2].CategoryLabel)
	assert.Nil(t, docs[3].CategoryLabel, "absent label field")
}

func TestReader_EachJSONL_SkipsMalformedLines(t *testing.T) {
	input := `{"document_id":"doc-1","client_id":"client-1"}
not json at all
{"document_id":"doc-2","client_id":"client-1"
{"document_id":"","client_id":"client-1"}
{"client_id":"client-1"}
{"document_id":"doc-5","client_id":"client-1"}
`

	docs, stats := collectJSONL(t, input)

	assert.Equal(t, Stats{Records: 2, Skipped: 4}, stats)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "doc-5", docs[1].ID)
}

func TestReader_EachJSONL_IgnoresBlankLines(t *testing.T) {
	input := "\n{\"document_id\":\"doc-1\",\"client_id\":\"client-1\"}\n\n\n"

	docs, stats := collectJSONL(t, input)
	assert.Equal(t, Stats{Records: 1}, stats)
	assert.Len(t, docs, 1)
}

func TestReader_EachJSONL_EmptyStream(t *testing.T) {
	docs, stats := collectJSONL(t, "")
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, docs)
}

func TestReader_EachJSONL_CallbackErrorAborts(t *testing.T) {
	input := `{"document_id":"doc-1","client_id":"client-1"}
{"document_id":"doc-2","client_id":"client-1"}
`
	wantErr := errors.New("downstream full")

	count := 0
	_, err := NewReader().EachJSONL(context.Background(), strings.NewReader(input), func(model.Document) error {
		count++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, count)
}

func TestReader_EachJSONL_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := `{"document_id":"doc-1","client_id":"client-1"}
`
	_, err := NewReader().EachJSONL(ctx, strings.NewReader(input), func(model.Document) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
