package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukbill/tally/internal/model"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Format
		wantErr bool
	}{
		{name: "jsonl", path: "export.jsonl", want: FormatJSONL},
		{name: "ndjson", path: "export.ndjson", want: FormatJSONL},
		{name: "csv", path: "export.csv", want: FormatCSV},
		{name: "uppercase extension", path: "EXPORT.CSV", want: FormatCSV},
		{name: "nested path", path: "/data/exports/2025-06-01.jsonl", want: FormatJSONL},
		{name: "unknown extension", path: "export.txt", wantErr: true},
		{name: "no extension", path: "export", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_EachFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.jsonl")
	contents := `{"document_id":"doc-1","client_id":"client-1","source":"EMAIL","category_label":"Payslips","classified_at":"2025-06-01T09:00:00Z"}
{"document_id":"doc-2","client_id":"client-1","source":"UPLOAD","category_label":null}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	var docs []model.Document
	stats, err := NewReader().EachFile(context.Background(), path, func(doc model.Document) error {
		docs = append(docs, doc)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, Stats{Records: 2}, stats)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].ID)
	require.NotNil(t, docs[0].CategoryLabel)
	assert.Equal(t, "Payslips", *docs[0].CategoryLabel)
	assert.Nil(t, docs[1].CategoryLabel)
}

func TestReader_EachFile_UnknownFormat(t *testing.T) {
	_, err := NewReader().EachFile(context.Background(), "export.xml", func(model.Document) error {
		return nil
	})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReader_EachFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")
	_, err := NewReader().EachFile(context.Background(), path, func(model.Document) error {
		return nil
	})
	require.Error(t, err)
}

func TestReader_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	contents := "document_id,client_id,source,category_label,classified_at\n" +
		"doc-1,client-1,EMAIL,Payslips,2025-06-01T09:00:00Z\n" +
		"doc-2,client-2,API,NA,2025-06-01T09:05:00Z\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	docs, stats, err := NewReader().ReadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, Stats{Records: 2}, stats)
	require.Len(t, docs, 2)
	require.NotNil(t, docs[1].CategoryLabel)
	assert.Equal(t, "NA", *docs[1].CategoryLabel, "the NA sentinel must pass through untouched")
}
