package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/model"
)

// DocumentBuilder assembles deterministic document fixtures. IDs and
// classification timestamps are sequential so insertion order is
// stable across runs.
type DocumentBuilder struct {
	t        *testing.T
	clientID string
	source   string
	baseTime time.Time
	docs     []model.Document
}

// NewDocumentBuilder creates a builder with sensible defaults.
func NewDocumentBuilder(t *testing.T) *DocumentBuilder {
	t.Helper()

	return &DocumentBuilder{
		t:        t,
		clientID: "client-1",
		source:   model.SourceUpload,
		baseTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ForClient sets the client for subsequently added documents.
func (b *DocumentBuilder) ForClient(clientID string) *DocumentBuilder {
	b.clientID = clientID
	return b
}

// FromSource sets the source channel for subsequently added documents.
func (b *DocumentBuilder) FromSource(source string) *DocumentBuilder {
	b.source = source
	return b
}

// WithLabeled appends n documents classified with the given label.
func (b *DocumentBuilder) WithLabeled(label string, n int) *DocumentBuilder {
	for i := 0; i < n; i++ {
		b.append(&label)
	}
	return b
}

// WithUnclassified appends n documents the pipeline never labeled.
func (b *DocumentBuilder) WithUnclassified(n int) *DocumentBuilder {
	for i := 0; i < n; i++ {
		b.append(nil)
	}
	return b
}

// WithNotApplicable appends n documents carrying the not-applicable
// sentinel.
func (b *DocumentBuilder) WithNotApplicable(n int) *DocumentBuilder {
	return b.WithLabeled(coverage.NotApplicable, n)
}

// Build returns the assembled documents.
func (b *DocumentBuilder) Build() []model.Document {
	docs := make([]model.Document, len(b.docs))
	copy(docs, b.docs)
	return docs
}

func (b *DocumentBuilder) append(label *string) {
	seq := len(b.docs)

	doc := model.Document{
		ID:            fmt.Sprintf("doc-%03d", seq),
		ClientID:      b.clientID,
		Source:        b.source,
		CategoryLabel: label,
		ClassifiedAt:  b.baseTime.Add(time.Duration(seq) * time.Minute),
	}
	doc.Hash = doc.GenerateHash()

	b.docs = append(b.docs, doc)
}
