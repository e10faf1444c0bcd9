package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Document ingestion channels.
const (
	// SourceEmail marks documents that arrived via the mail-in gateway.
	SourceEmail = "EMAIL"
	// SourceUpload marks documents uploaded through the client portal.
	SourceUpload = "UPLOAD"
	// SourceAPI marks documents pushed by partner integrations.
	SourceAPI = "API"
)

// Document is a single classified document record exported by the
// processing pipeline. The payload itself never reaches this tool;
// only the identity and the assigned category label do.
type Document struct {
	ClassifiedAt  time.Time
	ID            string
	ClientID      string
	Source        string
	Hash          string
	CategoryLabel *string // nil when the pipeline assigned no category
}

// GenerateHash creates a stable hash of the document identity for
// duplicate detection across re-imported exports.
func (d *Document) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s", d.ID, d.ClientID, d.Source)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Validate ensures the document carries the identity fields every
// export row must have.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}
	if d.ClientID == "" {
		return fmt.Errorf("client ID is required")
	}
	return nil
}
