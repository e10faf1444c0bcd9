package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

// jsonReport is the machine-readable envelope. The coverage block keeps
// the exact key shape downstream dashboards consume.
type jsonReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Source      string          `json:"source,omitempty"`
	DurationMS  int64           `json:"duration_ms,omitempty"`
	Coverage    coverage.Result `json:"coverage"`
}

// RenderJSON writes the result as indented JSON with a provenance
// envelope.
func RenderJSON(w io.Writer, result coverage.Result, meta service.ReportMeta) error {
	env := jsonReport{
		GeneratedAt: meta.GeneratedAt.UTC(),
		Source:      meta.Source,
		DurationMS:  meta.Duration.Milliseconds(),
		Coverage:    result,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}

	return nil
}
