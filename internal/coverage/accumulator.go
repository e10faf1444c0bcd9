// Package coverage tallies classified document records against a
// taxonomy registry and reports which categories are exercised, which
// sit idle, and which labels fall outside the taxonomy entirely.
package coverage

import (
	"errors"

	"github.com/dukbill/tally/internal/taxonomy"
)

// NotApplicable is the sentinel label the upstream classifier assigns
// to documents deliberately left uncategorized. The comparison is
// exact: "na", "N/A", and "Na" are ordinary labels.
const NotApplicable = "NA"

// ErrRegistryMismatch indicates an attempt to merge accumulators that
// were built against different registry instances.
var ErrRegistryMismatch = errors.New("accumulators built against different registries cannot be merged")

// Record is a single classified document record. A nil Label means the
// pipeline never assigned a category to the document.
type Record struct {
	Label *string
}

// Accumulator tallies records against a single registry. It is not
// safe for concurrent use; Scan gives each worker its own accumulator
// and merges them afterwards.
type Accumulator struct {
	registry      *taxonomy.Registry
	counts        map[string]int
	unknown       map[string]int
	total         int
	unclassified  int
	notApplicable int
}

// NewAccumulator returns an empty accumulator bound to reg.
func NewAccumulator(reg *taxonomy.Registry) *Accumulator {
	return &Accumulator{
		registry: reg,
		counts:   make(map[string]int),
		unknown:  make(map[string]int),
	}
}

// Add tallies one record. Rules apply in order: a nil label counts as
// unclassified, the NotApplicable sentinel counts as not applicable, a
// registered label increments its category, and anything else is
// recorded as an unknown label. Add never rejects a record.
func (a *Accumulator) Add(label *string) {
	a.total++

	switch {
	case label == nil:
		a.unclassified++
	case *label == NotApplicable:
		a.notApplicable++
	case a.registry.Contains(*label):
		a.counts[*label]++
	default:
		a.unknown[*label]++
	}
}

// AddRecord tallies rec via Add.
func (a *Accumulator) AddRecord(rec Record) {
	a.Add(rec.Label)
}

// Merge folds other into a. Both accumulators must have been built
// against the same registry instance; merging is commutative and
// associative, so shards can combine in any order.
func (a *Accumulator) Merge(other *Accumulator) error {
	if other == nil {
		return nil
	}
	if other.registry != a.registry {
		return ErrRegistryMismatch
	}

	for label, n := range other.counts {
		a.counts[label] += n
	}
	for label, n := range other.unknown {
		a.unknown[label] += n
	}
	a.total += other.total
	a.unclassified += other.unclassified
	a.notApplicable += other.notApplicable

	return nil
}

// Total returns the number of records tallied so far.
func (a *Accumulator) Total() int {
	return a.total
}
