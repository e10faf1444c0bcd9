package coverage

import "sort"

// Result is a coverage report derived from a finished (or partial)
// accumulator. Used and Unused partition the registry exactly; Counts
// carries every registry category, zeroes included; UnknownLabels is
// disjoint from the registry by construction.
type Result struct {
	Counts          map[string]int `json:"counts"`
	UnknownLabels   map[string]int `json:"unknown_labels"`
	TaxonomyVersion string         `json:"taxonomy_version,omitempty"`
	Used            []string       `json:"used"`
	Unused          []string       `json:"unused"`
	TotalRecords    int            `json:"total_records"`
	Unclassified    int            `json:"unclassified"`
	NotApplicable   int            `json:"not_applicable"`
}

// Report derives the coverage result from state. It is a pure read:
// calling it repeatedly on the same state yields identical results,
// and the state can keep accumulating afterwards.
func Report(state *Accumulator) Result {
	reg := state.registry

	res := Result{
		Counts:          make(map[string]int, reg.Len()),
		UnknownLabels:   make(map[string]int, len(state.unknown)),
		TaxonomyVersion: reg.Version(),
		Used:            make([]string, 0, reg.Len()),
		Unused:          make([]string, 0, reg.Len()),
		TotalRecords:    state.total,
		Unclassified:    state.unclassified,
		NotApplicable:   state.notApplicable,
	}

	for _, name := range reg.Categories() {
		n := state.counts[name]
		res.Counts[name] = n
		if n > 0 {
			res.Used = append(res.Used, name)
		} else {
			res.Unused = append(res.Unused, name)
		}
	}
	sort.Strings(res.Used)
	sort.Strings(res.Unused)

	for label, n := range state.unknown {
		res.UnknownLabels[label] = n
	}

	return res
}

// ClassifiedCount returns the number of records that landed in a
// registered category.
func (r Result) ClassifiedCount() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// UnknownCount returns the number of records whose labels fell outside
// the registry.
func (r Result) UnknownCount() int {
	total := 0
	for _, n := range r.UnknownLabels {
		total += n
	}
	return total
}

// CoverageRatio returns the fraction of registry categories that saw
// at least one record, in [0, 1]. An empty registry has zero coverage.
func (r Result) CoverageRatio() float64 {
	size := len(r.Used) + len(r.Unused)
	if size == 0 {
		return 0
	}
	return float64(len(r.Used)) / float64(size)
}

// SortedUnknown returns the unknown labels in lexicographic order.
func (r Result) SortedUnknown() []string {
	labels := make([]string, 0, len(r.UnknownLabels))
	for label := range r.UnknownLabels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
