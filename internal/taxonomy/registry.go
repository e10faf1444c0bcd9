// Package taxonomy provides the ordered registry of document categories
// that coverage reports are measured against.
package taxonomy

import (
	"fmt"
	"sort"
)

// Registry is an immutable, ordered collection of category names.
// Lookup is exact: no trimming, case folding, or unicode normalization
// is applied, so "Driver's Licence" and "Drivers Licence" are distinct.
type Registry struct {
	index   map[string]int
	version string
	names   []string
}

// Options controls registry construction.
type Options struct {
	// Version is an optional label identifying the taxonomy revision,
	// carried through to reports and saved scan runs.
	Version string
	// AllowDuplicates accepts listings that repeat a category name.
	// The first occurrence wins and later repeats are ignored, so the
	// resulting registry still contains each name exactly once.
	AllowDuplicates bool
}

// InvalidTaxonomyError reports a duplicate category name found during
// strict registry construction.
type InvalidTaxonomyError struct {
	Name   string
	First  int
	Second int
}

// Error implements the error interface.
func (e *InvalidTaxonomyError) Error() string {
	return fmt.Sprintf("invalid taxonomy: duplicate category %q at positions %d and %d", e.Name, e.First, e.Second)
}

// New builds a registry from the given category names, preserving their
// order. It returns an *InvalidTaxonomyError if any name appears more
// than once.
func New(names []string) (*Registry, error) {
	return NewWithOptions(names, Options{})
}

// NewWithOptions builds a registry with explicit construction options.
func NewWithOptions(names []string, opts Options) (*Registry, error) {
	r := &Registry{
		index:   make(map[string]int, len(names)),
		version: opts.Version,
		names:   make([]string, 0, len(names)),
	}

	for i, name := range names {
		if first, exists := r.index[name]; exists {
			if opts.AllowDuplicates {
				continue
			}
			return nil, &InvalidTaxonomyError{Name: name, First: first, Second: i}
		}
		r.index[name] = len(r.names)
		r.names = append(r.names, name)
	}

	return r, nil
}

// Contains reports whether name is a registered category. The match is
// exact and case sensitive.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Categories returns the category names in registration order. The
// returned slice is a copy and safe for the caller to modify.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Sorted returns the category names in lexicographic order.
func (r *Registry) Sorted() []string {
	out := r.Categories()
	sort.Strings(out)
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.names)
}

// Version returns the taxonomy revision label, or "" if none was set.
func (r *Registry) Version() string {
	return r.version
}
