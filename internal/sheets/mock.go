package sheets

import (
	"context"
	"sync"

	"github.com/dukbill/tally/internal/coverage"
	"github.com/dukbill/tally/internal/service"
)

// MockWriter is an in-memory service.ReportWriter for tests. It
// records every call and optionally fails with a configured error.
type MockWriter struct {
	mu        sync.Mutex
	calls     []WriteCall
	writeFunc func(ctx context.Context, result coverage.Result, meta service.ReportMeta) error
}

// WriteCall captures the arguments and outcome of one Write.
type WriteCall struct {
	Error  error
	Result coverage.Result
	Meta   service.ReportMeta
}

// NewMockWriter creates an empty mock.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the call and returns the configured error, if any.
func (m *MockWriter) Write(ctx context.Context, result coverage.Result, meta service.ReportMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.writeFunc != nil {
		err = m.writeFunc(ctx, result, meta)
	}
	m.calls = append(m.calls, WriteCall{Result: result, Meta: meta, Error: err})
	return err
}

// SetWriteError makes subsequent Write calls fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeFunc = func(context.Context, coverage.Result, service.ReportMeta) error {
		return err
	}
}

// Calls returns a copy of the recorded calls.
func (m *MockWriter) Calls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall(nil), m.calls...)
}

// LastResult returns the result from the most recent call, or nil
// before the first one.
func (m *MockWriter) LastResult() *coverage.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) == 0 {
		return nil
	}
	r := m.calls[len(m.calls)-1].Result
	return &r
}

// LastMeta returns the metadata from the most recent call, or nil
// before the first one.
func (m *MockWriter) LastMeta() *service.ReportMeta {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) == 0 {
		return nil
	}
	meta := m.calls[len(m.calls)-1].Meta
	return &meta
}

// Reset discards the recorded calls but keeps any configured error.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// AssertWriteCalled fails the test unless Write ran exactly n times.
func (m *MockWriter) AssertWriteCalled(t interface{ Fatalf(string, ...any) }, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) != n {
		t.Fatalf("expected Write to be called %d times, but was called %d times", n, len(m.calls))
	}
}
