package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It replays the configured results in order, cycling once exhausted.
type MockDetector struct {
	name string

	mu      sync.Mutex
	results []Result
	err     error
	calls   int
	closed  bool
}

var _ Detector = (*MockDetector)(nil)

// NewMockDetector creates a MockDetector reporting name.
func NewMockDetector(name string) *MockDetector {
	return &MockDetector{name: name}
}

// SetResults sets the results that will be returned by Detect.
func (m *MockDetector) SetResults(results ...Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = results
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Name implements Detector.
func (m *MockDetector) Name() string { return m.name }

// Detect returns the next configured result or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	if m.err != nil {
		return Result{Detector: m.name}, m.err
	}
	if len(m.results) == 0 {
		return Result{Detector: m.name}, nil
	}
	r := m.results[call%len(m.results)]
	r.Detector = m.name
	return r, nil
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close records the release.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
