package graph

import (
	"sync"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/landmark"
)

// MockResult is one scripted answer of a MockBackend. Outputs are copied into
// the caller's buffers whether or not Detected is set, which lets tests check
// that stale data is ignored.
type MockResult struct {
	Detected bool
	Outputs  [][]landmark.Landmark
}

// MockBackend is a test implementation of Backend that replays scripted
// results in order, cycling once the script is exhausted. Each instance keeps
// its own position in the script, standing in for the graph's tracking state.
type MockBackend struct {
	mu       sync.Mutex
	results  []MockResult
	calls    int
	closes   int
	lastView frame.View
}

// NewMockBackend creates a MockBackend replaying results. With no results
// every call reports no detection.
func NewMockBackend(results ...MockResult) *MockBackend {
	return &MockBackend{results: results}
}

// Process returns the next scripted result.
func (m *MockBackend) Process(v frame.View, outputs [][]landmark.Landmark) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastView = v
	call := m.calls
	m.calls++

	if len(m.results) == 0 {
		return false
	}

	r := m.results[call%len(m.results)]
	for i := range outputs {
		if i < len(r.Outputs) {
			copy(outputs[i], r.Outputs[i])
		}
	}
	return r.Detected
}

// Close records the release.
func (m *MockBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Calls returns how many frames reached the backend.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closes returns how many times the backend was released.
func (m *MockBackend) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// LastView returns the view of the most recent call.
func (m *MockBackend) LastView() frame.View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastView
}
