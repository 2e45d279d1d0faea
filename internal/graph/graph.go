// Package graph owns the native inference graphs and presents a single
// synchronous Process contract regardless of the landmark topology.
package graph

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/landmark"
	"github.com/ayusman/mediagraph/internal/metrics"
)

// Errors returned by graph handles.
var (
	ErrNotAvailable  = errors.New("native graph runtime not available: build with CGO_ENABLED=1 and -tags mediagraph")
	ErrInvalidConfig = errors.New("invalid graph config")
	ErrInitFailed    = errors.New("graph initialization failed")
	ErrBusy          = errors.New("graph is processing another frame")
	ErrClosed        = errors.New("graph is closed")
	ErrOutputShape   = errors.New("output buffers do not match graph outputs")
)

// Config describes a graph to construct. Text is the graph description in the
// runtime's text format and OutputNode is the stream the landmarks are read
// from. Every call to Process fills Outputs buffers of Landmarks entries.
type Config struct {
	Name       string
	Text       string
	OutputNode string
	Outputs    int
	Landmarks  int
}

// Validate checks that the config can be handed to a backend.
func (c Config) Validate() error {
	switch {
	case c.Text == "":
		return fmt.Errorf("%w: empty graph text", ErrInvalidConfig)
	case c.OutputNode == "":
		return fmt.Errorf("%w: empty output node", ErrInvalidConfig)
	case c.Outputs < 1:
		return fmt.Errorf("%w: outputs %d", ErrInvalidConfig, c.Outputs)
	case c.Landmarks < 1:
		return fmt.Errorf("%w: landmarks %d", ErrInvalidConfig, c.Landmarks)
	}
	return nil
}

// Graph is a constructed inference graph.
type Graph interface {
	// Process runs one synchronous inference pass over v and writes the
	// landmarks into outputs. It reports whether anything was detected; when
	// it returns false the contents of outputs are undefined.
	Process(v frame.View, outputs ...[]landmark.Landmark) (bool, error)

	// Close releases the graph. It is safe to call more than once.
	Close() error
}

// Opener constructs a graph from a config.
type Opener func(cfg Config) (Graph, error)

// Backend is the raw resource behind a Handle. Implementations may assume
// that calls are serialized, that views are valid RGB frames and that
// outputs match the config; Close is called exactly once.
type Backend interface {
	Process(v frame.View, outputs [][]landmark.Landmark) bool
	Close() error
}

// OpenerFor returns an Opener that wraps b in a Handle. It is meant for
// injecting fake backends.
func OpenerFor(b Backend) Opener {
	return func(cfg Config) (Graph, error) {
		return NewHandle(cfg, b)
	}
}

// Handle owns one Backend. It rejects invalid frames before they reach the
// backend, allows a single call in flight and releases the backend exactly
// once. Handles must be used by pointer.
type Handle struct {
	cfg     Config
	backend Backend

	mu     sync.Mutex
	closed bool
}

var _ Graph = (*Handle)(nil)

// NewHandle takes ownership of b.
func NewHandle(cfg Config, b Backend) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		if b != nil {
			b.Close()
		}
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidConfig)
	}

	metrics.OpenGraphs.Inc()
	return &Handle{cfg: cfg, backend: b}, nil
}

// Config returns the config the handle was built from.
func (h *Handle) Config() Config {
	return h.cfg
}

// Process implements Graph. A concurrent call returns ErrBusy instead of
// waiting; the graph keeps temporal tracking state that interleaved frames
// would corrupt.
func (h *Handle) Process(v frame.View, outputs ...[]landmark.Landmark) (bool, error) {
	if err := v.Validate(); err != nil {
		reason := metrics.ReasonInvalid
		if errors.Is(err, frame.ErrEmptyFrame) {
			reason = metrics.ReasonEmpty
		}
		metrics.SkippedFramesTotal.WithLabelValues(h.cfg.Name, reason).Inc()
		return false, err
	}
	if err := h.checkOutputs(outputs); err != nil {
		return false, err
	}

	if !h.mu.TryLock() {
		metrics.SkippedFramesTotal.WithLabelValues(h.cfg.Name, metrics.ReasonBusy).Inc()
		return false, ErrBusy
	}
	defer h.mu.Unlock()

	if h.closed {
		metrics.SkippedFramesTotal.WithLabelValues(h.cfg.Name, metrics.ReasonClosed).Inc()
		return false, ErrClosed
	}

	start := time.Now()
	detected := h.backend.Process(v, outputs)
	metrics.InferenceDuration.WithLabelValues(h.cfg.Name).Observe(time.Since(start).Seconds())
	metrics.FramesTotal.WithLabelValues(h.cfg.Name).Inc()
	if detected {
		metrics.DetectionsTotal.WithLabelValues(h.cfg.Name).Inc()
	}

	return detected, nil
}

func (h *Handle) checkOutputs(outputs [][]landmark.Landmark) error {
	if len(outputs) != h.cfg.Outputs {
		return fmt.Errorf("%w: got %d buffers, want %d", ErrOutputShape, len(outputs), h.cfg.Outputs)
	}
	for i, out := range outputs {
		if len(out) != h.cfg.Landmarks {
			return fmt.Errorf("%w: buffer %d has %d landmarks, want %d", ErrOutputShape, i, len(out), h.cfg.Landmarks)
		}
	}
	return nil
}

// Close releases the backend. It waits for an in-flight Process call.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	metrics.OpenGraphs.Dec()
	return h.backend.Close()
}
