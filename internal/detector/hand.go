package detector

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
	"github.com/ayusman/mediagraph/internal/logger"
)

// maxHands is the number of output slots of the hand graph.
const maxHands = 2

// Hands is the output of the hand graph: two independent slots.
//
// The graph fills slots in the order it emits hands, not by handedness.
// With a single hand in view it may land in either slot, and the slot can
// change between frames.
type Hands struct {
	Left  landmark.Hand `json:"left"`
	Right landmark.Hand `json:"right"`
}

// HandDetector tracks up to two hands of 21 landmarks each.
type HandDetector struct {
	cfg   Config
	graph graph.Graph

	mu      sync.Mutex
	scratch Hands
}

var _ Detector = (*HandDetector)(nil)

// NewHandDetector builds the hand graph. MaxEntities must be 1 or 2.
func NewHandDetector(cfg Config, opts ...Option) (*HandDetector, error) {
	if cfg.MaxEntities > maxHands {
		return nil, fmt.Errorf("%s detector: %w: max entities %d, at most %d hands are supported",
			handTopology.name, ErrInvalidConfig, cfg.MaxEntities, maxHands)
	}
	g, err := handTopology.open(cfg, opts)
	if err != nil {
		return nil, err
	}

	logger.S().Infow("detector ready",
		"detector", handTopology.name,
		"static_mode", cfg.StaticMode,
		"max_hands", cfg.MaxEntities,
	)
	return &HandDetector{cfg: cfg, graph: g}, nil
}

// Name implements Detector.
func (d *HandDetector) Name() string { return handTopology.name }

// Config returns the parameters the detector was built with.
func (d *HandDetector) Config() Config { return d.cfg }

// Process runs the graph over v. Both hands are the zero value when nothing
// was detected.
func (d *HandDetector) Process(v frame.View) (Hands, bool, error) {
	var hands Hands
	ok, err := d.ProcessInto(v, &hands.Left, &hands.Right)
	return hands, ok, err
}

// ProcessInto runs the graph over v and writes the two slots into left and
// right. Both are left untouched unless a hand was detected.
func (d *HandDetector) ProcessInto(v frame.View, left, right *landmark.Hand) (bool, error) {
	if !d.mu.TryLock() {
		return false, graph.ErrBusy
	}
	defer d.mu.Unlock()

	ok, err := d.graph.Process(v, d.scratch.Left.Slice(), d.scratch.Right.Slice())
	if err != nil || !ok {
		return false, err
	}
	*left = d.scratch.Left
	*right = d.scratch.Right
	return true, nil
}

// Detect implements Detector. Entities always holds both slots, left first.
func (d *HandDetector) Detect(m *gocv.Mat) (Result, error) {
	res := Result{Detector: d.Name()}

	v, err := frame.FromMat(m, frame.FormatRGB)
	if err != nil {
		return res, err
	}
	hands, ok, err := d.Process(v)
	if err != nil || !ok {
		return res, err
	}

	res.Detected = true
	res.Entities = [][]landmark.Landmark{hands.Left.Slice(), hands.Right.Slice()}
	return res, nil
}

// Close implements Detector.
func (d *HandDetector) Close() error {
	return d.graph.Close()
}
