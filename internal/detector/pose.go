package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
	"github.com/ayusman/mediagraph/internal/logger"
)

// PoseDetector tracks the 33 body landmarks of a single person.
type PoseDetector struct {
	cfg   Config
	graph graph.Graph

	mu      sync.Mutex
	scratch landmark.Pose
}

var _ Detector = (*PoseDetector)(nil)

// NewPoseDetector builds the pose graph. MaxEntities is forced to 1.
func NewPoseDetector(cfg Config, opts ...Option) (*PoseDetector, error) {
	cfg.MaxEntities = 1
	g, err := poseTopology.open(cfg, opts)
	if err != nil {
		return nil, err
	}

	logger.S().Infow("detector ready",
		"detector", poseTopology.name,
		"static_mode", cfg.StaticMode,
		"smooth", cfg.Smooth,
	)
	return &PoseDetector{cfg: cfg, graph: g}, nil
}

// Name implements Detector.
func (d *PoseDetector) Name() string { return poseTopology.name }

// Config returns the parameters the detector was built with.
func (d *PoseDetector) Config() Config { return d.cfg }

// Process runs the graph over v. The pose is the zero value when nothing was
// detected.
func (d *PoseDetector) Process(v frame.View) (landmark.Pose, bool, error) {
	var pose landmark.Pose
	ok, err := d.ProcessInto(v, &pose)
	return pose, ok, err
}

// ProcessInto runs the graph over v and writes the landmarks into out. out is
// left untouched unless a pose was detected.
func (d *PoseDetector) ProcessInto(v frame.View, out *landmark.Pose) (bool, error) {
	if !d.mu.TryLock() {
		return false, graph.ErrBusy
	}
	defer d.mu.Unlock()

	ok, err := d.graph.Process(v, d.scratch.Slice())
	if err != nil || !ok {
		return false, err
	}
	*out = d.scratch
	return true, nil
}

// Detect implements Detector.
func (d *PoseDetector) Detect(m *gocv.Mat) (Result, error) {
	res := Result{Detector: d.Name()}

	v, err := frame.FromMat(m, frame.FormatRGB)
	if err != nil {
		return res, err
	}
	pose, ok, err := d.Process(v)
	if err != nil || !ok {
		return res, err
	}

	res.Detected = true
	res.Entities = [][]landmark.Landmark{pose.Slice()}
	return res, nil
}

// Close implements Detector.
func (d *PoseDetector) Close() error {
	return d.graph.Close()
}
