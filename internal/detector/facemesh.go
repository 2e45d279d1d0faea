package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
	"github.com/ayusman/mediagraph/internal/logger"
)

// FaceMeshDetector tracks the 478 point face mesh, iris included.
//
// The graph searches for up to MaxEntities faces but only the first one is
// returned.
type FaceMeshDetector struct {
	cfg   Config
	graph graph.Graph

	mu      sync.Mutex
	scratch landmark.FaceMesh
}

var _ Detector = (*FaceMeshDetector)(nil)

// NewFaceMeshDetector builds the face mesh graph.
func NewFaceMeshDetector(cfg Config, opts ...Option) (*FaceMeshDetector, error) {
	g, err := faceMeshTopology.open(cfg, opts)
	if err != nil {
		return nil, err
	}

	logger.S().Infow("detector ready",
		"detector", faceMeshTopology.name,
		"static_mode", cfg.StaticMode,
		"max_faces", cfg.MaxEntities,
	)
	return &FaceMeshDetector{cfg: cfg, graph: g}, nil
}

// Name implements Detector.
func (d *FaceMeshDetector) Name() string { return faceMeshTopology.name }

// Config returns the parameters the detector was built with.
func (d *FaceMeshDetector) Config() Config { return d.cfg }

// Process runs the graph over v. The mesh is the zero value when nothing was
// detected.
func (d *FaceMeshDetector) Process(v frame.View) (landmark.FaceMesh, bool, error) {
	var mesh landmark.FaceMesh
	ok, err := d.ProcessInto(v, &mesh)
	return mesh, ok, err
}

// ProcessInto runs the graph over v and writes the first face into out. out
// is left untouched unless a face was detected.
func (d *FaceMeshDetector) ProcessInto(v frame.View, out *landmark.FaceMesh) (bool, error) {
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
func (d *FaceMeshDetector) Detect(m *gocv.Mat) (Result, error) {
	res := Result{Detector: d.Name()}

	v, err := frame.FromMat(m, frame.FormatRGB)
	if err != nil {
		return res, err
	}
	mesh, ok, err := d.Process(v)
	if err != nil || !ok {
		return res, err
	}

	res.Detected = true
	res.Entities = [][]landmark.Landmark{mesh.Slice()}
	return res, nil
}

// Close implements Detector.
func (d *FaceMeshDetector) Close() error {
	return d.graph.Close()
}
