// Package detector wraps the landmark graphs in typed, per-topology facades.
package detector

import (
	"errors"
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
)

// ErrInvalidConfig is returned when a detector is built from out of range
// parameters.
var ErrInvalidConfig = errors.New("invalid detector config")

// Detector is the topology agnostic view of a facade, used by the capture
// loop, the monitor server and the recorder.
type Detector interface {
	// Name identifies the topology: "pose", "hands" or "face".
	Name() string

	// Detect runs one inference pass over an RGB frame. Non-detection is
	// reported through Result.Detected, never as an error.
	Detect(frame *gocv.Mat) (Result, error)

	// Close releases the underlying graph.
	Close() error
}

// Result is the outcome of one Detect call. Entities holds one landmark list
// per tracked entity and is empty when nothing was detected.
type Result struct {
	Detector string                `json:"detector"`
	Detected bool                  `json:"detected"`
	Entities [][]landmark.Landmark `json:"entities,omitempty"`
}

// First returns the first landmark of the first entity.
func (r Result) First() (landmark.Landmark, bool) {
	if !r.Detected || len(r.Entities) == 0 || len(r.Entities[0]) == 0 {
		return landmark.Landmark{}, false
	}
	return r.Entities[0][0], true
}

// Config holds the construction parameters of a detector. It is copied into
// the detector at construction and cannot change afterwards.
type Config struct {
	// StaticMode treats every frame as unrelated, running detection on each
	// one instead of tracking.
	StaticMode bool `yaml:"static_mode" env:"STATIC_MODE"`

	// Smooth filters landmarks across frames. Pose only.
	Smooth bool `yaml:"smooth" env:"SMOOTH"`

	// MaxEntities is the number of hands or faces the graph looks for.
	// Ignored by the single-person pose graph.
	MaxEntities int `yaml:"max_entities" env:"MAX_ENTITIES"`

	// DetectionConfidence is the minimum score (0.0-1.0) for a detection.
	DetectionConfidence float32 `yaml:"detection_confidence" env:"DETECTION_CONFIDENCE"`

	// TrackingConfidence is the minimum score (0.0-1.0) to keep tracking
	// instead of detecting again.
	TrackingConfidence float32 `yaml:"tracking_confidence" env:"TRACKING_CONFIDENCE"`
}

// DefaultPoseConfig returns the pose defaults.
func DefaultPoseConfig() Config {
	return Config{
		StaticMode:          false,
		Smooth:              true,
		MaxEntities:         1,
		DetectionConfidence: 0.5,
		TrackingConfidence:  0.5,
	}
}

// DefaultHandConfig returns the hand defaults.
func DefaultHandConfig() Config {
	return Config{
		StaticMode:          false,
		MaxEntities:         2,
		DetectionConfidence: 0.5,
		TrackingConfidence:  0.5,
	}
}

// DefaultFaceMeshConfig returns the face mesh defaults.
func DefaultFaceMeshConfig() Config {
	return Config{
		StaticMode:          false,
		MaxEntities:         2,
		DetectionConfidence: 0.5,
		TrackingConfidence:  0.5,
	}
}

// Validate checks the parameters shared by every topology.
func (c Config) Validate() error {
	if err := checkConfidence("detection confidence", c.DetectionConfidence); err != nil {
		return err
	}
	if err := checkConfidence("tracking confidence", c.TrackingConfidence); err != nil {
		return err
	}
	if c.MaxEntities < 1 {
		return fmt.Errorf("%w: max entities %d, want at least 1", ErrInvalidConfig, c.MaxEntities)
	}
	return nil
}

func checkConfidence(name string, v float32) error {
	if math.IsNaN(float64(v)) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %v out of [0, 1]", ErrInvalidConfig, name, v)
	}
	return nil
}

// Option customizes detector construction.
type Option func(*options)

type options struct {
	open graph.Opener
}

// WithOpener replaces the function used to construct the graph. Tests pass
// graph.OpenerFor with a mock backend.
func WithOpener(open graph.Opener) Option {
	return func(o *options) {
		o.open = open
	}
}

func buildOptions(opts []Option) options {
	o := options{open: graph.Open}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
