package detector

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
)

//go:embed graphs/*.pbtxt
var graphFS embed.FS

var graphTemplates = template.Must(
	template.New("graphs").Option("missingkey=error").ParseFS(graphFS, "graphs/*.pbtxt"),
)

// topology ties a graph description to the shape of its output.
type topology struct {
	name       string
	file       string
	outputNode string
	outputs    int
	landmarks  int
}

var (
	poseTopology = topology{
		name:       "pose",
		file:       "pose_tracking_cpu.pbtxt",
		outputNode: "pose_landmarks",
		outputs:    1,
		landmarks:  landmark.NumPoseLandmarks,
	}
	handTopology = topology{
		name:       "hands",
		file:       "hand_tracking_desktop_live.pbtxt",
		outputNode: "hand_landmarks",
		outputs:    2,
		landmarks:  landmark.NumHandLandmarks,
	}
	faceMeshTopology = topology{
		name:       "face",
		file:       "face_mesh_desktop_live.pbtxt",
		outputNode: "multi_face_landmarks",
		outputs:    1,
		landmarks:  landmark.NumFaceMeshLandmarks,
	}
)

// graphParams are the values substituted into a graph description.
type graphParams struct {
	StaticMode          bool
	Smooth              bool
	MaxEntities         int
	DetectionConfidence string
	TrackingConfidence  string
}

// graphConfig renders the topology's description with cfg.
func (t topology) graphConfig(cfg Config) (graph.Config, error) {
	params := graphParams{
		StaticMode:          cfg.StaticMode,
		Smooth:              cfg.Smooth,
		MaxEntities:         cfg.MaxEntities,
		DetectionConfidence: strconv.FormatFloat(float64(cfg.DetectionConfidence), 'f', -1, 32),
		TrackingConfidence:  strconv.FormatFloat(float64(cfg.TrackingConfidence), 'f', -1, 32),
	}

	var buf bytes.Buffer
	if err := graphTemplates.ExecuteTemplate(&buf, t.file, params); err != nil {
		return graph.Config{}, fmt.Errorf("render %s: %w", t.file, err)
	}

	return graph.Config{
		Name:       t.name,
		Text:       buf.String(),
		OutputNode: t.outputNode,
		Outputs:    t.outputs,
		Landmarks:  t.landmarks,
	}, nil
}

// open validates cfg, renders the description and constructs the graph.
func (t topology) open(cfg Config, opts []Option) (graph.Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s detector: %w", t.name, err)
	}
	gcfg, err := t.graphConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s detector: %w", t.name, err)
	}

	o := buildOptions(opts)
	g, err := o.open(gcfg)
	if err != nil {
		return nil, fmt.Errorf("%s detector: %w", t.name, err)
	}
	return g, nil
}
