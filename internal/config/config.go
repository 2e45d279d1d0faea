// Package config loads the runtime configuration from defaults, an optional
// YAML file and MEDIAGRAPH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mediagraph/internal/capture"
	"github.com/ayusman/mediagraph/internal/detector"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MEDIAGRAPH_"

// Detector modes.
const (
	ModePose  = "pose"
	ModeHands = "hands"
	ModeFace  = "face"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the complete runtime configuration.
type Config struct {
	Mode string `yaml:"mode" env:"MODE"`

	Camera capture.Settings `yaml:"camera" envPrefix:"CAMERA_"`
	Mirror bool             `yaml:"mirror" env:"MIRROR"`

	Pose  detector.Config `yaml:"pose" envPrefix:"POSE_"`
	Hands detector.Config `yaml:"hands" envPrefix:"HANDS_"`
	Face  detector.Config `yaml:"face" envPrefix:"FACE_"`

	// Window is the display window title. Headless disables the window.
	Window   string `yaml:"window" env:"WINDOW"`
	Headless bool   `yaml:"headless" env:"HEADLESS"`
	Overlay  bool   `yaml:"overlay" env:"OVERLAY"`
	Print    bool   `yaml:"print" env:"PRINT"`

	// Listen is the monitor server address; empty disables the server.
	Listen string `yaml:"listen" env:"LISTEN"`

	// Record is the SQLite path sessions are recorded to; empty disables
	// recording.
	Record string `yaml:"record" env:"RECORD"`

	Log Log `yaml:"log" envPrefix:"LOG_"`
}

// Log configures the process logger.
type Log struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Mode:    ModeHands,
		Camera:  capture.DefaultSettings(),
		Mirror:  true,
		Pose:    detector.DefaultPoseConfig(),
		Hands:   detector.DefaultHandConfig(),
		Face:    detector.DefaultFaceMeshConfig(),
		Window:  "video capture",
		Overlay: true,
		Print:   true,
		Log:     Log{Level: "info"},
	}
}

// Load builds the configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Detector returns the detector parameters of the selected mode.
func (c *Config) Detector() detector.Config {
	switch c.Mode {
	case ModePose:
		return c.Pose
	case ModeFace:
		return c.Face
	default:
		return c.Hands
	}
}

// Validate checks the mode, the capture geometry and the parameters of the
// selected detector.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePose, ModeHands, ModeFace:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 || c.Camera.FPS <= 0 {
		return fmt.Errorf("%w: camera %dx%d at %d fps", ErrInvalid, c.Camera.Width, c.Camera.Height, c.Camera.FPS)
	}
	if c.Camera.Device == "" {
		return fmt.Errorf("%w: empty camera device", ErrInvalid)
	}
	if err := c.Detector().Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, c.Mode, err)
	}
	return nil
}
