// Package capture reads frames from a camera or a video file using GoCV.
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/frame"
)

// Default capture settings.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrEndOfStream is returned once a non-looping source has no more frames.
	ErrEndOfStream = errors.New("end of stream")

	errEmptyRead = fmt.Errorf("read frame: %w", frame.ErrEmptyFrame)
)

// Settings selects the capture source and the requested geometry. Device is
// a camera index ("0") or a video file path. Cameras may ignore the
// requested geometry.
type Settings struct {
	Device string `yaml:"device" env:"DEVICE"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
	FPS    int    `yaml:"fps" env:"FPS"`
}

// DefaultSettings returns the default camera at 640x480, 30 fps.
func DefaultSettings() Settings {
	return Settings{
		Device: "0",
		Width:  DefaultWidth,
		Height: DefaultHeight,
		FPS:    DefaultFPS,
	}
}

// Camera defines the interface for capture sources.
type Camera interface {
	Open() error
	Close() error

	// ReadFrame reads the next BGR frame into dst. A frame the driver
	// delivered without pixels is reported as frame.ErrEmptyFrame; the
	// caller may skip it and read again.
	ReadFrame(dst *gocv.Mat) error

	Settings() Settings
	IsOpen() bool
}

// cameraImpl manages video capture from a device or file using GoCV.
type cameraImpl struct {
	settings Settings
	capture  *gocv.VideoCapture
	file     bool
	mu       sync.Mutex
	running  bool
}

// NewCamera creates a Camera for s. Zero geometry fields take the defaults.
func NewCamera(s Settings) Camera {
	d := DefaultSettings()
	if s.Device == "" {
		s.Device = d.Device
	}
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.FPS <= 0 {
		s.FPS = d.FPS
	}
	return &cameraImpl{settings: s}
}

// Open opens the source and requests the configured geometry.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	id, convErr := strconv.Atoi(c.settings.Device)
	isDevice := convErr == nil
	if isDevice {
		capture, err = gocv.OpenVideoCapture(id)
	} else {
		capture, err = gocv.VideoCaptureFile(c.settings.Device)
	}
	if err != nil {
		return fmt.Errorf("open capture %q: %w", c.settings.Device, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.settings.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.settings.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.settings.FPS))

	c.capture = capture
	c.file = !isDevice
	c.running = true

	return nil
}

// Close closes the source and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame implements Camera.
func (c *cameraImpl) ReadFrame(dst *gocv.Mat) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return ErrCameraNotOpen
	}

	if ok := c.capture.Read(dst); !ok {
		// Files end with a failed read, cameras may drop a single frame.
		if c.file || !c.capture.IsOpened() {
			return ErrEndOfStream
		}
		return errEmptyRead
	}
	if dst.Empty() || dst.Cols() <= 0 {
		return errEmptyRead
	}

	return nil
}

// Settings returns the requested settings.
func (c *cameraImpl) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.settings
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
