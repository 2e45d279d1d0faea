// Package app runs the capture loop: read, convert, detect, publish, show.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/capture"
	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/draw"
	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/logger"
	"github.com/ayusman/mediagraph/internal/metrics"
)

// Processed is one frame that went through the detector. Image is the
// displayed BGR frame, overlays included; it is only valid for the duration
// of Sink.Consume.
type Processed struct {
	Seq       uint64
	Timestamp time.Time
	Image     *gocv.Mat
	Result    detector.Result
}

// Sink receives every processed frame, in order, on the loop goroutine.
type Sink interface {
	Consume(p Processed)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(p Processed)

// Consume implements Sink.
func (f SinkFunc) Consume(p Processed) { f(p) }

// Config holds configuration options for the loop.
type Config struct {
	// Mirror flips frames horizontally before detection.
	Mirror bool

	// Overlay draws the landmarks onto the displayed frame.
	Overlay bool

	// PrintLandmarks writes the first landmark of every detection to the
	// output writer.
	PrintLandmarks bool

	// MaxFrames stops the loop after that many reads. Zero means no limit.
	MaxFrames int
}

// Stats counts what the loop did.
type Stats struct {
	Frames     int
	Skipped    int
	Detections int
}

// App drives one detector from one camera.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	display  Display
	sinks    []Sink
	out      io.Writer

	mu    sync.Mutex
	stats Stats
}

// Option customizes an App.
type Option func(*App)

// WithDisplay replaces the default headless display.
func WithDisplay(d Display) Option {
	return func(a *App) { a.display = d }
}

// WithSink adds a sink.
func WithSink(s Sink) Option {
	return func(a *App) { a.sinks = append(a.sinks, s) }
}

// WithOutput sets the writer used by PrintLandmarks.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// New creates an App. The App does not take ownership of camera or det.
func New(config Config, camera capture.Camera, det detector.Detector, opts ...Option) *App {
	a := &App{
		config:   config,
		camera:   camera,
		detector: det,
		display:  Headless{},
		out:      io.Discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stats returns the counters of the current or last run.
func (a *App) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Run opens the camera and processes frames until ctx is done, the display
// asks to stop, the source ends or MaxFrames is reached. Empty or malformed
// frames are skipped; any other failure stops the loop and is returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			logger.S().Warnw("close camera", "error", err)
		}
	}()

	a.mu.Lock()
	a.stats = Stats{}
	a.mu.Unlock()

	conv := frame.NewConverter(frame.FormatBGR, a.config.Mirror)
	defer conv.Close()

	raw := gocv.NewMat()
	defer raw.Close()
	shown := gocv.NewMat()
	defer shown.Close()

	name := a.detector.Name()
	log := logger.S().With("detector", name)
	log.Infow("capture loop started", "mirror", a.config.Mirror, "settings", a.camera.Settings())

	var seq uint64
	for reads := 0; a.config.MaxFrames == 0 || reads < a.config.MaxFrames; reads++ {
		if err := ctx.Err(); err != nil {
			log.Infow("capture loop stopped", "reason", err)
			return nil
		}

		err := a.camera.ReadFrame(&raw)
		switch {
		case errors.Is(err, capture.ErrEndOfStream):
			log.Infow("capture loop stopped", "reason", "end of stream")
			return nil
		case errors.Is(err, frame.ErrEmptyFrame):
			log.Warn("skip empty frame")
			metrics.SkippedFramesTotal.WithLabelValues(name, metrics.ReasonRead).Inc()
			a.count(func(s *Stats) { s.Skipped++ })
			if !a.display.Show(nil) {
				return nil
			}
			continue
		case err != nil:
			return fmt.Errorf("read frame: %w", err)
		}

		rgb, err := conv.Convert(&raw)
		if err != nil {
			if !isFrameError(err) {
				return fmt.Errorf("convert frame: %w", err)
			}
			log.Warnw("skip frame", "error", err)
			a.count(func(s *Stats) { s.Skipped++ })
			continue
		}

		res, err := a.detector.Detect(rgb)
		if err != nil {
			if !isFrameError(err) {
				return fmt.Errorf("detect: %w", err)
			}
			log.Warnw("skip frame", "error", err)
			a.count(func(s *Stats) { s.Skipped++ })
			continue
		}

		seq++
		a.count(func(s *Stats) {
			s.Frames++
			if res.Detected {
				s.Detections++
			}
		})

		gocv.CvtColor(*rgb, &shown, gocv.ColorRGBToBGR)
		if a.config.Overlay {
			draw.Result(&shown, res, draw.DefaultStyle)
		}

		if a.config.PrintLandmarks {
			if l, ok := res.First(); ok {
				fmt.Fprintf(a.out, "LANDMARK: %v %v %v\n", l.X, l.Y, l.Z)
			}
		}

		p := Processed{Seq: seq, Timestamp: time.Now(), Image: &shown, Result: res}
		for _, s := range a.sinks {
			s.Consume(p)
		}

		if !a.display.Show(&shown) {
			log.Infow("capture loop stopped", "reason", "key pressed")
			return nil
		}
	}

	log.Infow("capture loop stopped", "reason", "frame limit", "frames", a.config.MaxFrames)
	return nil
}

func (a *App) count(f func(*Stats)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f(&a.stats)
}

// isFrameError reports whether err only concerns the current frame.
func isFrameError(err error) bool {
	return errors.Is(err, frame.ErrEmptyFrame) ||
		errors.Is(err, frame.ErrUnsupportedFormat) ||
		errors.Is(err, frame.ErrShortBuffer)
}
