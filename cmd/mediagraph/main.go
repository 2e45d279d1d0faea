// Command mediagraph runs a landmark detector over a camera feed.
//
//	mediagraph -mode hands
//	mediagraph -mode pose -device clip.mp4 -headless -listen :8080 -record sessions.db
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ayusman/mediagraph/internal/app"
	"github.com/ayusman/mediagraph/internal/capture"
	"github.com/ayusman/mediagraph/internal/config"
	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/logger"
	"github.com/ayusman/mediagraph/internal/server"
	"github.com/ayusman/mediagraph/internal/store"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		mode       = flag.String("mode", "", "detector: pose, hands or face")
		device     = flag.String("device", "", "camera index or video file")
		listen     = flag.String("listen", "", "monitor server address, e.g. :8080")
		record     = flag.String("record", "", "record sessions to this SQLite file")
		headless   = flag.Bool("headless", false, "do not open a window")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediagraph: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "device":
			cfg.Camera.Device = *device
		case "listen":
			cfg.Listen = *listen
		case "record":
			cfg.Record = *record
		case "headless":
			cfg.Headless = *headless
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mediagraph: %v\n", err)
		os.Exit(2)
	}

	initLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.S().Fatalw("mediagraph failed", "error", err)
	}
}

func initLogger(l config.Log) {
	var err error
	if l.Development {
		err = logger.InitDevelopment(l.Level)
	} else {
		err = logger.InitProduction(l.Level)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediagraph: logger: %v\n", err)
		os.Exit(2)
	}
}

func newDetector(cfg *config.Config) (detector.Detector, error) {
	switch cfg.Mode {
	case config.ModePose:
		return detector.NewPoseDetector(cfg.Pose)
	case config.ModeFace:
		return detector.NewFaceMeshDetector(cfg.Face)
	default:
		return detector.NewHandDetector(cfg.Hands)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	det, err := newDetector(cfg)
	if err != nil {
		// The graph cannot be built; nothing else can work.
		logger.S().Fatalw("create detector", "mode", cfg.Mode, "error", err)
	}
	defer det.Close()

	opts := []app.Option{app.WithOutput(os.Stdout)}

	if !cfg.Headless {
		win := app.NewWindow(cfg.Window, 10)
		defer win.Close()
		opts = append(opts, app.WithDisplay(win))
	}

	var st *store.Store
	if cfg.Record != "" {
		st, err = store.New(cfg.Record)
		if err != nil {
			return fmt.Errorf("open recording store: %w", err)
		}
		defer st.Close()

		rec, err := store.NewRecorder(st, det.Name(), cfg.Detector())
		if err != nil {
			return fmt.Errorf("start recording: %w", err)
		}
		defer rec.Close()
		opts = append(opts, app.WithSink(rec))
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var serverErr error
	serverDone := make(chan struct{})
	if cfg.Listen != "" {
		hub := server.NewHub()
		opts = append(opts, app.WithSink(hub))

		srv := server.New(server.Config{Store: st, Hub: hub, Detector: det.Name()})
		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(loopCtx, cfg.Listen); err != nil {
				serverErr = fmt.Errorf("monitor server: %w", err)
				cancel()
			}
		}()
	} else {
		close(serverDone)
	}

	cam := capture.NewCamera(cfg.Camera)
	loop := app.New(app.Config{
		Mirror:         cfg.Mirror,
		Overlay:        cfg.Overlay,
		PrintLandmarks: cfg.Print,
	}, cam, det, opts...)

	// highgui needs the main thread, so the loop runs here.
	err = loop.Run(loopCtx)
	cancel()
	<-serverDone

	stats := loop.Stats()
	logger.S().Infow("capture finished", "frames", stats.Frames, "skipped", stats.Skipped, "detections", stats.Detections)

	if err != nil {
		return err
	}
	return serverErr
}
