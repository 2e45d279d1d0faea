package app

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/capture"
	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/graph"
	"github.com/ayusman/mediagraph/internal/landmark"
)

// stopAfter is a Display that stops the loop after n shown frames.
type stopAfter struct {
	n     int
	shown int
	polls int
}

func (d *stopAfter) Show(img *gocv.Mat) bool {
	if img == nil {
		d.polls++
		return true
	}
	d.shown++
	return d.shown < d.n
}

func (d *stopAfter) Close() error { return nil }

func newFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
		frames[i] = &m
		t.Cleanup(func() { m.Close() })
	}
	return frames
}

func handResult() detector.Result {
	left := landmark.ThumbsUpHand()
	var right landmark.Hand
	return detector.Result{Detected: true, Entities: [][]landmark.Landmark{left.Slice(), right.Slice()}}
}

func TestApp_Run_EndOfStream(t *testing.T) {
	frames := newFrames(t, 3)
	empty := gocv.NewMat()
	defer empty.Close()

	cam := capture.NewMockCamera([]*gocv.Mat{frames[0], &empty, frames[1], frames[2]}, false)
	det := detector.NewMockDetector("hands")
	det.SetResults(handResult(), detector.Result{}, handResult())

	var seqs []uint64
	var detected []bool
	sink := SinkFunc(func(p Processed) {
		seqs = append(seqs, p.Seq)
		detected = append(detected, p.Result.Detected)
		assert.Equal(t, 64, p.Image.Cols())
	})

	var out bytes.Buffer
	display := &stopAfter{n: 100}
	a := New(Config{Mirror: true, Overlay: true, PrintLandmarks: true}, cam, det,
		WithDisplay(display), WithSink(sink), WithOutput(&out))

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, Stats{Frames: 3, Skipped: 1, Detections: 2}, a.Stats())
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
	assert.Equal(t, []bool{true, false, true}, detected)
	assert.Equal(t, 3, det.Calls())
	assert.Equal(t, 3, display.shown)
	assert.Equal(t, 1, display.polls)
	assert.False(t, cam.IsOpen())

	wrist := landmark.ThumbsUpHand().Points[landmark.Wrist]
	line := "LANDMARK: " + fmtLandmark(wrist) + "\n"
	assert.Equal(t, line+line, out.String())
}

func fmtLandmark(l landmark.Landmark) string {
	return fmt.Sprintf("%v %v %v", l.X, l.Y, l.Z)
}

func TestApp_Run_StopsOnKey(t *testing.T) {
	cam := capture.NewMockCamera(newFrames(t, 1), true)
	det := detector.NewMockDetector("pose")

	display := &stopAfter{n: 4}
	a := New(Config{}, cam, det, WithDisplay(display))

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 4, display.shown)
	assert.Equal(t, 4, a.Stats().Frames)
}

func TestApp_Run_MaxFrames(t *testing.T) {
	cam := capture.NewMockCamera(newFrames(t, 2), true)
	det := detector.NewMockDetector("face")

	a := New(Config{MaxFrames: 5}, cam, det)
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 5, det.Calls())
}

func TestApp_Run_ContextCancelled(t *testing.T) {
	cam := capture.NewMockCamera(newFrames(t, 1), true)
	det := detector.NewMockDetector("hands")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(Config{}, cam, det)
	require.NoError(t, a.Run(ctx))
	assert.Equal(t, 0, det.Calls())
}

func TestApp_Run_DetectorFailureStops(t *testing.T) {
	cam := capture.NewMockCamera(newFrames(t, 1), true)
	det := detector.NewMockDetector("hands")
	det.SetError(graph.ErrClosed)

	a := New(Config{}, cam, det)
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, graph.ErrClosed)
	assert.Equal(t, 1, det.Calls())
}
