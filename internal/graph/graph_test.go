package graph

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mediagraph/internal/frame"
	"github.com/ayusman/mediagraph/internal/landmark"
	"github.com/ayusman/mediagraph/internal/metrics"
)

func testConfig(name string) Config {
	return Config{
		Name:       name,
		Text:       `node { calculator: "PassThroughCalculator" }`,
		OutputNode: "landmarks",
		Outputs:    1,
		Landmarks:  3,
	}
}

func rgbView(w, h int) frame.View {
	return frame.View{Pix: make([]byte, w*h*3), Width: w, Height: h, Stride: w * 3, Format: frame.FormatRGB}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "valid", mutate: func(*Config) {}, valid: true},
		{name: "empty text", mutate: func(c *Config) { c.Text = "" }},
		{name: "empty output node", mutate: func(c *Config) { c.OutputNode = "" }},
		{name: "no outputs", mutate: func(c *Config) { c.Outputs = 0 }},
		{name: "no landmarks", mutate: func(c *Config) { c.Landmarks = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("validate")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestNewHandle_InvalidConfigReleasesBackend(t *testing.T) {
	mock := NewMockBackend()
	cfg := testConfig("invalid")
	cfg.Text = ""

	h, err := NewHandle(cfg, mock)

	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 1, mock.Closes())
}

func TestHandle_RejectsEmptyFrameBeforeBackend(t *testing.T) {
	mock := NewMockBackend(MockResult{Detected: true})
	h, err := NewHandle(testConfig("empty-frame"), mock)
	require.NoError(t, err)
	defer h.Close()

	out := make([]landmark.Landmark, 3)
	detected, err := h.Process(frame.View{Format: frame.FormatRGB}, out)

	assert.False(t, detected)
	assert.ErrorIs(t, err, frame.ErrEmptyFrame)
	assert.Equal(t, 0, mock.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SkippedFramesTotal.WithLabelValues("empty-frame", metrics.ReasonEmpty)))
}

func TestHandle_RejectsWrongFormat(t *testing.T) {
	mock := NewMockBackend(MockResult{Detected: true})
	h, err := NewHandle(testConfig("bgr-frame"), mock)
	require.NoError(t, err)
	defer h.Close()

	v := rgbView(2, 2)
	v.Format = frame.FormatBGR
	_, err = h.Process(v, make([]landmark.Landmark, 3))

	assert.ErrorIs(t, err, frame.ErrUnsupportedFormat)
	assert.Equal(t, 0, mock.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SkippedFramesTotal.WithLabelValues("bgr-frame", metrics.ReasonInvalid)))
}

func TestHandle_ChecksOutputShape(t *testing.T) {
	mock := NewMockBackend()
	h, err := NewHandle(testConfig("shape"), mock)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Process(rgbView(2, 2))
	assert.ErrorIs(t, err, ErrOutputShape)

	_, err = h.Process(rgbView(2, 2), make([]landmark.Landmark, 2))
	assert.ErrorIs(t, err, ErrOutputShape)

	assert.Equal(t, 0, mock.Calls())
}

func TestHandle_PassesThroughBackendResult(t *testing.T) {
	want := []landmark.Landmark{{X: 0.1}, {Y: 0.2}, {Z: 0.3, Visibility: 0.9, Presence: 0.8}}
	mock := NewMockBackend(
		MockResult{Detected: true, Outputs: [][]landmark.Landmark{want}},
		MockResult{Detected: false},
	)
	h, err := NewHandle(testConfig("passthrough"), mock)
	require.NoError(t, err)
	defer h.Close()

	out := make([]landmark.Landmark, 3)
	v := rgbView(4, 2)

	detected, err := h.Process(v, out)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, want, out)
	assert.Equal(t, 4, mock.LastView().Width)

	detected, err = h.Process(v, out)
	require.NoError(t, err)
	assert.False(t, detected)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FramesTotal.WithLabelValues("passthrough")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DetectionsTotal.WithLabelValues("passthrough")))
}

func TestHandle_CloseReleasesOnce(t *testing.T) {
	mock := NewMockBackend()
	h, err := NewHandle(testConfig("close"), mock)
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, mock.Closes())

	_, err = h.Process(rgbView(2, 2), make([]landmark.Landmark, 3))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 0, mock.Calls())
}

// blockingBackend holds Process until release is closed.
type blockingBackend struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Process(frame.View, [][]landmark.Landmark) bool {
	close(b.entered)
	<-b.release
	return true
}

func (b *blockingBackend) Close() error { return nil }

func TestHandle_RejectsConcurrentProcess(t *testing.T) {
	b := &blockingBackend{entered: make(chan struct{}), release: make(chan struct{})}
	h, err := NewHandle(testConfig("busy"), b)
	require.NoError(t, err)
	defer h.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		detected, err := h.Process(rgbView(2, 2), make([]landmark.Landmark, 3))
		assert.NoError(t, err)
		assert.True(t, detected)
	}()

	<-b.entered
	_, err = h.Process(rgbView(2, 2), make([]landmark.Landmark, 3))
	assert.ErrorIs(t, err, ErrBusy)

	close(b.release)
	wg.Wait()
}

func TestHandles_DoNotShareState(t *testing.T) {
	script := []MockResult{
		{Detected: true, Outputs: [][]landmark.Landmark{{{X: 1}, {X: 1}, {X: 1}}}},
		{Detected: false},
		{Detected: true, Outputs: [][]landmark.Landmark{{{X: 3}, {X: 3}, {X: 3}}}},
	}
	a, err := NewHandle(testConfig("independent"), NewMockBackend(script...))
	require.NoError(t, err)
	defer a.Close()
	b, err := NewHandle(testConfig("independent"), NewMockBackend(script...))
	require.NoError(t, err)
	defer b.Close()

	out := make([]landmark.Landmark, 3)
	for i := 0; i < 2; i++ {
		_, err := a.Process(rgbView(2, 2), out)
		require.NoError(t, err)
	}

	detected, err := b.Process(rgbView(2, 2), out)
	require.NoError(t, err)
	assert.True(t, detected)
	assert.Equal(t, float32(1), out[0].X, "second handle must start at the beginning of its own sequence")
}

func TestOpen_WithoutRuntime(t *testing.T) {
	if Available {
		t.Skip("native runtime linked in")
	}

	g, err := Open(testConfig("stub"))
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = Open(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpenerFor(t *testing.T) {
	mock := NewMockBackend(MockResult{Detected: true})
	open := OpenerFor(mock)

	g, err := open(testConfig("opener"))
	require.NoError(t, err)

	detected, err := g.Process(rgbView(1, 1), make([]landmark.Landmark, 3))
	require.NoError(t, err)
	assert.True(t, detected)

	require.NoError(t, g.Close())
	assert.Equal(t, 1, mock.Closes())
}
