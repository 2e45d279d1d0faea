package app

import (
	"gocv.io/x/gocv"
)

// Display shows processed frames. Show draws img when it is non-nil, polls
// the keyboard and reports whether the loop should keep running.
type Display interface {
	Show(img *gocv.Mat) bool
	Close() error
}

// Window is a highgui window. Any key press stops the loop.
type Window struct {
	win   *gocv.Window
	delay int
}

// NewWindow opens a window titled name. delay is the key poll timeout in
// milliseconds.
func NewWindow(name string, delay int) *Window {
	if delay <= 0 {
		delay = 10
	}
	return &Window{win: gocv.NewWindow(name), delay: delay}
}

// Show implements Display.
func (w *Window) Show(img *gocv.Mat) bool {
	if img != nil && !img.Empty() {
		w.win.IMShow(*img)
	}
	key := w.win.WaitKey(w.delay)
	return !(key > 0 && key != 255)
}

// Close implements Display.
func (w *Window) Close() error {
	return w.win.Close()
}

// Headless discards frames. It never stops the loop; cancel the context
// instead.
type Headless struct{}

// Show implements Display.
func (Headless) Show(*gocv.Mat) bool { return true }

// Close implements Display.
func (Headless) Close() error { return nil }
