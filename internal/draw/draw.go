// Package draw renders landmark overlays onto frames.
package draw

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/landmark"
)

// Overlay colours, BGR frames assumed.
var (
	PointColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	EdgeColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	BoxColor   = color.RGBA{R: 255, G: 0, B: 255, A: 0}
)

// Style controls overlay geometry in pixels.
type Style struct {
	Radius    int
	Thickness int
}

// DefaultStyle matches the usual landmark overlay.
var DefaultStyle = Style{Radius: 3, Thickness: 2}

// Pixel converts a normalized landmark to a pixel position on img.
func Pixel(img *gocv.Mat, l landmark.Landmark) image.Point {
	return image.Pt(int(l.X*float32(img.Cols())), int(l.Y*float32(img.Rows())))
}

// Points draws a dot on every landmark. Zero landmarks are skipped.
func Points(img *gocv.Mat, points []landmark.Landmark, s Style) {
	for _, p := range points {
		if p.IsZero() {
			continue
		}
		gocv.Circle(img, Pixel(img, p), s.Radius, PointColor, -1)
	}
}

// Connections draws the edges between landmarks. Edges touching a zero
// landmark or falling outside points are skipped.
func Connections[I ~int](img *gocv.Mat, points []landmark.Landmark, edges [][2]I, s Style) {
	for _, e := range edges {
		a, b := int(e[0]), int(e[1])
		if a >= len(points) || b >= len(points) {
			continue
		}
		if points[a].IsZero() || points[b].IsZero() {
			continue
		}
		gocv.Line(img, Pixel(img, points[a]), Pixel(img, points[b]), EdgeColor, s.Thickness)
	}
}

// Box draws a normalized bounding box.
func Box(img *gocv.Mat, b landmark.Box, s Style) {
	r := image.Rectangle{
		Min: Pixel(img, landmark.Landmark{X: b.MinX, Y: b.MinY}),
		Max: Pixel(img, landmark.Landmark{X: b.MaxX, Y: b.MaxY}),
	}
	gocv.Rectangle(img, r, BoxColor, s.Thickness)
}

// Result draws every entity of r with the skeleton of its topology. Face
// meshes are drawn as points only.
func Result(img *gocv.Mat, r detector.Result, s Style) {
	if !r.Detected || img == nil || img.Empty() {
		return
	}
	for _, points := range r.Entities {
		switch r.Detector {
		case "pose":
			Connections(img, points, landmark.PoseConnections, s)
		case "hands":
			if isEmpty(points) {
				continue
			}
			Connections(img, points, landmark.HandConnections, s)
			Box(img, landmark.BoundingBox(points), s)
		}
		Points(img, points, s)
	}
}

func isEmpty(points []landmark.Landmark) bool {
	for _, p := range points {
		if !p.IsZero() {
			return false
		}
	}
	return true
}
