package landmark

import "math"

// Distance returns the Euclidean distance between two landmarks in 3D.
func Distance(a, b Landmark) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance2D returns the distance between two landmarks in the image plane.
func Distance2D(a, b Landmark) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// Angle returns the angle in degrees at b formed by the segments b->a and
// b->c, measured in the image plane. The result is in [0, 360).
func Angle(a, b, c Landmark) float64 {
	deg := (math.Atan2(float64(c.Y-b.Y), float64(c.X-b.X)) -
		math.Atan2(float64(a.Y-b.Y), float64(a.X-b.X))) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// CheckAngle reports whether angle lies within tolerance degrees of target.
func CheckAngle(angle, target, tolerance float64) bool {
	return angle >= target-tolerance && angle <= target+tolerance
}

// Box is an axis-aligned rectangle in normalized image coordinates.
type Box struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// Width returns the box width.
func (b Box) Width() float32 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float32 { return b.MaxY - b.MinY }

// BoundingBox returns the smallest box enclosing the given points. An empty
// slice yields the zero Box.
func BoundingBox(points []Landmark) Box {
	if len(points) == 0 {
		return Box{}
	}

	b := Box{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Mirror flips the X coordinate of every point in place, undoing a
// horizontal flip of the source frame.
func Mirror(points []Landmark) {
	for i := range points {
		points[i].X = 1 - points[i].X
	}
}
