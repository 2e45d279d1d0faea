// Package landmark provides the fixed-topology landmark containers reported by
// the inference graphs: body pose, hands and face mesh.
package landmark

// Landmark is a single tracked point. X and Y are normalized to the image
// width and height, Z is depth relative to the topology's reference point.
// The zero value is the default state.
type Landmark struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
	Presence   float32 `json:"presence"`
}

// IsZero reports whether every field of the landmark is zero.
func (l Landmark) IsZero() bool {
	return l == Landmark{}
}

// Container is implemented by all topology containers. Slice returns a view
// over the backing array so a graph can fill it in place.
type Container interface {
	Slice() []Landmark
	Len() int
}

var (
	_ Container = (*Pose)(nil)
	_ Container = (*Hand)(nil)
	_ Container = (*FaceMesh)(nil)
)
