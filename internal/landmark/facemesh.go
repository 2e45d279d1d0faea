package landmark

// NumFaceMeshLandmarks is the size of the face mesh topology: 468 mesh
// vertices followed by 10 iris landmarks.
const NumFaceMeshLandmarks = 478

// Face mesh reference points.
const (
	FaceNoseTip         = 1
	FaceLeftEyeOuter    = 263
	FaceRightEyeOuter   = 33
	FaceUpperLip        = 13
	FaceLowerLip        = 14
	FaceRightIrisCenter = 468
	FaceLeftIrisCenter  = 473
)

// FaceMesh holds the mesh landmarks of a single face. When the graph reports
// several faces only the first one is kept.
type FaceMesh struct {
	Points [NumFaceMeshLandmarks]Landmark `json:"points"`
}

// Slice returns the backing array as a slice.
func (f *FaceMesh) Slice() []Landmark { return f.Points[:] }

// Len returns NumFaceMeshLandmarks.
func (f *FaceMesh) Len() int { return NumFaceMeshLandmarks }

// MouthOpening returns the distance between the inner upper and lower lip.
func (f *FaceMesh) MouthOpening() float64 {
	return Distance(f.Points[FaceUpperLip], f.Points[FaceLowerLip])
}
