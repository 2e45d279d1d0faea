package landmark

import "fmt"

// PoseIndex names a landmark of the 33-point body pose topology.
type PoseIndex int

// Pose landmark indices.
const (
	Nose PoseIndex = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	// NumPoseLandmarks is the size of the pose topology.
	NumPoseLandmarks = int(RightFootIndex) + 1
)

var poseNames = [NumPoseLandmarks]string{
	"nose", "left_eye_inner", "left_eye", "left_eye_outer",
	"right_eye_inner", "right_eye", "right_eye_outer",
	"left_ear", "right_ear", "mouth_left", "mouth_right",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_pinky", "right_pinky",
	"left_index", "right_index", "left_thumb", "right_thumb",
	"left_hip", "right_hip", "left_knee", "right_knee",
	"left_ankle", "right_ankle", "left_heel", "right_heel",
	"left_foot_index", "right_foot_index",
}

func (i PoseIndex) String() string {
	if i < 0 || int(i) >= NumPoseLandmarks {
		return fmt.Sprintf("PoseIndex(%d)", int(i))
	}
	return poseNames[i]
}

// PoseConnections lists the skeleton edges used when drawing a pose.
var PoseConnections = [][2]PoseIndex{
	{Nose, LeftEyeInner}, {LeftEyeInner, LeftEye}, {LeftEye, LeftEyeOuter}, {LeftEyeOuter, LeftEar},
	{Nose, RightEyeInner}, {RightEyeInner, RightEye}, {RightEye, RightEyeOuter}, {RightEyeOuter, RightEar},
	{MouthLeft, MouthRight},
	{LeftShoulder, RightShoulder}, {LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{LeftWrist, LeftPinky}, {LeftWrist, LeftIndex}, {LeftWrist, LeftThumb}, {LeftPinky, LeftIndex},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{RightWrist, RightPinky}, {RightWrist, RightIndex}, {RightWrist, RightThumb}, {RightPinky, RightIndex},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip}, {LeftHip, RightHip},
	{LeftHip, LeftKnee}, {LeftKnee, LeftAnkle}, {LeftAnkle, LeftHeel}, {LeftHeel, LeftFootIndex}, {LeftAnkle, LeftFootIndex},
	{RightHip, RightKnee}, {RightKnee, RightAnkle}, {RightAnkle, RightHeel}, {RightHeel, RightFootIndex}, {RightAnkle, RightFootIndex},
}

// Pose holds the 33 body landmarks of a single person.
type Pose struct {
	Points [NumPoseLandmarks]Landmark `json:"points"`
}

// At returns the landmark at index i.
func (p *Pose) At(i PoseIndex) Landmark {
	return p.Points[i]
}

// Slice returns the backing array as a slice.
func (p *Pose) Slice() []Landmark { return p.Points[:] }

// Len returns NumPoseLandmarks.
func (p *Pose) Len() int { return NumPoseLandmarks }

// Angle returns the angle in degrees at joint b formed by a-b-c.
func (p *Pose) Angle(a, b, c PoseIndex) float64 {
	return Angle(p.Points[a], p.Points[b], p.Points[c])
}
