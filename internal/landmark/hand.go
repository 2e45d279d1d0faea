package landmark

import "fmt"

// HandIndex names a landmark of the 21-point hand topology.
type HandIndex int

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist HandIndex = iota
	ThumbCMC
	ThumbMCP
	ThumbIP
	ThumbTip
	IndexMCP
	IndexPIP
	IndexDIP
	IndexTip
	MiddleMCP
	MiddlePIP
	MiddleDIP
	MiddleTip
	RingMCP
	RingPIP
	RingDIP
	RingTip
	PinkyMCP
	PinkyPIP
	PinkyDIP
	PinkyTip

	// NumHandLandmarks is the size of the hand topology.
	NumHandLandmarks = int(PinkyTip) + 1
)

var handNames = [NumHandLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_finger_mcp", "index_finger_pip", "index_finger_dip", "index_finger_tip",
	"middle_finger_mcp", "middle_finger_pip", "middle_finger_dip", "middle_finger_tip",
	"ring_finger_mcp", "ring_finger_pip", "ring_finger_dip", "ring_finger_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

func (i HandIndex) String() string {
	if i < 0 || int(i) >= NumHandLandmarks {
		return fmt.Sprintf("HandIndex(%d)", int(i))
	}
	return handNames[i]
}

// FingerTips lists the tip landmark of each finger, thumb first.
var FingerTips = [5]HandIndex{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// HandConnections lists the bone edges used when drawing a hand.
var HandConnections = [][2]HandIndex{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Hand holds the 21 landmarks of a single hand.
type Hand struct {
	Points [NumHandLandmarks]Landmark `json:"points"`
}

// At returns the landmark at index i.
func (h *Hand) At(i HandIndex) Landmark {
	return h.Points[i]
}

// Slice returns the backing array as a slice.
func (h *Hand) Slice() []Landmark { return h.Points[:] }

// Len returns NumHandLandmarks.
func (h *Hand) Len() int { return NumHandLandmarks }

// Normalize normalizes the hand landmarks relative to wrist position and hand size.
// The normalized landmarks have the wrist at origin (0,0,0) and are scaled
// so that the distance from wrist to middle finger MCP is 1.0.
// Visibility and presence are carried over unchanged.
func (h *Hand) Normalize() *Hand {
	if h == nil {
		return nil
	}

	normalized := &Hand{}
	wrist := h.Points[Wrist]

	for i := 0; i < NumHandLandmarks; i++ {
		p := h.Points[i]
		p.X -= wrist.X
		p.Y -= wrist.Y
		p.Z -= wrist.Z
		normalized.Points[i] = p
	}

	scale := float32(Distance(Landmark{}, normalized.Points[MiddleMCP]))

	// Avoid division by zero
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumHandLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}

// FingersUp reports which fingers are extended, thumb first.
//
// Fingers count as up when the tip is above (smaller Y) its PIP joint. The
// thumb is judged horizontally against its IP joint: for a right hand with the
// palm towards an unmirrored camera an extended thumb points to larger X. The
// graph does not report handedness, so the caller states it with rightHand.
func (h *Hand) FingersUp(rightHand bool) [5]bool {
	var up [5]bool

	thumbTip, thumbIP := h.Points[ThumbTip], h.Points[ThumbIP]
	if rightHand {
		up[0] = thumbTip.X > thumbIP.X
	} else {
		up[0] = thumbTip.X < thumbIP.X
	}

	for i, tip := range FingerTips[1:] {
		pip := tip - 2
		up[i+1] = h.Points[tip].Y < h.Points[pip].Y
	}

	return up
}

// Spread returns the distance between two landmarks of the hand.
func (h *Hand) Spread(a, b HandIndex) float64 {
	return Distance(h.Points[a], h.Points[b])
}

// Empty reports whether no landmark of the hand has been set.
func (h *Hand) Empty() bool {
	for _, p := range h.Points {
		if !p.IsZero() {
			return false
		}
	}
	return true
}
