package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/ayusman/mediagraph/internal/detector"
	"github.com/ayusman/mediagraph/internal/landmark"
)

func blank(t *testing.T) gocv.Mat {
	t.Helper()
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
}

func TestPixel(t *testing.T) {
	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	p := Pixel(&img, landmark.Landmark{X: 0.5, Y: 0.25})
	assert.Equal(t, 320, p.X)
	assert.Equal(t, 120, p.Y)
}

func TestResult_DrawsHand(t *testing.T) {
	img := blank(t)
	defer img.Close()

	hand := landmark.OpenPalmHand()
	Result(&img, detector.Result{
		Detector: "hands",
		Detected: true,
		Entities: [][]landmark.Landmark{hand.Slice(), make([]landmark.Landmark, landmark.NumHandLandmarks)},
	}, DefaultStyle)

	wrist := Pixel(&img, hand.At(landmark.Wrist))
	v := img.GetVecbAt(wrist.Y, wrist.X)
	assert.Equal(t, uint8(255), v[0])

	// The empty second slot leaves the origin untouched.
	origin := img.GetVecbAt(0, 0)
	assert.Equal(t, uint8(0), origin[0]+origin[1]+origin[2])
}

func TestResult_NotDetectedDrawsNothing(t *testing.T) {
	img := blank(t)
	defer img.Close()

	pose := landmark.StandingPose()
	Result(&img, detector.Result{
		Detector: "pose",
		Entities: [][]landmark.Landmark{pose.Slice()},
	}, DefaultStyle)

	nose := Pixel(&img, pose.At(landmark.Nose))
	v := img.GetVecbAt(nose.Y, nose.X)
	assert.Equal(t, uint8(0), v[0])
}

func TestConnections_SkipsOutOfRangeEdges(t *testing.T) {
	img := blank(t)
	defer img.Close()

	points := []landmark.Landmark{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}}
	Connections(&img, points, [][2]int{{0, 1}, {0, 7}}, DefaultStyle)

	mid := img.GetVecbAt(10, 50)
	assert.Equal(t, uint8(255), mid[1])
}
