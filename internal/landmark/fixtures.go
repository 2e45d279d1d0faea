package landmark

// ThumbsUpHand returns a preset right hand making a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpHand() Hand {
	var h Hand

	h.Points[Wrist] = pt(0.5, 0.8, 0.0)

	// Thumb extended upward (Y decreases going up)
	h.Points[ThumbCMC] = pt(0.55, 0.75, 0.0)
	h.Points[ThumbMCP] = pt(0.58, 0.65, 0.0)
	h.Points[ThumbIP] = pt(0.58, 0.50, 0.0)
	h.Points[ThumbTip] = pt(0.58, 0.35, 0.0)

	// Index finger curled (knuckles close together, tip near palm)
	h.Points[IndexMCP] = pt(0.55, 0.70, -0.02)
	h.Points[IndexPIP] = pt(0.55, 0.68, -0.05)
	h.Points[IndexDIP] = pt(0.52, 0.70, -0.04)
	h.Points[IndexTip] = pt(0.50, 0.72, -0.02)

	h.Points[MiddleMCP] = pt(0.50, 0.68, -0.02)
	h.Points[MiddlePIP] = pt(0.50, 0.66, -0.05)
	h.Points[MiddleDIP] = pt(0.47, 0.68, -0.04)
	h.Points[MiddleTip] = pt(0.45, 0.70, -0.02)

	h.Points[RingMCP] = pt(0.45, 0.70, -0.02)
	h.Points[RingPIP] = pt(0.45, 0.68, -0.05)
	h.Points[RingDIP] = pt(0.42, 0.70, -0.04)
	h.Points[RingTip] = pt(0.40, 0.72, -0.02)

	h.Points[PinkyMCP] = pt(0.40, 0.72, -0.02)
	h.Points[PinkyPIP] = pt(0.40, 0.70, -0.05)
	h.Points[PinkyDIP] = pt(0.37, 0.72, -0.04)
	h.Points[PinkyTip] = pt(0.35, 0.74, -0.02)

	return h
}

// OpenPalmHand returns a preset right hand with all fingers extended.
func OpenPalmHand() Hand {
	var h Hand

	h.Points[Wrist] = pt(0.5, 0.8, 0.0)

	// Thumb extended to the side
	h.Points[ThumbCMC] = pt(0.55, 0.75, 0.02)
	h.Points[ThumbMCP] = pt(0.62, 0.70, 0.03)
	h.Points[ThumbIP] = pt(0.68, 0.65, 0.03)
	h.Points[ThumbTip] = pt(0.73, 0.60, 0.03)

	h.Points[IndexMCP] = pt(0.55, 0.68, 0.0)
	h.Points[IndexPIP] = pt(0.57, 0.55, 0.0)
	h.Points[IndexDIP] = pt(0.58, 0.45, 0.0)
	h.Points[IndexTip] = pt(0.58, 0.35, 0.0)

	h.Points[MiddleMCP] = pt(0.50, 0.66, 0.0)
	h.Points[MiddlePIP] = pt(0.50, 0.52, 0.0)
	h.Points[MiddleDIP] = pt(0.50, 0.40, 0.0)
	h.Points[MiddleTip] = pt(0.50, 0.28, 0.0)

	h.Points[RingMCP] = pt(0.45, 0.68, 0.0)
	h.Points[RingPIP] = pt(0.43, 0.55, 0.0)
	h.Points[RingDIP] = pt(0.42, 0.45, 0.0)
	h.Points[RingTip] = pt(0.42, 0.35, 0.0)

	h.Points[PinkyMCP] = pt(0.40, 0.70, 0.0)
	h.Points[PinkyPIP] = pt(0.37, 0.60, 0.0)
	h.Points[PinkyDIP] = pt(0.35, 0.50, 0.0)
	h.Points[PinkyTip] = pt(0.34, 0.42, 0.0)

	return h
}

// StandingPose returns a preset upright pose facing the camera with the arms
// hanging straight down.
func StandingPose() Pose {
	var p Pose

	p.Points[Nose] = pt(0.50, 0.15, 0)
	p.Points[LeftEye] = pt(0.52, 0.13, 0)
	p.Points[RightEye] = pt(0.48, 0.13, 0)
	p.Points[LeftShoulder] = pt(0.60, 0.30, 0)
	p.Points[RightShoulder] = pt(0.40, 0.30, 0)
	p.Points[LeftElbow] = pt(0.60, 0.45, 0)
	p.Points[RightElbow] = pt(0.40, 0.45, 0)
	p.Points[LeftWrist] = pt(0.60, 0.60, 0)
	p.Points[RightWrist] = pt(0.40, 0.60, 0)
	p.Points[LeftHip] = pt(0.56, 0.60, 0)
	p.Points[RightHip] = pt(0.44, 0.60, 0)
	p.Points[LeftKnee] = pt(0.56, 0.78, 0)
	p.Points[RightKnee] = pt(0.44, 0.78, 0)
	p.Points[LeftAnkle] = pt(0.56, 0.95, 0)
	p.Points[RightAnkle] = pt(0.44, 0.95, 0)

	for i := range p.Points {
		p.Points[i].Visibility = 0.9
		p.Points[i].Presence = 0.9
	}

	return p
}

func pt(x, y, z float32) Landmark {
	return Landmark{X: x, Y: y, Z: z, Visibility: 1, Presence: 1}
}
