package sim

import (
	gomath "math"

	"github.com/Faultbox/ragdoll/internal/animation"
	"github.com/Faultbox/ragdoll/internal/skeleton"
	"github.com/Faultbox/ragdoll/pkg/math"
)

// ClipIdle is the looping stance the get-up clips return to.
const ClipIdle = "Idle"

func pitch(deg float64) math.Quat {
	return math.QuatFromAxisAngle(math.Vec3{X: 1}, float32(deg*gomath.Pi/180))
}

// pose returns a keyframe with every bone at rest, then applies overrides.
func pose(bones skeleton.BoneMap, hipsY float32, overrides map[skeleton.BoneID]math.Quat) animation.Pose {
	p := animation.Pose{
		Hips:      math.Vec3{Y: hipsY},
		Rotations: make(map[skeleton.BoneID]math.Quat, len(bones)),
	}
	for id := range bones {
		p.Rotations[id] = math.QuatIdentity()
	}
	for id, q := range overrides {
		p.Rotations[id] = q
	}
	return p
}

// DemoClips returns the idle stance and the two get-up clips named by the
// recovery settings.
func DemoClips(bones skeleton.BoneMap, backClip, frontClip string) []*animation.Clip {
	stand := pose(bones, 1, nil)

	return []*animation.Clip{
		{
			Name:   ClipIdle,
			Frames: []animation.Pose{stand},
			Loop:   true,
		},
		{
			// Supine: head towards -Z, then sit up and stand.
			Name:     backClip,
			Interval: 0.4,
			Next:     ClipIdle,
			Frames: []animation.Pose{
				pose(bones, 0.15, map[skeleton.BoneID]math.Quat{skeleton.Hips: pitch(-90)}),
				pose(bones, 0.3, map[skeleton.BoneID]math.Quat{
					skeleton.Hips:          pitch(-30),
					skeleton.LeftUpperLeg:  pitch(-60),
					skeleton.RightUpperLeg: pitch(-60),
					skeleton.LeftLowerLeg:  pitch(100),
					skeleton.RightLowerLeg: pitch(100),
				}),
				pose(bones, 0.6, map[skeleton.BoneID]math.Quat{
					skeleton.Hips:          pitch(20),
					skeleton.LeftUpperLeg:  pitch(-80),
					skeleton.RightUpperLeg: pitch(-80),
					skeleton.LeftLowerLeg:  pitch(110),
					skeleton.RightLowerLeg: pitch(110),
				}),
				stand,
			},
		},
		{
			// Prone: head towards +Z, push up onto the knees and stand.
			Name:     frontClip,
			Interval: 0.4,
			Next:     ClipIdle,
			Frames: []animation.Pose{
				pose(bones, 0.15, map[skeleton.BoneID]math.Quat{skeleton.Hips: pitch(90)}),
				pose(bones, 0.45, map[skeleton.BoneID]math.Quat{
					skeleton.Hips:          pitch(45),
					skeleton.LeftUpperLeg:  pitch(-45),
					skeleton.RightUpperLeg: pitch(-45),
					skeleton.LeftUpperArm:  pitch(-45),
					skeleton.RightUpperArm: pitch(-45),
				}),
				pose(bones, 0.7, map[skeleton.BoneID]math.Quat{
					skeleton.Hips:          pitch(15),
					skeleton.LeftUpperLeg:  pitch(-30),
					skeleton.RightUpperLeg: pitch(-30),
					skeleton.LeftLowerLeg:  pitch(40),
					skeleton.RightLowerLeg: pitch(40),
				}),
				stand,
			},
		},
	}
}
