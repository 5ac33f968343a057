package ragdoll

import "fmt"

// State is the control regime of the character body.
type State int

const (
	// Animated: the animation system owns every transform.
	Animated State = iota
	// Ragdolled: animation is off and physics owns the segments.
	Ragdolled
	// BlendToAnim: animation is back on and the late update fades the
	// last ragdoll pose out over it.
	BlendToAnim
)

func (s State) String() string {
	switch s {
	case Animated:
		return "animated"
	case Ragdolled:
		return "ragdolled"
	case BlendToAnim:
		return "blend_to_anim"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// next returns the only state reachable from s.
func (s State) next() State {
	switch s {
	case Animated:
		return Ragdolled
	case Ragdolled:
		return BlendToAnim
	default:
		return Animated
	}
}
