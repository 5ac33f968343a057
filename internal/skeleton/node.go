// Package skeleton models a character's transform hierarchy, the semantic
// bone mapping and the registry of physics-bearing segments.
package skeleton

import "github.com/Faultbox/ragdoll/pkg/math"

// Body is the physics body attached to a node. Only the kinematic flag is
// toggled through the skeleton; everything else belongs to the physics layer.
type Body interface {
	SetKinematic(kinematic bool)
	Kinematic() bool
}

// Node is one transform in the hierarchy. Local values are relative to the
// parent; world values are derived on demand.
type Node struct {
	Name          string
	LocalPosition math.Vec3
	LocalRotation math.Quat
	Body          Body

	parent   *Node
	children []*Node
}

// NewNode creates a detached node with an identity rotation.
func NewNode(name string, localPos math.Vec3) *Node {
	return &Node{
		Name:          name,
		LocalPosition: localPos,
		LocalRotation: math.QuatIdentity(),
	}
}

// AddChild attaches child under n, detaching it from any previous parent.
// It returns child for chained construction.
func (n *Node) AddChild(child *Node) *Node {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Position returns the world-space position.
func (n *Node) Position() math.Vec3 {
	if n.parent == nil {
		return n.LocalPosition
	}
	return n.parent.Position().Add(n.parent.Rotation().Rotate(n.LocalPosition))
}

// Rotation returns the world-space rotation.
func (n *Node) Rotation() math.Quat {
	if n.parent == nil {
		return n.LocalRotation
	}
	return n.parent.Rotation().Mul(n.LocalRotation)
}

// SetPosition moves the node to a world-space position. Children follow.
func (n *Node) SetPosition(p math.Vec3) {
	if n.parent == nil {
		n.LocalPosition = p
		return
	}
	inv := n.parent.Rotation().Conjugate()
	n.LocalPosition = inv.Rotate(p.Sub(n.parent.Position()))
}

// SetRotation sets the world-space rotation. Children follow.
func (n *Node) SetRotation(q math.Quat) {
	if n.parent == nil {
		n.LocalRotation = q.Normalize()
		return
	}
	n.LocalRotation = n.parent.Rotation().Conjugate().Mul(q).Normalize()
}

// IsChildOf reports whether n is ancestor or a descendant of ancestor.
func (n *Node) IsChildOf(ancestor *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}
