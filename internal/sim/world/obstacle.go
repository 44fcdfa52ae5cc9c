// Package world implements the scrolling procedural obstacle field and its
// collision query.
package world

import "github.com/velocitylab/gravity-runner/internal/core"

// Kind classifies an obstacle by where it attaches.
type Kind int

// Obstacle kinds.
const (
	KindGround Kind = iota
	KindCeiling
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindCeiling:
		return "ceiling"
	default:
		return "unknown"
	}
}

// Obstacle is a single world-space hazard. Position is world-space, not
// viewport-space: X keeps growing as the world scrolls.
type Obstacle struct {
	Box  core.Box
	Kind Kind
}
