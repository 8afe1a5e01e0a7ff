package raycast

import "github.com/jakecoffman/cp"

// Contacts records which sides of a volume were blocked during the last
// resolution pass. Facing survives Reset so a stationary body keeps probing
// the side it last moved toward.
type Contacts struct {
	Above, Below bool
	Left, Right  bool

	// Facing is -1 or 1.
	Facing int
}

func (c *Contacts) Reset() {
	c.Above, c.Below = false, false
	c.Left, c.Right = false, false
}

// Any reports whether any side is blocked.
func (c Contacts) Any() bool {
	return c.Above || c.Below || c.Left || c.Right
}

// Origins are the corners of the skin-shrunk volume rays are cast from.
type Origins struct {
	BottomLeft, BottomRight cp.Vector
	TopLeft, TopRight       cp.Vector
}
