// Package core provides the value types shared by the level, ruleset and
// solver packages. It has no dependencies outside the standard library so
// that every other package can import it.
package core

import "fmt"

// Coord represents a 2D coordinate on the grid.
// X increases to the right, Y increases downward (screen coordinates).
type Coord struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the sum of two coordinates.
func (c Coord) Add(offset Coord) Coord {
	return Coord{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// IsZero reports whether the coordinate is (0,0).
func (c Coord) IsZero() bool {
	return c.X == 0 && c.Y == 0
}

// Less orders coordinates row-major: by row first, then by column.
// This is the canonical order used wherever a set of coordinates has to be
// serialized deterministically.
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
