package game

// Cell is a grid coordinate
type Cell struct {
	X int
	Y int
}

// NoFood marks a board that had no free cell left for food. Wrapped heads
// never reach negative coordinates, so it never classifies as food.
var NoFood = Cell{X: -1, Y: -1}

// Add returns the cell one step along v
func (c Cell) Add(v Velocity) Cell {
	return Cell{X: c.X + v.X, Y: c.Y + v.Y}
}

// Velocity is a one-cell-per-tick direction along a single axis
type Velocity struct {
	X int
	Y int
}

var (
	Up    = Velocity{X: 0, Y: -1}
	Down  = Velocity{X: 0, Y: 1}
	Left  = Velocity{X: -1, Y: 0}
	Right = Velocity{X: 1, Y: 0}
)

// Valid reports whether exactly one component is non-zero and both lie in {-1, 0, 1}
func (v Velocity) Valid() bool {
	ax, ay := abs(v.X), abs(v.Y)
	return ax <= 1 && ay <= 1 && ax+ay == 1
}

// Reverse returns the opposite direction
func (v Velocity) Reverse() Velocity {
	return Velocity{X: -v.X, Y: -v.Y}
}

// Grid holds the board dimensions.
//
// Horizontal positions wrap into [0, SizeX). Vertical positions wrap into
// [1, SizeY): row 0 is never entered by a moving head, although food and
// spawns may use it.
type Grid struct {
	SizeX int
	SizeY int
}

// Wrap maps a cell that stepped off an edge back onto the board
func (g Grid) Wrap(c Cell) Cell {
	switch {
	case c.X >= g.SizeX:
		c.X = 0
	case c.X < 0:
		c.X = g.SizeX - 1
	}

	switch {
	case c.Y >= g.SizeY:
		c.Y = 1
	case c.Y < 1:
		c.Y = g.SizeY - 1
	}

	return c
}

// Cells is the number of cells in the food domain
func (g Grid) Cells() int {
	return g.SizeX * g.SizeY
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
