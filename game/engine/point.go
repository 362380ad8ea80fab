package engine

import "fmt"

// MoveSource is where a moved piece comes from: a Point on the grid or a
// ReserveRef naming one of the board's six reserve stacks.
type MoveSource interface {
	fmt.Stringer
	moveSource()
}

// Point is a 1-based grid coordinate, (1,1) through (4,4)
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (Point) moveSource() {}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// InRange reports whether the point lies on the 4x4 grid
func (p Point) InRange() bool {
	return p.X >= 1 && p.X <= GridSide && p.Y >= 1 && p.Y <= GridSide
}

// Index returns the row-major grid index of the point
func (p Point) Index() (int, error) {
	if !p.InRange() {
		return 0, fmt.Errorf("%w: %s is out of range of board", ErrPointOutOfRange, p)
	}
	return (p.Y-1)*GridSide + (p.X - 1), nil
}

// PointAt returns the point for a row-major grid index
func PointAt(index int) Point {
	return Point{X: index%GridSide + 1, Y: index/GridSide + 1}
}

// ReserveRef indexes the board reserves: 0-2 belong to Black, 3-5 to White.
type ReserveRef int

func (ReserveRef) moveSource() {}

func (r ReserveRef) String() string {
	return fmt.Sprintf("reserve[%d]", int(r))
}

// Owner returns the color whose reserve group contains r
func (r ReserveRef) Owner() Color {
	if int(r) >= ReserveStacksPerColor {
		return White
	}
	return Black
}

// Valid reports whether r names one of the six reserve stacks
func (r ReserveRef) Valid() bool {
	return r >= 0 && int(r) < ReserveStackCount
}
