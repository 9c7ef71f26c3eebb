package valueobjects

import (
	"math"

	pkgerrors "relgraph/pkg/errors"
)

// Position is a value object representing a point in the 3D scene
type Position struct {
	x float64
	y float64
	z float64
}

// NewPosition creates a position with validation
func NewPosition(x, y, z float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) || !isValidCoordinate(z) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y, z: z}, nil
}

// Origin returns the position at the coordinate origin
func Origin() Position {
	return Position{}
}

// X returns the X coordinate
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate
func (p Position) Y() float64 {
	return p.y
}

// Z returns the Z coordinate
func (p Position) Z() float64 {
	return p.z
}

// Radius returns the distance from the coordinate origin
func (p Position) Radius() float64 {
	return math.Sqrt(p.x*p.x + p.y*p.y + p.z*p.z)
}

// DistanceTo calculates the Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := p.x - other.x
	dy := p.y - other.y
	dz := p.z - other.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon &&
		math.Abs(p.y-other.y) < epsilon &&
		math.Abs(p.z-other.z) < epsilon
}

// isValidCoordinate rejects NaN and infinite values
func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
