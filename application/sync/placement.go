package sync

import (
	"math"

	"relgraph/domain/core/valueobjects"
)

// shellPosition samples a point uniformly on a spherical shell between the
// configured radii. Azimuth is uniform in [0, 2π); the polar angle comes
// from arccos of a uniform variable in [-1, 1], which keeps the
// distribution uniform over the sphere surface instead of clustering at the
// poles.
func (c *Controller) shellPosition() valueobjects.Position {
	c.mu.Lock()
	min, max := c.cfg.PlacementRadiusMin, c.cfg.PlacementRadiusMax
	c.mu.Unlock()

	theta := 2 * math.Pi * c.randFloat()
	phi := math.Acos(2*c.randFloat() - 1)
	r := min + c.randFloat()*(max-min)

	pos, err := valueobjects.NewPosition(
		r*math.Sin(phi)*math.Cos(theta),
		r*math.Sin(phi)*math.Sin(theta),
		r*math.Cos(phi),
	)
	if err != nil {
		return valueobjects.Origin()
	}
	return pos
}
