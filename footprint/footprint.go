// Package footprint describes a robot outline and rasterizes it onto a grid at a given heading.
package footprint

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Footprint is the robot outline as polygon vertices in the robot's local frame, in meters.
type Footprint []r2.Point

// FromPairs builds a Footprint from [x, y] pairs, the form it takes in configuration files.
func FromPairs(pairs [][2]float64) Footprint {
	fp := make(Footprint, 0, len(pairs))
	for _, pair := range pairs {
		fp = append(fp, r2.Point{X: pair[0], Y: pair[1]})
	}
	return fp
}

// Pairs is the inverse of FromPairs.
func (fp Footprint) Pairs() [][2]float64 {
	pairs := make([][2]float64, 0, len(fp))
	for _, p := range fp {
		pairs = append(pairs, [2]float64{p.X, p.Y})
	}
	return pairs
}

// Validate checks that the footprint is a polygon with finite vertices and a non-zero area.
func (fp Footprint) Validate() error {
	if len(fp) < 3 {
		return errors.Errorf("footprint needs at least 3 vertices, got %d", len(fp))
	}
	for i, p := range fp {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return errors.Errorf("footprint vertex %d is not finite: %v", i, p)
		}
	}
	if fp.Area() == 0 {
		return errors.New("footprint has zero area")
	}
	return nil
}

// Area returns the unsigned area enclosed by the footprint.
func (fp Footprint) Area() float64 {
	var twiceArea float64
	for i := range fp {
		j := (i + 1) % len(fp)
		twiceArea += fp[i].Cross(fp[j])
	}
	return math.Abs(twiceArea) / 2
}

// Rotate returns the footprint rotated counter-clockwise by heading radians about its origin.
func (fp Footprint) Rotate(heading float64) Footprint {
	sin, cos := math.Sincos(heading)
	rotated := make(Footprint, 0, len(fp))
	for _, p := range fp {
		rotated = append(rotated, r2.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos})
	}
	return rotated
}
