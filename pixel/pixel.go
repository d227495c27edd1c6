// Package pixel converts between continuous world coordinates and discrete grid cells.
//
// Cells are addressed as image.Point{X: column, Y: row}. Column grows with world x and row grows
// with world y, so row 0 is the edge of the grid with the smallest y.
package pixel

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// WorldToPixel returns the cell nearest to p, rounding half away from zero.
func WorldToPixel(p, origin r2.Point, resolution float64) image.Point {
	q := p.Sub(origin).Mul(1 / resolution)
	return image.Pt(int(math.Round(q.X)), int(math.Round(q.Y)))
}

// WorldToPixelSBPL returns the cell containing p, i.e. the floor of its scaled coordinates. This is
// the discretization the lattice environment applies to continuous poses.
func WorldToPixelSBPL(p, origin r2.Point, resolution float64) image.Point {
	q := p.Sub(origin).Mul(1 / resolution)
	return image.Pt(int(math.Floor(q.X)), int(math.Floor(q.Y)))
}

// PixelToWorld returns the world position of the lower corner of cell c.
func PixelToWorld(c image.Point, origin r2.Point, resolution float64) r2.Point {
	return r2.Point{X: float64(c.X), Y: float64(c.Y)}.Mul(resolution).Add(origin)
}

// PixelToWorldCentered returns the world position of the center of cell c.
func PixelToWorldCentered(c image.Point, origin r2.Point, resolution float64) r2.Point {
	half := resolution / 2
	return PixelToWorld(c, origin, resolution).Add(r2.Point{X: half, Y: half})
}
