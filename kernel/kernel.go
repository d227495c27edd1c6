// Package kernel computes collision kernels: the grid cells a robot footprint sweeps while
// executing a motion primitive, relative to the primitive's start cell.
package kernel

import (
	"image"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/lattice/footprint"
	"go.viam.com/lattice/pixel"
	"go.viam.com/lattice/primitives"
)

// Kernel is the set of (column, row) cell offsets registered for one primitive.
type Kernel struct {
	Key   primitives.Key
	Cells []image.Point
	// Full is false when Cells only holds the outer boundary of the swept region.
	Full bool
}

// Build computes the kernel of p. The rasterizer's resolution must be resolution.
//
// Every pose is shifted by the center of the start cell, rasterized at its heading, and the
// footprint cells are placed around the pose's cell so that the kernel center lands on it. The
// union is de-duplicated keeping first occurrences. Unless full is set the result is reduced to the
// external contour of the swept region.
func Build(rasterizer *footprint.Rasterizer, p primitives.MotionPrimitive, resolution float64, full bool) (Kernel, error) {
	if len(p.Poses) == 0 {
		return Kernel{}, NewEmptyTrajectoryError(p.Key())
	}
	if !(resolution > 0) {
		return Kernel{}, NewBadResolutionError(resolution)
	}

	anchor := pixel.PixelToWorldCentered(image.Point{}, r2.Point{}, resolution)
	var swept []image.Point
	for _, pose := range p.Poses {
		pf, err := rasterizer.PixelFootprint(pose.Theta)
		if err != nil {
			return Kernel{}, NewConfigurationError(err)
		}
		cell := pixel.WorldToPixelSBPL(r2.Point{X: pose.X, Y: pose.Y}.Add(anchor), r2.Point{}, resolution)
		shift := cell.Sub(pf.Center)
		for _, c := range pf.Cells {
			swept = append(swept, c.Add(shift))
		}
	}

	k := Kernel{Key: p.Key(), Cells: Dedup(swept), Full: full}
	if full {
		return k, nil
	}

	perimeter, err := Perimeter(k.Cells)
	if err != nil {
		return Kernel{}, err
	}
	k.Cells = perimeter
	return k, nil
}

// Dedup removes repeated cells, keeping the first occurrence of each.
func Dedup(cells []image.Point) []image.Point {
	return lo.Uniq(cells)
}

// Bounds returns the smallest rectangle containing every cell. Max is exclusive.
func Bounds(cells []image.Point) image.Rectangle {
	if len(cells) == 0 {
		return image.Rectangle{}
	}
	bounds := image.Rectangle{Min: cells[0], Max: cells[0].Add(image.Pt(1, 1))}
	for _, c := range cells[1:] {
		bounds = bounds.Union(image.Rectangle{Min: c, Max: c.Add(image.Pt(1, 1))})
	}
	return bounds
}

// Perimeter returns the cells on the external contour of the region covered by cells.
func Perimeter(cells []image.Point) ([]image.Point, error) {
	if len(cells) == 0 {
		return nil, NewDegenerateRegionError()
	}
	bounds := Bounds(cells)
	contour, err := ExternalContour(Occupancy(cells, bounds))
	if err != nil {
		return nil, err
	}
	for i := range contour {
		contour[i] = contour[i].Add(bounds.Min)
	}
	return contour, nil
}
