package kernel

import (
	"image"

	"github.com/eapache/queue"
	"gonum.org/v1/gonum/mat"
)

var fourNeighbors = [4]image.Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Occupancy rasterizes cells into a binary grid covering exactly bounds, without margin. Cell c
// lands at row c.Y-bounds.Min.Y and column c.X-bounds.Min.X. Cells outside bounds are dropped.
// bounds must not be empty.
func Occupancy(cells []image.Point, bounds image.Rectangle) *mat.Dense {
	grid := mat.NewDense(bounds.Dy(), bounds.Dx(), nil)
	for _, c := range cells {
		if !c.In(bounds) {
			continue
		}
		local := c.Sub(bounds.Min)
		grid.Set(local.Y, local.X, 1)
	}
	return grid
}

// ExternalContour returns the (column, row) cells on the outer boundary of the occupied region of
// grid, in row-major order.
//
// Occupied cells are 8-connected and free cells 4-connected. A boundary cell is an occupied cell
// with a 4-neighbor that can be reached from outside the grid through free cells, so the border of
// a hole is never part of the contour. When the region has several components the boundary of each
// is included.
func ExternalContour(grid mat.Matrix) ([]image.Point, error) {
	rows, cols := grid.Dims()
	occupied := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < cols && p.Y < rows && grid.At(p.Y, p.X) != 0
	}

	// The exterior is flooded over the grid plus a one cell frame around it.
	frame := image.Rect(-1, -1, cols+1, rows+1)
	exterior := make(map[image.Point]bool)
	pending := queue.New()
	pending.Add(frame.Min)
	exterior[frame.Min] = true
	for pending.Length() > 0 {
		p := pending.Remove().(image.Point)
		for _, d := range fourNeighbors {
			n := p.Add(d)
			if !n.In(frame) || exterior[n] || occupied(n) {
				continue
			}
			exterior[n] = true
			pending.Add(n)
		}
	}

	var contour []image.Point
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := image.Pt(col, row)
			if !occupied(p) {
				continue
			}
			for _, d := range fourNeighbors {
				if exterior[p.Add(d)] {
					contour = append(contour, p)
					break
				}
			}
		}
	}
	if len(contour) == 0 {
		return nil, NewDegenerateRegionError()
	}
	return contour, nil
}
