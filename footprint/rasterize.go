package footprint

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/lattice/pixel"
)

// Rasterize returns a binary grid covering fp rotated by heading, with one grid cell per
// resolution x resolution square. The grid is square with an odd side length 2r+1, where r is the
// largest absolute cell coordinate of any rotated vertex, so the robot origin lands on the center
// cell KernelCenter(grid). Rows follow y and columns follow x. Occupied cells hold 1.
//
// Cells whose centers lie inside the polygon are filled, and so is every cell its outline passes
// through.
func Rasterize(heading float64, fp Footprint, resolution float64) (*mat.Dense, error) {
	if len(fp) == 0 {
		return nil, errors.New("cannot rasterize an empty footprint")
	}
	if !(resolution > 0) {
		return nil, errors.Errorf("resolution must be positive, got %v", resolution)
	}
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return nil, errors.Errorf("heading is not finite: %v", heading)
	}

	rotated := fp.Rotate(heading)
	vertices := make([]image.Point, 0, len(rotated))
	radius := 0
	for _, p := range rotated {
		c := pixel.WorldToPixel(p, r2.Point{}, resolution)
		vertices = append(vertices, c)
		radius = max(radius, abs(c.X), abs(c.Y))
	}

	side := 2*radius + 1
	grid := mat.NewDense(side, side, nil)
	offset := image.Pt(radius, radius)

	polygon := make([]r2.Point, 0, len(vertices))
	for _, v := range vertices {
		polygon = append(polygon, r2.Point{X: float64(v.X), Y: float64(v.Y)})
	}
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			center := r2.Point{X: float64(col - radius), Y: float64(row - radius)}
			if insidePolygon(polygon, center) {
				grid.Set(row, col, 1)
			}
		}
	}

	for i := range vertices {
		from := vertices[i].Add(offset)
		to := vertices[(i+1)%len(vertices)].Add(offset)
		drawLine(grid, from, to)
	}

	return grid, nil
}

// Cells returns the occupied (column, row) cells of grid in row-major order.
func Cells(grid mat.Matrix) []image.Point {
	rows, cols := grid.Dims()
	var cells []image.Point
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if grid.At(row, col) != 0 {
				cells = append(cells, image.Pt(col, row))
			}
		}
	}
	return cells
}

// KernelCenter returns the cell of grid that corresponds to the robot origin: (cols/2, rows/2),
// rounded down. For even sizes this picks the higher of the two middle indices.
func KernelCenter(grid mat.Matrix) image.Point {
	rows, cols := grid.Dims()
	return image.Pt(cols/2, rows/2)
}

// insidePolygon is the even-odd crossing test.
func insidePolygon(polygon []r2.Point, p r2.Point) bool {
	inside := false
	for i, j := 0, len(polygon)-1; i < len(polygon); j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// drawLine sets every cell on the Bresenham line between from and to, inclusive.
func drawLine(grid *mat.Dense, from, to image.Point) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		grid.Set(y, x, 1)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
