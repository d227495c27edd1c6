package footprint

import (
	"image"

	"gonum.org/v1/gonum/mat"
)

// PixelFootprint is the discrete coverage of a footprint at one heading.
type PixelFootprint struct {
	Grid   *mat.Dense
	Cells  []image.Point
	Center image.Point
}

// Rasterizer rasterizes one footprint at one resolution and remembers the result per heading.
// Primitives share a small set of discrete headings, so most lookups hit the cache.
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	footprint  Footprint
	resolution float64
	cache      map[float64]*PixelFootprint
}

// NewRasterizer returns a Rasterizer for fp at the given resolution.
func NewRasterizer(fp Footprint, resolution float64) *Rasterizer {
	return &Rasterizer{
		footprint:  fp,
		resolution: resolution,
		cache:      map[float64]*PixelFootprint{},
	}
}

// PixelFootprint returns the footprint's coverage at heading. Callers must not modify the result.
func (r *Rasterizer) PixelFootprint(heading float64) (*PixelFootprint, error) {
	if cached, ok := r.cache[heading]; ok {
		return cached, nil
	}
	grid, err := Rasterize(heading, r.footprint, r.resolution)
	if err != nil {
		return nil, err
	}
	pf := &PixelFootprint{Grid: grid, Cells: Cells(grid), Center: KernelCenter(grid)}
	r.cache[heading] = pf
	return pf, nil
}
