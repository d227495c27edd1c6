// Package lattice provides the (x, y, theta) lattice environment that owns motion primitives,
// their collision kernels and the costmap they are checked against, plus the helpers that set one
// up from a footprint and a primitive set.
package lattice

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/lattice/footprint"
	"go.viam.com/lattice/kernel"
	"go.viam.com/lattice/primitives"
)

// resolutionTolerance absorbs the six decimals the primitive file keeps.
const resolutionTolerance = 1e-6

// Environment is an (x, y, theta) lattice. It is not safe for concurrent use; in particular
// kernel registration must be serialized by the caller.
type Environment struct {
	params     EnvParams
	footprint  footprint.Footprint
	primitives *primitives.MotionPrimitiveSet
	costmap    *image.Gray
	kernels    map[primitives.Key][]image.Point
}

// NewUnknownPrimitiveError is returned for a (start heading, id) pair the environment does not know.
func NewUnknownPrimitiveError(key primitives.Key) error {
	return errors.Errorf("no primitive %d at start heading %d", key.ID, key.StartHeading)
}

// NewEnvironment reads the primitives at primitivesPath and builds an environment over costmap.
// When computeKernels is set every primitive gets its full swept-cell kernel right away; otherwise
// kernels must be registered with SetPrimitiveCollisionPixels before the environment is queried.
func NewEnvironment(
	fp footprint.Footprint,
	primitivesPath string,
	costmap *image.Gray,
	params EnvParams,
	computeKernels bool,
) (*Environment, error) {
	if err := params.Validate("params"); err != nil {
		return nil, err
	}
	if costmap == nil {
		costmap = NewFreeCostmap(params)
	}
	if bounds := costmap.Bounds(); bounds != image.Rect(0, 0, params.SizeX, params.SizeY) {
		return nil, errors.Errorf("costmap covers %v, expected %dx%d cells from the origin", bounds, params.SizeX, params.SizeY)
	}

	set, err := primitives.ReadFile(primitivesPath)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid motion primitives")
	}
	if math.Abs(set.Resolution-params.CellSizeM) > resolutionTolerance {
		return nil, errors.Errorf("primitive resolution %v does not match cell size %v", set.Resolution, params.CellSizeM)
	}
	if set.NumAngles != params.NumThetas {
		return nil, errors.Errorf("primitives use %d angles, environment uses %d", set.NumAngles, params.NumThetas)
	}

	env := &Environment{
		params:     params,
		footprint:  append(footprint.Footprint(nil), fp...),
		primitives: set,
		costmap:    costmap,
		kernels:    make(map[primitives.Key][]image.Point, len(set.Primitives)),
	}
	if computeKernels {
		kernels, err := kernel.BuildAll(context.Background(), fp, set, kernel.Options{Full: true})
		if err != nil {
			return nil, err
		}
		for _, k := range kernels {
			env.kernels[k.Key] = k.Cells
		}
	}
	return env, nil
}

// Params returns the environment's init parameters.
func (env *Environment) Params() EnvParams {
	return env.params
}

// Footprint returns a copy of the robot footprint.
func (env *Environment) Footprint() footprint.Footprint {
	return append(footprint.Footprint(nil), env.footprint...)
}

// MotionPrimitives returns a copy of the primitives, with the environment's cell size and heading
// count.
func (env *Environment) MotionPrimitives() *primitives.MotionPrimitiveSet {
	return &primitives.MotionPrimitiveSet{
		Resolution: env.params.CellSizeM,
		NumAngles:  env.params.NumThetas,
		Primitives: append([]primitives.MotionPrimitive(nil), env.primitives.Primitives...),
	}
}

// SetPrimitiveCollisionPixels replaces the kernel of primitive (startHeading, id). cells are
// (column, row) offsets from the primitive's start cell.
func (env *Environment) SetPrimitiveCollisionPixels(startHeading, id int, cells []image.Point) error {
	key := primitives.Key{StartHeading: startHeading, ID: id}
	if _, ok := env.primitives.Find(key); !ok {
		return NewUnknownPrimitiveError(key)
	}
	if len(cells) == 0 {
		return errors.Errorf("empty kernel for primitive %d at start heading %d", id, startHeading)
	}
	env.kernels[key] = append([]image.Point(nil), cells...)
	return nil
}

// PrimitiveCollisionPixels returns a copy of the kernel registered for (startHeading, id).
func (env *Environment) PrimitiveCollisionPixels(startHeading, id int) ([]image.Point, error) {
	key := primitives.Key{StartHeading: startHeading, ID: id}
	cells, ok := env.kernels[key]
	if !ok {
		if _, known := env.primitives.Find(key); known {
			return nil, errors.Errorf("no kernel registered for primitive %d at start heading %d", id, startHeading)
		}
		return nil, NewUnknownPrimitiveError(key)
	}
	return append([]image.Point(nil), cells...), nil
}

// UpdateCost sets the cost of cell (x, y).
func (env *Environment) UpdateCost(x, y int, cost uint8) error {
	if !image.Pt(x, y).In(env.costmap.Bounds()) {
		return errors.Errorf("cell (%d, %d) is outside the %dx%d map", x, y, env.params.SizeX, env.params.SizeY)
	}
	env.costmap.SetGray(x, y, color.Gray{Y: cost})
	return nil
}

// Cost returns the cost of cell (x, y). Cells outside the map report ok false.
func (env *Environment) Cost(x, y int) (cost uint8, ok bool) {
	if !image.Pt(x, y).In(env.costmap.Bounds()) {
		return 0, false
	}
	return env.costmap.GrayAt(x, y).Y, true
}

// IsValidPrimitive reports whether primitive (startHeading, id) executed from cell (x, y) keeps
// every kernel cell inside the map and below the obstacle threshold.
func (env *Environment) IsValidPrimitive(x, y, startHeading, id int) (bool, error) {
	cells, ok := env.kernels[primitives.Key{StartHeading: startHeading, ID: id}]
	if !ok {
		// Reuse the error reporting of the lookup.
		_, err := env.PrimitiveCollisionPixels(startHeading, id)
		return false, err
	}
	origin := image.Pt(x, y)
	for _, c := range cells {
		p := c.Add(origin)
		cost, inside := env.Cost(p.X, p.Y)
		if !inside || cost >= env.params.ObsThresh {
			return false, nil
		}
	}
	return true, nil
}
