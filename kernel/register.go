package kernel

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go.viam.com/lattice/footprint"
	"go.viam.com/lattice/logging"
	"go.viam.com/lattice/primitives"
)

// Registrar receives one kernel per primitive. Implementations need not be safe for concurrent use;
// BuildAndRegister calls it from a single goroutine.
type Registrar interface {
	SetPrimitiveCollisionPixels(startHeading, id int, cells []image.Point) error
}

// Options controls how kernels are built.
type Options struct {
	// Full registers every swept cell. When false only the external contour of the swept region is
	// registered. That is cheaper to check, but a contour only stands in for the full kernel if
	// the environment's collision check cannot miss an obstacle lying strictly inside the swept
	// region, e.g. obstacles that are always larger than the interior. Callers pick the trade-off.
	Full bool
	// Parallelism is the number of goroutines computing kernels. Values below 2 compute on the
	// calling goroutine. Registration order does not depend on it.
	Parallelism int
}

// Validate reports the first configuration error in fp or set.
func Validate(fp footprint.Footprint, set *primitives.MotionPrimitiveSet) error {
	if len(fp) == 0 {
		return NewEmptyFootprintError()
	}
	if err := fp.Validate(); err != nil {
		return NewConfigurationError(err)
	}
	if set == nil {
		return NewConfigurationError(errors.New("no motion primitives"))
	}
	if !(set.Resolution > 0) {
		return NewBadResolutionError(set.Resolution)
	}
	for _, p := range set.Primitives {
		if len(p.Poses) == 0 {
			return NewEmptyTrajectoryError(p.Key())
		}
	}
	if err := set.Validate(); err != nil {
		return NewConfigurationError(err)
	}
	return nil
}

// BuildAll validates the inputs and returns the kernels of every primitive in set, in set order.
func BuildAll(ctx context.Context, fp footprint.Footprint, set *primitives.MotionPrimitiveSet, opts Options) ([]Kernel, error) {
	if err := Validate(fp, set); err != nil {
		return nil, err
	}

	kernels := make([]Kernel, len(set.Primitives))
	buildRange := func(ctx context.Context, from, to int) error {
		rasterizer := footprint.NewRasterizer(fp, set.Resolution)
		for i := from; i < to; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			k, err := Build(rasterizer, set.Primitives[i], set.Resolution, opts.Full)
			if err != nil {
				return err
			}
			kernels[i] = k
		}
		return nil
	}

	workers := min(opts.Parallelism, len(set.Primitives))
	if workers < 2 {
		if err := buildRange(ctx, 0, len(set.Primitives)); err != nil {
			return nil, err
		}
		return kernels, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	chunk := (len(set.Primitives) + workers - 1) / workers
	for from := 0; from < len(set.Primitives); from += chunk {
		from := from
		to := min(from+chunk, len(set.Primitives))
		group.Go(func() error {
			return buildRange(groupCtx, from, to)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return kernels, nil
}

// BuildAndRegister builds the kernel of every primitive in set and registers each with reg under
// (start heading, id). Every kernel is computed before the first registration, so a configuration
// or geometry error leaves reg untouched. A rejected registration stops the loop. The registrar's
// error is returned wrapped with the primitive key and marked ErrExternalLibrary; errors.Is and
// errors.As still reach the original error.
func BuildAndRegister(
	ctx context.Context,
	logger logging.Logger,
	reg Registrar,
	fp footprint.Footprint,
	set *primitives.MotionPrimitiveSet,
	opts Options,
) error {
	mode := "perimeter"
	if opts.Full {
		mode = "full"
	}
	if set != nil {
		logger.Infow("setting up motion primitive kernels", "primitives", len(set.Primitives), "mode", mode)
	}

	kernels, err := BuildAll(ctx, fp, set, opts)
	if err != nil {
		return err
	}

	for _, k := range kernels {
		logger.Debugw("registering kernel", "start_heading", k.Key.StartHeading, "id", k.Key.ID, "cells", len(k.Cells))
		if err := reg.SetPrimitiveCollisionPixels(k.Key.StartHeading, k.Key.ID, k.Cells); err != nil {
			return NewRegistrationError(k.Key, err)
		}
	}
	logger.Info("done setting up motion primitive kernels")
	return nil
}
