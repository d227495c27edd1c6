package lattice

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/lattice/footprint"
	"go.viam.com/lattice/kernel"
	"go.viam.com/lattice/logging"
	"go.viam.com/lattice/primitives"
)

const primitivesFileName = "primitives.mprim"

// KernelOptions selects which collision kernels an environment ends up with.
type KernelOptions struct {
	// KeepLibraryKernels skips the override, leaving the kernels the environment computes itself.
	KeepLibraryKernels bool
	// UseFullKernels registers every swept cell instead of the swept region's external contour.
	// See kernel.Options.Full for the trade-off.
	UseFullKernels bool
	// Parallelism is passed to kernel.Options.
	Parallelism int
}

// NewEnvironmentNAVXYTHETALAT builds an environment from an in-memory primitive set. The set is
// written to a temporary primitive file for the constructor, and the temporary directory is
// removed on every path out of this function. Unless opts.KeepLibraryKernels is set, the kernel of
// every primitive is then replaced by one built from fp.
func NewEnvironmentNAVXYTHETALAT(
	ctx context.Context,
	logger logging.Logger,
	fp footprint.Footprint,
	set *primitives.MotionPrimitiveSet,
	costmap *image.Gray,
	params EnvParams,
	opts KernelOptions,
) (env *Environment, err error) {
	if err := kernel.Validate(fp, set); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "lattice-primitives")
	if err != nil {
		return nil, errors.Wrap(err, "creating primitive directory")
	}
	defer func() {
		err = multierr.Combine(err, os.RemoveAll(dir))
		if err != nil {
			env = nil
		}
	}()

	path := filepath.Join(dir, primitivesFileName)
	if err := primitives.WriteFile(path, set); err != nil {
		return nil, err
	}
	env, err = NewEnvironment(fp, path, costmap, params, opts.KeepLibraryKernels)
	if err != nil {
		return nil, err
	}
	if opts.KeepLibraryKernels {
		return env, nil
	}
	if err := env.OverridePrimitiveKernels(ctx, logger, set, opts); err != nil {
		return nil, err
	}
	return env, nil
}

// OverridePrimitiveKernels registers a kernel built from the environment's footprint for every
// primitive of set.
func (env *Environment) OverridePrimitiveKernels(
	ctx context.Context,
	logger logging.Logger,
	set *primitives.MotionPrimitiveSet,
	opts KernelOptions,
) error {
	return kernel.BuildAndRegister(ctx, logger, env, env.footprint, set, kernel.Options{
		Full:        opts.UseFullKernels,
		Parallelism: opts.Parallelism,
	})
}
