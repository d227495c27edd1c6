package lattice

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.viam.com/lattice/footprint"
	"go.viam.com/lattice/logging"
)

// Config describes an environment in a YAML file.
type Config struct {
	EnvParams `yaml:",inline"`

	Footprint [][2]float64 `yaml:"footprint"`
	// PrimitivesFile is a .mprim file. Relative paths are resolved against the config file's
	// directory.
	PrimitivesFile string `yaml:"primitives_file"`
	// Costmap rows, indexed by y. When absent every cell is free.
	Costmap [][]uint8 `yaml:"costmap,omitempty"`

	// OverridePrimitiveKernels defaults to true.
	OverridePrimitiveKernels *bool `yaml:"override_primitive_kernels,omitempty"`
	UseFullKernels           bool  `yaml:"use_full_kernels"`
}

// Validate returns the first problem with the config. path prefixes error messages.
func (cfg *Config) Validate(path string) error {
	if err := cfg.EnvParams.Validate(path); err != nil {
		return err
	}
	if len(cfg.Footprint) == 0 {
		return errors.Errorf("%s: %q is required", path, "footprint")
	}
	if err := footprint.FromPairs(cfg.Footprint).Validate(); err != nil {
		return errors.Wrapf(err, "%s.footprint", path)
	}
	if cfg.PrimitivesFile == "" {
		return errors.Errorf("%s: %q is required", path, "primitives_file")
	}
	if len(cfg.Costmap) > 0 && (len(cfg.Costmap) != cfg.SizeY || len(cfg.Costmap[0]) != cfg.SizeX) {
		return errors.Errorf("%s.costmap: expected %d rows of %d cells", path, cfg.SizeY, cfg.SizeX)
	}
	return nil
}

// ReadConfig reads and validates a YAML environment config.
func ReadConfig(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %q", path)
	}
	if err := cfg.Validate(filepath.Base(path)); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.PrimitivesFile) {
		cfg.PrimitivesFile = filepath.Join(filepath.Dir(path), cfg.PrimitivesFile)
	}
	return &cfg, nil
}

// NewEnvironmentFromConfig builds an environment from the YAML config at path.
func NewEnvironmentFromConfig(ctx context.Context, logger logging.Logger, path string) (*Environment, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.NewEnvironment(ctx, logger)
}

// NewEnvironment builds the environment cfg describes.
func (cfg *Config) NewEnvironment(ctx context.Context, logger logging.Logger) (*Environment, error) {
	var costmap *image.Gray
	if len(cfg.Costmap) > 0 {
		var err error
		if costmap, err = CostmapFromRows(cfg.Costmap); err != nil {
			return nil, err
		}
	}

	override := cfg.OverridePrimitiveKernels == nil || *cfg.OverridePrimitiveKernels
	fp := footprint.FromPairs(cfg.Footprint)
	env, err := NewEnvironment(fp, cfg.PrimitivesFile, costmap, cfg.EnvParams, !override)
	if err != nil {
		return nil, err
	}
	if !override {
		return env, nil
	}
	if err := env.OverridePrimitiveKernels(ctx, logger, env.MotionPrimitives(), KernelOptions{UseFullKernels: cfg.UseFullKernels}); err != nil {
		return nil, err
	}
	return env, nil
}
