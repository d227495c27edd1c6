// Package main is a command that builds a lattice environment from a YAML config and reports the
// collision kernel of every motion primitive.
package main

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/lattice/kernel"
	"go.viam.com/lattice/lattice"
	"go.viam.com/lattice/logging"
)

const (
	// Flags.
	flagConfig = "config"
	flagFull   = "full"
	flagOut    = "out"
	flagDebug  = "debug"
	flagLevel  = "log-level"
)

// kernelDump is the YAML form of one registered kernel.
type kernelDump struct {
	StartHeading int      `yaml:"start_heading"`
	ID           int      `yaml:"id"`
	Full         bool     `yaml:"full"`
	Cells        [][2]int `yaml:"cells,flow"`
}

func (d kernelDump) points() []image.Point {
	points := make([]image.Point, 0, len(d.Cells))
	for _, c := range d.Cells {
		points = append(points, image.Pt(c[0], c[1]))
	}
	return points
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	var logger logging.Logger

	configFlag := &cli.StringFlag{
		Name:     flagConfig,
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "environment config `FILE`",
	}
	fullFlag := &cli.BoolFlag{
		Name:  flagFull,
		Usage: "register every swept cell instead of the swept region's outline",
	}

	return &cli.App{
		Name:      "lattice-kernels",
		Usage:     "build motion primitive collision kernels",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLevel,
				Usage: "log `LEVEL` (debug, info, warn, error); overrides --debug",
			},
		},
		Before: func(c *cli.Context) error {
			level := logging.WARN
			if c.Bool(flagDebug) {
				level = logging.DEBUG
			}
			if c.IsSet(flagLevel) {
				var err error
				if level, err = logging.LevelFromString(c.String(flagLevel)); err != nil {
					return err
				}
			}
			logger = logging.NewBlankLogger("lattice-kernels")
			logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
			logger.SetLevel(level)
			return nil
		},
		After: func(c *cli.Context) error {
			if logger == nil {
				return nil
			}
			//nolint:errcheck
			logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "summary",
				Usage:     "print the size and bounds of every kernel",
				UsageText: "lattice-kernels summary --config env.yaml [--full]",
				Flags:     []cli.Flag{configFlag, fullFlag},
				Action: func(c *cli.Context) error {
					dumps, err := buildKernels(c, logger)
					if err != nil {
						return err
					}
					return printSummary(c.App.Writer, dumps)
				},
			},
			{
				Name:      "dump",
				Usage:     "write every kernel as YAML",
				UsageText: "lattice-kernels dump --config env.yaml --out kernels.yaml [--full]",
				Flags: []cli.Flag{
					configFlag,
					fullFlag,
					&cli.StringFlag{
						Name:     flagOut,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "output `FILE`, - for stdout",
					},
				},
				Action: func(c *cli.Context) error {
					dumps, err := buildKernels(c, logger)
					if err != nil {
						return err
					}
					return writeDump(c.App.Writer, c.String(flagOut), dumps)
				},
			},
		},
	}
}

func buildKernels(c *cli.Context, logger logging.Logger) ([]kernelDump, error) {
	cfg, err := lattice.ReadConfig(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if c.IsSet(flagFull) {
		cfg.UseFullKernels = c.Bool(flagFull)
	}
	full := cfg.UseFullKernels || (cfg.OverridePrimitiveKernels != nil && !*cfg.OverridePrimitiveKernels)

	env, err := cfg.NewEnvironment(c.Context, logger)
	if err != nil {
		return nil, err
	}

	var dumps []kernelDump
	for _, p := range env.MotionPrimitives().Primitives {
		cells, err := env.PrimitiveCollisionPixels(p.StartHeading, p.ID)
		if err != nil {
			return nil, err
		}
		dump := kernelDump{StartHeading: p.StartHeading, ID: p.ID, Full: full, Cells: make([][2]int, 0, len(cells))}
		for _, cell := range cells {
			dump.Cells = append(dump.Cells, [2]int{cell.X, cell.Y})
		}
		dumps = append(dumps, dump)
	}
	return dumps, nil
}

func printSummary(w io.Writer, dumps []kernelDump) error {
	if _, err := fmt.Fprintf(w, "%-13s %-4s %-6s %s\n", "start_heading", "id", "cells", "bounds"); err != nil {
		return err
	}
	for _, d := range dumps {
		if _, err := fmt.Fprintf(w, "%-13d %-4d %-6d %v\n", d.StartHeading, d.ID, len(d.Cells), kernel.Bounds(d.points())); err != nil {
			return err
		}
	}
	return nil
}

func writeDump(stdout io.Writer, path string, dumps []kernelDump) (err error) {
	if path == "-" {
		return encodeDump(stdout, dumps)
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating kernel dump")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return encodeDump(f, dumps)
}

func encodeDump(w io.Writer, dumps []kernelDump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dumps); err != nil {
		return errors.Wrap(err, "encoding kernels")
	}
	return enc.Close()
}
