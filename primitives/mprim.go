package primitives

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Write serializes set in the lattice environment's .mprim text format.
func Write(w io.Writer, set *MotionPrimitiveSet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "resolution_m: %.6f\n", set.Resolution)
	fmt.Fprintf(bw, "numberofangles: %d\n", set.NumAngles)
	fmt.Fprintf(bw, "totalnumberofprimitives: %d\n", len(set.Primitives))
	for _, p := range set.Primitives {
		fmt.Fprintf(bw, "primID: %d\n", p.ID)
		fmt.Fprintf(bw, "startangle_c: %d\n", p.StartHeading)
		fmt.Fprintf(bw, "endpose_c: %d %d %d\n", p.EndPose[0], p.EndPose[1], p.EndPose[2])
		fmt.Fprintf(bw, "additionalactioncostmult: %d\n", p.CostMultiplier)
		fmt.Fprintf(bw, "intermediateposes: %d\n", len(p.Poses))
		for _, pose := range p.Poses {
			fmt.Fprintf(bw, "%.4f %.4f %.4f\n", pose.X, pose.Y, pose.Theta)
		}
	}
	return errors.Wrap(bw.Flush(), "writing motion primitives")
}

// WriteFile writes set to path, creating or truncating it.
func WriteFile(path string, set *MotionPrimitiveSet) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return Write(f, set)
}

// ReadFile reads a .mprim file.
func ReadFile(path string) (*MotionPrimitiveSet, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//nolint:errcheck
	defer f.Close()
	set, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	return set, nil
}

// Read parses the .mprim text format written by Write.
func Read(r io.Reader) (*MotionPrimitiveSet, error) {
	pr := &mprimReader{scanner: bufio.NewScanner(r)}

	set := &MotionPrimitiveSet{}
	var err error
	if set.Resolution, err = pr.readFloat("resolution_m"); err != nil {
		return nil, err
	}
	if set.NumAngles, err = pr.readInt("numberofangles"); err != nil {
		return nil, err
	}
	total, err := pr.readInt("totalnumberofprimitives")
	if err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, pr.errorf("negative primitive count %d", total)
	}

	set.Primitives = make([]MotionPrimitive, 0, min(total, maxPrealloc))
	for i := 0; i < total; i++ {
		p, err := pr.primitive()
		if err != nil {
			return nil, err
		}
		set.Primitives = append(set.Primitives, p)
	}
	return set, nil
}

// maxPrealloc bounds slice capacities taken from counts in the file.
const maxPrealloc = 1024

type mprimReader struct {
	scanner *bufio.Scanner
	line    int
}

func (pr *mprimReader) errorf(format string, args ...interface{}) error {
	return errors.Errorf("line %d: %s", pr.line, fmt.Sprintf(format, args...))
}

// next returns the fields of the next non-blank line.
func (pr *mprimReader) next() ([]string, error) {
	for pr.scanner.Scan() {
		pr.line++
		if fields := strings.Fields(pr.scanner.Text()); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := pr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.Errorf("line %d: unexpected end of file", pr.line)
}

// values reads a "key: v1 v2 ..." line and returns exactly n values.
func (pr *mprimReader) values(key string, n int) ([]string, error) {
	fields, err := pr.next()
	if err != nil {
		return nil, err
	}
	if fields[0] != key+":" {
		return nil, pr.errorf("expected %q, got %q", key, fields[0])
	}
	if len(fields)-1 != n {
		return nil, pr.errorf("%s: expected %d values, got %d", key, n, len(fields)-1)
	}
	return fields[1:], nil
}

func (pr *mprimReader) readInts(key string, n int) ([]int, error) {
	raw, err := pr.values(key, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, n)
	for _, v := range raw {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, pr.errorf("%s: %v", key, err)
		}
		out = append(out, parsed)
	}
	return out, nil
}

func (pr *mprimReader) readInt(key string) (int, error) {
	vals, err := pr.readInts(key, 1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (pr *mprimReader) readFloat(key string) (float64, error) {
	raw, err := pr.values(key, 1)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw[0], 64)
	if err != nil {
		return 0, pr.errorf("%s: %v", key, err)
	}
	return v, nil
}

func (pr *mprimReader) primitive() (MotionPrimitive, error) {
	var p MotionPrimitive
	var err error
	if p.ID, err = pr.readInt("primID"); err != nil {
		return p, err
	}
	if p.StartHeading, err = pr.readInt("startangle_c"); err != nil {
		return p, err
	}
	end, err := pr.readInts("endpose_c", 3)
	if err != nil {
		return p, err
	}
	copy(p.EndPose[:], end)
	if p.CostMultiplier, err = pr.readInt("additionalactioncostmult"); err != nil {
		return p, err
	}
	count, err := pr.readInt("intermediateposes")
	if err != nil {
		return p, err
	}
	if count < 0 {
		return p, pr.errorf("negative pose count %d", count)
	}

	p.Poses = make([]Pose, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		fields, err := pr.next()
		if err != nil {
			return p, err
		}
		if len(fields) != 3 {
			return p, pr.errorf("expected 3 pose values, got %d", len(fields))
		}
		var xyt [3]float64
		for j, field := range fields {
			if xyt[j], err = strconv.ParseFloat(field, 64); err != nil {
				return p, pr.errorf("pose: %v", err)
			}
		}
		p.Poses = append(p.Poses, Pose{X: xyt[0], Y: xyt[1], Theta: xyt[2]})
	}
	return p, nil
}
