// Package primitives holds lattice motion primitives and their text file format.
package primitives

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Pose is a continuous (x, y, heading) state in a primitive's local frame. X and Y are in meters,
// Theta in radians.
type Pose struct {
	X, Y, Theta float64
}

func (p Pose) finite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Theta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Key identifies a primitive within a set.
type Key struct {
	StartHeading int
	ID           int
}

// MotionPrimitive is one precomputed trajectory segment starting at the origin with discretized
// heading StartHeading.
type MotionPrimitive struct {
	StartHeading int
	ID           int
	// EndPose is the end state in cells and heading buckets, relative to the start cell.
	EndPose        [3]int
	CostMultiplier int
	// Poses is the intermediate trajectory, starting with the start pose.
	Poses []Pose
}

// Key returns the (start heading, id) pair of p.
func (p MotionPrimitive) Key() Key {
	return Key{StartHeading: p.StartHeading, ID: p.ID}
}

// MotionPrimitiveSet is every primitive of a lattice sharing one resolution and heading count.
type MotionPrimitiveSet struct {
	Resolution float64
	NumAngles  int
	Primitives []MotionPrimitive
}

// NewEmptyTrajectoryError is returned for a primitive without intermediate poses.
func NewEmptyTrajectoryError(key Key) error {
	return errors.Errorf("primitive %d at start heading %d has no intermediate poses", key.ID, key.StartHeading)
}

// Validate checks the invariants every consumer of the set relies on.
func (s *MotionPrimitiveSet) Validate() error {
	if !(s.Resolution > 0) || math.IsInf(s.Resolution, 0) {
		return errors.Errorf("resolution must be positive, got %v", s.Resolution)
	}
	if s.NumAngles <= 0 {
		return errors.Errorf("number of angles must be positive, got %d", s.NumAngles)
	}
	seen := make(map[Key]struct{}, len(s.Primitives))
	for i, p := range s.Primitives {
		if p.StartHeading < 0 || p.StartHeading >= s.NumAngles {
			return errors.Errorf("primitive %d: start heading %d outside [0, %d)", i, p.StartHeading, s.NumAngles)
		}
		if len(p.Poses) == 0 {
			return NewEmptyTrajectoryError(p.Key())
		}
		for j, pose := range p.Poses {
			if !pose.finite() {
				return errors.Errorf("primitive %d at start heading %d: pose %d is not finite: %v", p.ID, p.StartHeading, j, pose)
			}
		}
		if _, ok := seen[p.Key()]; ok {
			return errors.Errorf("primitive %d: duplicate id %d at start heading %d", i, p.ID, p.StartHeading)
		}
		seen[p.Key()] = struct{}{}
	}
	return nil
}

// ByStartHeading groups the primitives by start heading, each group ordered by id.
func (s *MotionPrimitiveSet) ByStartHeading() map[int][]MotionPrimitive {
	groups := make(map[int][]MotionPrimitive)
	for _, p := range s.Primitives {
		groups[p.StartHeading] = append(groups[p.StartHeading], p)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	}
	return groups
}

// Find returns the primitive with the given key.
func (s *MotionPrimitiveSet) Find(key Key) (MotionPrimitive, bool) {
	for _, p := range s.Primitives {
		if p.Key() == key {
			return p, true
		}
	}
	return MotionPrimitive{}, false
}

// HeadingAngle returns the heading in radians of discretized heading bucket idx.
func (s *MotionPrimitiveSet) HeadingAngle(idx int) float64 {
	return 2 * math.Pi * float64(idx) / float64(s.NumAngles)
}
