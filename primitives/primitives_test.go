package primitives

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"
)

func testSet() *MotionPrimitiveSet {
	return &MotionPrimitiveSet{
		Resolution: 0.05,
		NumAngles:  4,
		Primitives: []MotionPrimitive{
			{
				StartHeading: 0, ID: 0, EndPose: [3]int{2, 0, 0}, CostMultiplier: 1,
				Poses: []Pose{{X: 0, Y: 0, Theta: 0}, {X: 0.05, Y: 0, Theta: 0}, {X: 0.1, Y: 0, Theta: 0}},
			},
			{
				StartHeading: 0, ID: 1, EndPose: [3]int{-1, 0, 0}, CostMultiplier: 5,
				Poses: []Pose{{X: 0, Y: 0, Theta: 0}, {X: -0.05, Y: 0, Theta: 0}},
			},
			{
				StartHeading: 1, ID: 0, EndPose: [3]int{0, 2, 1}, CostMultiplier: 1,
				Poses: []Pose{{X: 0, Y: 0, Theta: 1.5708}, {X: 0, Y: 0.1, Theta: 1.5708}},
			},
		},
	}
}

const testMprim = `resolution_m: 0.050000
numberofangles: 4
totalnumberofprimitives: 3
primID: 0
startangle_c: 0
endpose_c: 2 0 0
additionalactioncostmult: 1
intermediateposes: 3
0.0000 0.0000 0.0000
0.0500 0.0000 0.0000
0.1000 0.0000 0.0000
primID: 1
startangle_c: 0
endpose_c: -1 0 0
additionalactioncostmult: 5
intermediateposes: 2
0.0000 0.0000 0.0000
-0.0500 0.0000 0.0000
primID: 0
startangle_c: 1
endpose_c: 0 2 1
additionalactioncostmult: 1
intermediateposes: 2
0.0000 0.0000 1.5708
0.0000 0.1000 1.5708
`

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	test.That(t, Write(&buf, testSet()), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual, testMprim)
}

func TestRead(t *testing.T) {
	set, err := Read(strings.NewReader(testMprim))
	test.That(t, err, test.ShouldBeNil)
	if diff := cmp.Diff(testSet(), set); diff != "" {
		t.Fatalf("unexpected primitive set (-want +got):\n%s", diff)
	}
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primitives.mprim")
	test.That(t, WriteFile(path, testSet()), test.ShouldBeNil)
	set, err := ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, set, test.ShouldResemble, testSet())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mprim"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		input    string
		contains string
	}{
		"wrong key":    {"resolution: 0.05\n", `line 1: expected "resolution_m"`},
		"bad float":    {"resolution_m: abc\n", "line 1: resolution_m"},
		"truncated":    {"resolution_m: 0.05\nnumberofangles: 4\ntotalnumberofprimitives: 1\nprimID: 0\n", "unexpected end of file"},
		"endpose size": {strings.Replace(testMprim, "endpose_c: 2 0 0", "endpose_c: 2 0", 1), "line 6: endpose_c: expected 3 values, got 2"},
		"pose values":  {strings.Replace(testMprim, "0.0500 0.0000 0.0000", "0.0500 0.0000", 1), "line 10: expected 3 pose values"},
		"negative":     {"resolution_m: 0.05\nnumberofangles: 4\ntotalnumberofprimitives: -1\n", "negative primitive count"},
		"huge count":   {"resolution_m: 0.05\nnumberofangles: 4\ntotalnumberofprimitives: 999999999999999999\n", "line 3: unexpected end of file"},
		"huge poses":   {strings.Replace(testMprim, "intermediateposes: 3", "intermediateposes: 999999999999999999", 1), "expected 3 pose values, got 2"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.contains)
		})
	}
}

func TestValidate(t *testing.T) {
	test.That(t, testSet().Validate(), test.ShouldBeNil)

	set := testSet()
	set.Resolution = 0
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "resolution must be positive")

	set = testSet()
	set.Resolution = math.NaN()
	test.That(t, set.Validate(), test.ShouldNotBeNil)

	set = testSet()
	set.NumAngles = 0
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "number of angles")

	set = testSet()
	set.Primitives[1].Poses = nil
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "primitive 1 at start heading 0 has no intermediate poses")

	set = testSet()
	set.Primitives[2].StartHeading = 4
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "outside [0, 4)")

	set = testSet()
	set.Primitives[1].ID = 0
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "duplicate id 0")

	set = testSet()
	set.Primitives[2].Poses[1].Theta = math.NaN()
	test.That(t, set.Validate().Error(), test.ShouldContainSubstring, "primitive 0 at start heading 1: pose 1 is not finite")

	// strconv accepts "nan" and "inf", so non-finite poses can come from a file.
	parsed, err := Read(strings.NewReader(strings.Replace(testMprim, "0.0500 0.0000 0.0000", "0.0500 inf 0.0000", 1)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed.Validate().Error(), test.ShouldContainSubstring, "pose 1 is not finite")
}

func TestByStartHeadingAndFind(t *testing.T) {
	set := testSet()
	set.Primitives[0], set.Primitives[1] = set.Primitives[1], set.Primitives[0]
	groups := set.ByStartHeading()
	test.That(t, len(groups), test.ShouldEqual, 2)
	test.That(t, groups[0][0].ID, test.ShouldEqual, 0)
	test.That(t, groups[0][1].ID, test.ShouldEqual, 1)
	test.That(t, len(groups[1]), test.ShouldEqual, 1)

	p, ok := set.Find(Key{StartHeading: 1, ID: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, p.EndPose, test.ShouldResemble, [3]int{0, 2, 1})
	_, ok = set.Find(Key{StartHeading: 3, ID: 0})
	test.That(t, ok, test.ShouldBeFalse)

	test.That(t, set.HeadingAngle(1), test.ShouldAlmostEqual, math.Pi/2)
}
