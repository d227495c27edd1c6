package lattice

import (
	"image"

	"github.com/pkg/errors"
)

// EnvParams are the (x, y, theta) lattice environment's init parameters. Positions are in meters,
// headings in radians.
type EnvParams struct {
	SizeX     int `yaml:"size_x"`
	SizeY     int `yaml:"size_y"`
	NumThetas int `yaml:"num_thetas"`

	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	StartTheta float64 `yaml:"start_theta"`
	GoalX      float64 `yaml:"goal_x"`
	GoalY      float64 `yaml:"goal_y"`
	GoalTheta  float64 `yaml:"goal_theta"`

	CellSizeM                   float64 `yaml:"cellsize_m"`
	NominalVelMPerSecs          float64 `yaml:"nominalvel_mpersecs"`
	TimeToTurn45DegsInPlaceSecs float64 `yaml:"timetoturn45degsinplace_secs"`

	// Cells with a cost at or above ObsThresh are obstacles.
	ObsThresh                       uint8 `yaml:"obsthresh"`
	CostInscribedThresh             uint8 `yaml:"cost_inscribed_thresh"`
	CostPossiblyCircumscribedThresh int   `yaml:"cost_possibly_circumscribed_thresh"`
}

// Validate checks the parameters that the environment relies on. path prefixes error messages.
func (p *EnvParams) Validate(path string) error {
	switch {
	case p.SizeX <= 0 || p.SizeY <= 0:
		return errors.Errorf("%s: map size must be positive, got %dx%d", path, p.SizeX, p.SizeY)
	case p.NumThetas <= 0:
		return errors.Errorf("%s: %q must be positive, got %d", path, "num_thetas", p.NumThetas)
	case !(p.CellSizeM > 0):
		return errors.Errorf("%s: %q must be positive, got %v", path, "cellsize_m", p.CellSizeM)
	case p.ObsThresh == 0:
		return errors.Errorf("%s: %q must be positive", path, "obsthresh")
	}
	return nil
}

// NewFreeCostmap returns an all-zero costmap matching the map size of p.
func NewFreeCostmap(p EnvParams) *image.Gray {
	return image.NewGray(image.Rect(0, 0, p.SizeX, p.SizeY))
}

// CostmapFromRows builds a costmap from rows of costs, row index being y.
func CostmapFromRows(rows [][]uint8) (*image.Gray, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("costmap is empty")
	}
	costmap := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, errors.Errorf("costmap row %d has %d cells, expected %d", y, len(row), len(rows[0]))
		}
		copy(costmap.Pix[y*costmap.Stride:], row)
	}
	return costmap, nil
}
