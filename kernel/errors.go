package kernel

import (
	"github.com/pkg/errors"

	"go.viam.com/lattice/primitives"
)

// Error kinds. Every error constructed by this package matches exactly one of them under errors.Is.
var (
	// ErrConfiguration marks invalid footprints, primitive sets or resolutions. Nothing has been
	// registered when it is returned.
	ErrConfiguration = errors.New("configuration error")
	// ErrDegenerateGeometry marks a swept region with no cells to trace a boundary around.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrExternalLibrary marks a registration rejected by the environment.
	ErrExternalLibrary = errors.New("registration rejected")
)

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// NewConfigurationError marks err as a configuration error.
func NewConfigurationError(err error) error {
	return &kindError{ErrConfiguration, err}
}

// NewEmptyFootprintError is returned when the footprint has no vertices.
func NewEmptyFootprintError() error {
	return NewConfigurationError(errors.New("footprint is empty"))
}

// NewEmptyTrajectoryError is returned when a primitive has no intermediate poses.
func NewEmptyTrajectoryError(key primitives.Key) error {
	return NewConfigurationError(primitives.NewEmptyTrajectoryError(key))
}

// NewBadResolutionError is returned for a non-positive grid resolution.
func NewBadResolutionError(resolution float64) error {
	return NewConfigurationError(errors.Errorf("resolution must be positive, got %v", resolution))
}

// NewDegenerateRegionError is returned when a boundary is requested for a region without cells.
func NewDegenerateRegionError() error {
	return &kindError{ErrDegenerateGeometry, errors.New("swept region has no occupied cells")}
}

// NewRegistrationError wraps an error returned by a Registrar for the primitive key.
func NewRegistrationError(key primitives.Key, err error) error {
	return &kindError{ErrExternalLibrary, errors.Wrapf(err, "primitive %d at start heading %d", key.ID, key.StartHeading)}
}
