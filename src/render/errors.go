package render

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnknownFormat is returned by ParseFormat and NewWriter.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrDimension is returned when a format cannot hold a point of the
	// given dimension.
	ErrDimension = errors.New("unsupported point dimension")
)

func dimensionError(f Format, dim int) error {
	return errors.Wrapf(ErrDimension, "%s output needs 3 coordinates, got %d", f, dim)
}
