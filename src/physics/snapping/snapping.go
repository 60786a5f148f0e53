// Package snapping turns points on the unit sphere into points with exact
// rational coordinates.
//
// In the plane domain a point is projected stereographically, the plane
// coordinates are snapped and the result is lifted back with exact
// arithmetic, so the output lies on the sphere whatever the snapped values
// are. In the sphere domain the coordinates are snapped as they are and the
// result is on the sphere only when the input happened to be exactly
// representable.
package snapping

import (
	"math/big"

	"github.com/pkg/errors"

	"ratss/src/numeric/rational"
	"ratss/src/physics/geometry"
)

// DefaultPrecision is the number of bits coordinates are rounded to when no
// precision is given.
const DefaultPrecision = 32

var (
	// ErrInvalidFlags is returned for contradictory or unknown flag masks.
	ErrInvalidFlags = errors.New("invalid snap flags")

	// ErrPrecisionInsufficient is returned by SnapEscalating when no
	// precision on the ladder produced a point on the sphere.
	ErrPrecisionInsufficient = errors.New("precision insufficient")
)

// Snapper holds the settings shared by every point of a run.
type Snapper struct {
	// Precision in bits; 0 selects DefaultPrecision.
	Precision uint
	Flags     Flags
	// Epsilon, when set, replaces the snap method: every coordinate becomes
	// the simplest rational strictly within Epsilon of it.
	Epsilon *rational.Rational
}

// Snap runs coords through the pipeline with the given precision and flags.
func Snap(coords geometry.RealVector, precision uint, flags Flags) (geometry.RationalVector, error) {
	return Snapper{Precision: precision, Flags: flags}.Snap(coords)
}

// Snap normalizes coords if asked, projects them in the plane domain, rounds
// every coordinate toward zero to the precision, snaps it and lifts the
// result back to the sphere in the plane domain. It never retries.
func (s Snapper) Snap(coords geometry.RealVector) (geometry.RationalVector, error) {
	flags, err := s.Flags.Resolve()
	if err != nil {
		return nil, err
	}
	prec := s.Precision
	if prec == 0 {
		prec = DefaultPrecision
	}
	if len(coords) < 2 {
		return nil, errors.Wrapf(rational.ErrDomain, "points need at least 2 dimensions, got %d", len(coords))
	}
	for i, x := range coords {
		if x == nil || x.IsInf() {
			return nil, errors.Wrapf(rational.ErrDomain, "coordinate %d is not finite", i)
		}
	}

	if flags.Has(Normalize) {
		coords, err = geometry.Normalize(coords, max(prec, coords.Prec()))
		if err != nil {
			return nil, err
		}
	}

	work := coords
	var pole geometry.Pole
	if flags.Has(Plane) {
		work, pole, err = geometry.Project(coords, max(prec, coords.Prec()))
		if err != nil {
			return nil, errors.Wrap(err, "forward projection")
		}
	}

	work = work.Round(prec, big.ToZero)

	var snapped geometry.RationalVector
	if s.Epsilon != nil {
		snapped, err = geometry.SnapVectorWithin(work, *s.Epsilon)
	} else {
		snapped, err = geometry.SnapVector(work, flags.Method())
	}
	if err != nil {
		return nil, err
	}

	if !flags.Has(Plane) {
		return snapped, nil
	}
	out, err := geometry.InverseProject(snapped, pole)
	if err != nil {
		return nil, errors.Wrap(err, "inverse projection")
	}
	return out, nil
}

// EpsilonFromBits returns 2^-k.
func EpsilonFromBits(k int) rational.Rational {
	return rational.Pow2(-k)
}
