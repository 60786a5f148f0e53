package snapping

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"ratss/src/physics/geometry"
)

// Ladder is the sequence of precisions SnapEscalating tries: Start,
// Start+Step, and so on for at most MaxAttempts steps.
type Ladder struct {
	Start       uint
	Step        uint
	MaxAttempts int
}

// DefaultLadder starts at DefaultPrecision and doubles it twice over.
var DefaultLadder = Ladder{Start: DefaultPrecision, Step: DefaultPrecision, MaxAttempts: 4}

// Precisions lists the rungs of the ladder.
func (l Ladder) Precisions() []uint {
	if l.MaxAttempts <= 0 {
		return nil
	}
	start := l.Start
	if start == 0 {
		start = DefaultPrecision
	}
	out := make([]uint, 0, l.MaxAttempts)
	for i := 0; i < l.MaxAttempts; i++ {
		out = append(out, start+uint(i)*l.Step)
	}
	return out
}

// SnapEscalating snaps coords at each precision of the ladder until the
// result lies exactly on the sphere and returns it with the precision used.
// Snap errors are returned as they are; running out of rungs returns
// ErrPrecisionInsufficient.
func SnapEscalating(coords geometry.RealVector, ladder Ladder, flags Flags) (geometry.RationalVector, uint, error) {
	return Snapper{Flags: flags}.SnapEscalating(coords, ladder)
}

// SnapEscalating is like the package level function but keeps the other
// settings of s and overrides only its precision.
func (s Snapper) SnapEscalating(coords geometry.RealVector, ladder Ladder) (geometry.RationalVector, uint, error) {
	precisions := ladder.Precisions()
	for _, prec := range precisions {
		s.Precision = prec
		out, err := s.Snap(coords)
		if err != nil {
			return nil, prec, err
		}
		if out.IsOnSphere() {
			return out, prec, nil
		}
		if glog.V(2) {
			glog.Infof("%s is off the sphere at %d bits", out, prec)
		}
	}
	return nil, 0, errors.Wrapf(ErrPrecisionInsufficient, "%s after %d attempts", coords, len(precisions))
}

// Escalating snaps with SnapEscalating so it can be used where a
// PointSnapper is expected.
type Escalating struct {
	Snapper Snapper
	Ladder  Ladder
}

func (e Escalating) Snap(coords geometry.RealVector) (geometry.RationalVector, error) {
	out, _, err := e.Snapper.SnapEscalating(coords, e.Ladder)
	return out, err
}
