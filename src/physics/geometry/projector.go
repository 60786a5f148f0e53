package geometry

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"ratss/src/numeric/bigmath"
	"ratss/src/numeric/rational"
)

// Pole records which hemisphere a point was projected from. The projection
// centre is the antipode -Sign·e_Axis, so the hyperplane x_Axis = 0 receives
// the point and its coordinates stay inside the unit ball.
type Pole struct {
	Axis int
	Sign int
}

func (p Pole) String() string {
	s := "+"
	if p.Sign < 0 {
		s = "-"
	}
	return fmt.Sprintf("%sx%d", s, p.Axis)
}

// check validates p for a point of the given sphere dimension.
func (p Pole) check(dim int) error {
	if p.Axis < 0 || p.Axis >= dim {
		return errors.Wrapf(rational.ErrDomain, "pole axis %d out of range for dimension %d", p.Axis, dim)
	}
	if p.Sign != 1 && p.Sign != -1 {
		return errors.Wrapf(rational.ErrDomain, "pole sign must be ±1, got %d", p.Sign)
	}
	return nil
}

// PoleOf picks the axis of the largest coordinate magnitude and its sign.
// Ties go to the lowest axis.
func PoleOf(p RealVector) Pole {
	pole := Pole{Axis: 0, Sign: 1}
	var best *big.Float
	for i, x := range p {
		a := new(big.Float).Abs(x)
		if best == nil || a.Cmp(best) > 0 {
			best = a
			pole = Pole{Axis: i, Sign: 1}
			if x.Sign() < 0 {
				pole.Sign = -1
			}
		}
	}
	return pole
}

// Project maps the point p on the unit sphere to the hyperplane, choosing
// the pole with PoleOf.
func Project(p RealVector, prec uint) (RealVector, Pole, error) {
	pole := PoleOf(p)
	q, err := ProjectWith(p, pole, prec)
	return q, pole, err
}

// ProjectWith maps p using the given pole: y_i = x_i / (1 + Sign·x_Axis) for
// every i other than Axis.
func ProjectWith(p RealVector, pole Pole, prec uint) (RealVector, error) {
	if len(p) < 2 {
		return nil, errors.Wrapf(rational.ErrDomain, "cannot project a point of dimension %d", len(p))
	}
	if err := pole.check(len(p)); err != nil {
		return nil, err
	}
	prec = outPrec(prec, p...)
	wp := workPrec(prec, p...)

	denom := bigmath.NewFloat(wp).Set(p[pole.Axis])
	if pole.Sign < 0 {
		denom.Neg(denom)
	}
	denom.Add(denom, bigmath.FromInt64(1, wp))
	if denom.Sign() == 0 {
		return nil, errors.Wrapf(rational.ErrDomain, "%s is the projection centre of pole %s", p, pole)
	}

	out := make(RealVector, 0, len(p)-1)
	for i, x := range p {
		if i == pole.Axis {
			continue
		}
		out = append(out, round(bigmath.NewFloat(wp).Quo(x, denom), prec))
	}
	return out, nil
}

// ProjectExact is ProjectWith in exact arithmetic.
func ProjectExact(p RationalVector, pole Pole) (RationalVector, error) {
	if len(p) < 2 {
		return nil, errors.Wrapf(rational.ErrDomain, "cannot project a point of dimension %d", len(p))
	}
	if err := pole.check(len(p)); err != nil {
		return nil, err
	}
	denom := p[pole.Axis]
	if pole.Sign < 0 {
		denom = denom.Neg()
	}
	denom = denom.Add(rational.FromInt64(1))
	inv, err := denom.Inv()
	if err != nil {
		return nil, errors.Wrapf(err, "%s is the projection centre of pole %s", p, pole)
	}

	out := make(RationalVector, 0, len(p)-1)
	for i, x := range p {
		if i == pole.Axis {
			continue
		}
		out = append(out, x.Mul(inv))
	}
	return out, nil
}

// InverseProject maps the plane point q back to the sphere in exact
// arithmetic. With S = Σq_i², the result is x_i = 2q_i/(1+S) and
// x_Axis = Sign·(1-S)/(1+S), whose squares sum to 1 for every q.
func InverseProject(q RationalVector, pole Pole) (RationalVector, error) {
	if len(q) < 1 {
		return nil, errors.Wrap(rational.ErrDomain, "cannot lift an empty point")
	}
	if err := pole.check(len(q) + 1); err != nil {
		return nil, err
	}
	one := rational.FromInt64(1)
	s := q.SquaredNorm()
	inv, err := s.Add(one).Inv()
	if err != nil {
		return nil, err
	}
	twoInv := inv.Add(inv)

	out := make(RationalVector, 0, len(q)+1)
	for _, y := range q {
		if len(out) == pole.Axis {
			out = append(out, axisCoord(one.Sub(s).Mul(inv), pole))
		}
		out = append(out, y.Mul(twoInv))
	}
	if len(out) == pole.Axis {
		out = append(out, axisCoord(one.Sub(s).Mul(inv), pole))
	}
	return out, nil
}

func axisCoord(v rational.Rational, pole Pole) rational.Rational {
	if pole.Sign < 0 {
		return v.Neg()
	}
	return v
}

// InverseProjectReal is InverseProject on big.Float coordinates rounded to
// prec bits.
func InverseProjectReal(q RealVector, pole Pole, prec uint) (RealVector, error) {
	if len(q) < 1 {
		return nil, errors.Wrap(rational.ErrDomain, "cannot lift an empty point")
	}
	if err := pole.check(len(q) + 1); err != nil {
		return nil, err
	}
	prec = outPrec(prec, q...)
	wp := workPrec(prec, q...)

	one := bigmath.FromInt64(1, wp)
	s := q.squaredNorm(wp)
	den := bigmath.NewFloat(wp).Add(one, s)

	axis := bigmath.NewFloat(wp).Sub(one, s)
	axis.Quo(axis, den)
	if pole.Sign < 0 {
		axis.Neg(axis)
	}

	out := make(RealVector, 0, len(q)+1)
	for _, y := range q {
		if len(out) == pole.Axis {
			out = append(out, round(axis, prec))
		}
		x := bigmath.NewFloat(wp).Quo(y, den)
		out = append(out, round(mulInt(x, 2), prec))
	}
	if len(out) == pole.Axis {
		out = append(out, round(axis, prec))
	}
	return out, nil
}
