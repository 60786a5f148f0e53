package geometry

import (
	"math/big"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"ratss/src/numeric/bigmath"
	"ratss/src/numeric/rational"
	"ratss/src/numeric/snap"
)

// RealVector is a point given by big.Float coordinates. Each coordinate
// carries its own precision.
type RealVector []*big.Float

// NewRealVector rounds vs to prec bits.
func NewRealVector(prec uint, vs ...float64) RealVector {
	v := make(RealVector, len(vs))
	for i, f := range vs {
		v[i] = bigmath.NewFloat(prec).SetFloat64(f)
	}
	return v
}

// RealVectorFromLatLng converts an s2 latitude/longitude pair to a unit
// vector at prec bits.
func RealVectorFromLatLng(ll s2.LatLng, prec uint) RealVector {
	lat := big.NewFloat(ll.Lat.Degrees())
	lon := big.NewFloat(ll.Lng.Degrees())
	return CartesianFromGeographic(lat, lon, prec)
}

func (v RealVector) Dim() int {
	return len(v)
}

// Prec returns the largest coordinate precision.
func (v RealVector) Prec() uint {
	return bigmath.MaxPrec(v...)
}

// Round returns a copy of v with every coordinate rounded to prec bits.
func (v RealVector) Round(prec uint, mode big.RoundingMode) RealVector {
	out := make(RealVector, len(v))
	for i, x := range v {
		out[i] = bigmath.Round(x, prec, mode)
	}
	return out
}

func (v RealVector) squaredNorm(prec uint) *big.Float {
	sum := bigmath.NewFloat(prec)
	sq := bigmath.NewFloat(prec)
	for _, x := range v {
		sum.Add(sum, sq.Mul(x, x))
	}
	return sum
}

// IsOnSphere reports whether the squared norm of v is within a few units in
// the last place of 1. It is an approximation bounded by the precision of v;
// use RationalVector.IsOnSphere for an exact answer.
func (v RealVector) IsOnSphere() bool {
	prec := v.Prec()
	if prec == 0 {
		return false
	}
	diff := v.squaredNorm(prec + guard)
	diff.Sub(diff, bigmath.FromInt64(1, prec+guard))
	if diff.Sign() == 0 {
		return true
	}
	// |Σx² - 1| <= dim · 2^(2-prec)
	limit := bigmath.FromInt64(int64(len(v)), prec+guard)
	limit.SetMantExp(limit, 2-int(prec))
	return diff.Abs(diff).Cmp(limit) <= 0
}

func (v RealVector) Float64s() []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i], _ = x.Float64()
	}
	return out
}

// S2Point returns v as an s2.Point. Only 3 dimensional vectors convert.
func (v RealVector) S2Point() (s2.Point, error) {
	if len(v) != 3 {
		return s2.Point{}, errors.Errorf("s2 points have 3 dimensions, got %d", len(v))
	}
	f := v.Float64s()
	return s2.Point{Vector: r3.Vector{X: f[0], Y: f[1], Z: f[2]}}, nil
}

func (v RealVector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = x.Text('g', 20)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RationalVector is a point with exact coordinates.
type RationalVector []rational.Rational

func (v RationalVector) Dim() int {
	return len(v)
}

// SquaredNorm returns the exact sum of squares of the coordinates.
func (v RationalVector) SquaredNorm() rational.Rational {
	var sum rational.Rational
	for _, x := range v {
		sum = sum.Add(x.Square())
	}
	return sum
}

// IsOnSphere reports whether the coordinates square-sum to exactly 1.
func (v RationalVector) IsOnSphere() bool {
	return v.SquaredNorm().Equal(rational.FromInt64(1))
}

func (v RationalVector) Equal(o RationalVector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Real rounds every coordinate to prec bits.
func (v RationalVector) Real(prec uint) RealVector {
	out := make(RealVector, len(v))
	for i, x := range v {
		out[i] = x.Float(prec)
	}
	return out
}

func (v RationalVector) Float64s() []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x.Float64()
	}
	return out
}

// S2Point returns the float64 approximation of v as an s2.Point.
func (v RationalVector) S2Point() (s2.Point, error) {
	if len(v) != 3 {
		return s2.Point{}, errors.Errorf("s2 points have 3 dimensions, got %d", len(v))
	}
	f := v.Float64s()
	return s2.Point{Vector: r3.Vector{X: f[0], Y: f[1], Z: f[2]}}, nil
}

func (v RationalVector) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = x.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SnapVector snaps every coordinate of v with m.
func SnapVector(v RealVector, m snap.Method) (RationalVector, error) {
	out := make(RationalVector, len(v))
	for i, x := range v {
		r, err := m.Snap(x)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %d", i)
		}
		out[i] = r
	}
	return out, nil
}

// SnapVectorWithin replaces every coordinate of v with the simplest rational
// strictly within eps of it.
func SnapVectorWithin(v RealVector, eps rational.Rational) (RationalVector, error) {
	out := make(RationalVector, len(v))
	for i, x := range v {
		r, err := snap.Within(x, eps)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %d", i)
		}
		out[i] = r
	}
	return out, nil
}
