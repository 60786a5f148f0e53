// Package bigmath provides the elementary functions the sphere code needs on
// big.Float values: π, sine, cosine, arc tangent, arc cosine and square root.
//
// Every function takes the precision of its result explicitly. A precision of
// 0 means "the precision of the argument". Internally the work is carried out
// with guard bits and rounded once at the end.
package bigmath

import (
	"math/big"

	"github.com/pkg/errors"

	"ratss/src/numeric/rational"
)

// guard is the number of extra bits carried by intermediate results.
const guard = 64

// MaxPrec returns the largest precision among xs.
func MaxPrec(xs ...*big.Float) uint {
	var prec uint
	for _, x := range xs {
		if x != nil && x.Prec() > prec {
			prec = x.Prec()
		}
	}
	return prec
}

// NewFloat returns a zero with the given precision.
func NewFloat(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec)
}

// FromInt64 returns v rounded to prec bits.
func FromInt64(v int64, prec uint) *big.Float {
	return NewFloat(prec).SetInt64(v)
}

// Round returns a copy of x rounded to prec bits with the given mode.
func Round(x *big.Float, prec uint, mode big.RoundingMode) *big.Float {
	return new(big.Float).SetMode(mode).SetPrec(prec).Set(x)
}

func resultPrec(prec uint, x *big.Float) uint {
	if prec == 0 {
		return x.Prec()
	}
	return prec
}

func finish(x *big.Float, prec uint) *big.Float {
	return NewFloat(prec).Set(x)
}

// Pi returns π rounded to prec bits.
func Pi(prec uint) *big.Float {
	wp := prec + guard
	// Machin: π = 16·atan(1/5) − 4·atan(1/239)
	a := atanInv(5, wp)
	a.Mul(a, FromInt64(16, wp))
	b := atanInv(239, wp)
	b.Mul(b, FromInt64(4, wp))
	return finish(a.Sub(a, b), prec)
}

// atanInv returns atan(1/n) with wp bits using the alternating series.
func atanInv(n int64, wp uint) *big.Float {
	nn := FromInt64(n*n, wp)
	term := NewFloat(wp).Quo(FromInt64(1, wp), FromInt64(n, wp)) // 1/n^(2k+1)
	sum := NewFloat(wp).Set(term)
	tmp := NewFloat(wp)
	for k := int64(1); ; k++ {
		term.Quo(term, nn)
		tmp.Quo(term, FromInt64(2*k+1, wp))
		if negligible(tmp, sum, wp) {
			return sum
		}
		if k%2 == 1 {
			sum.Sub(sum, tmp)
		} else {
			sum.Add(sum, tmp)
		}
	}
}

// negligible reports whether term no longer changes sum at wp bits.
func negligible(term, sum *big.Float, wp uint) bool {
	if term.Sign() == 0 {
		return true
	}
	if sum.Sign() == 0 {
		return false
	}
	return term.MantExp(nil) < sum.MantExp(nil)-int(wp)-1
}

// workPrec is the precision needed to reduce x modulo π/2 without losing
// bits of the result: the integer part of x consumes bits of π.
func workPrec(prec uint, x *big.Float) uint {
	wp := max(prec, x.Prec()) + guard
	if e := x.MantExp(nil); e > 0 {
		wp += uint(e)
	}
	return wp
}

// reduce returns r and k with x = k·π/2 + r, |r| < π/2 and k mod 4.
func reduce(x *big.Float, wp uint) (*big.Float, int) {
	halfPi := Pi(wp)
	halfPi.SetMantExp(halfPi, -1)

	q := NewFloat(wp).Quo(x, halfPi)
	k, _ := q.Int(nil)

	r := NewFloat(wp).SetInt(k)
	r.Mul(r, halfPi)
	r.Sub(NewFloat(wp).Set(x), r)

	quadrant := new(big.Int).Mod(k, big.NewInt(4))
	return r, int(quadrant.Int64())
}

// sinCosSeries returns sin(r) and cos(r) by their Taylor series; |r| < π/2.
func sinCosSeries(r *big.Float, wp uint) (sin, cos *big.Float) {
	r2 := NewFloat(wp).Mul(r, r)

	sin = NewFloat(wp).Set(r)
	term := NewFloat(wp).Set(r)
	for n := int64(1); ; n++ {
		term.Mul(term, r2)
		term.Quo(term, FromInt64((2*n)*(2*n+1), wp))
		term.Neg(term)
		if negligible(term, sin, wp) {
			break
		}
		sin.Add(sin, term)
	}

	cos = FromInt64(1, wp)
	term = FromInt64(1, wp)
	for n := int64(1); ; n++ {
		term.Mul(term, r2)
		term.Quo(term, FromInt64((2*n-1)*(2*n), wp))
		term.Neg(term)
		if negligible(term, cos, wp) {
			break
		}
		cos.Add(cos, term)
	}
	return sin, cos
}

// SinCos returns sin(x) and cos(x) rounded to prec bits.
func SinCos(x *big.Float, prec uint) (sin, cos *big.Float) {
	prec = resultPrec(prec, x)
	if x.Sign() == 0 {
		return NewFloat(prec), FromInt64(1, prec)
	}
	wp := workPrec(prec, x)
	r, quadrant := reduce(x, wp)
	s, c := sinCosSeries(r, wp)
	switch quadrant {
	case 1:
		s, c = c, s.Neg(s)
	case 2:
		s, c = s.Neg(s), c.Neg(c)
	case 3:
		s, c = c.Neg(c), s
	}
	return finish(s, prec), finish(c, prec)
}

// Atan returns atan(x) rounded to prec bits. atan(±Inf) is ±π/2.
func Atan(x *big.Float, prec uint) *big.Float {
	prec = resultPrec(prec, x)
	if x.Sign() == 0 {
		return NewFloat(prec)
	}
	wp := max(prec, x.Prec()) + guard
	if x.IsInf() {
		r := Pi(wp)
		r.SetMantExp(r, -1)
		if x.Sign() < 0 {
			r.Neg(r)
		}
		return finish(r, prec)
	}

	a := NewFloat(wp).Abs(x)
	one := FromInt64(1, wp)
	inverted := a.Cmp(one) > 0
	if inverted {
		a.Quo(one, a)
	}

	// atan(a) = 2·atan(a / (1 + sqrt(1 + a²))) until a is small
	doublings := 0
	limit := NewFloat(wp).SetMantExp(one, -4)
	for a.Cmp(limit) > 0 {
		d := NewFloat(wp).Mul(a, a)
		d.Add(d, one)
		d.Sqrt(d)
		d.Add(d, one)
		a.Quo(a, d)
		doublings++
	}

	a2 := NewFloat(wp).Mul(a, a)
	sum := NewFloat(wp).Set(a)
	pow := NewFloat(wp).Set(a)
	term := NewFloat(wp)
	for k := int64(1); ; k++ {
		pow.Mul(pow, a2)
		term.Quo(pow, FromInt64(2*k+1, wp))
		if negligible(term, sum, wp) {
			break
		}
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	sum.SetMantExp(sum, doublings)

	if inverted {
		halfPi := Pi(wp)
		halfPi.SetMantExp(halfPi, -1)
		sum.Sub(halfPi, sum)
	}
	if x.Sign() < 0 {
		sum.Neg(sum)
	}
	return finish(sum, prec)
}

// Acos returns acos(z) rounded to prec bits; |z| must not exceed 1.
func Acos(z *big.Float, prec uint) (*big.Float, error) {
	prec = resultPrec(prec, z)
	wp := prec + guard + z.Prec()
	one := FromInt64(1, wp)

	switch c := NewFloat(wp).Abs(z).Cmp(one); {
	case c > 0:
		return nil, errors.Wrapf(rational.ErrDomain, "acos(%s) is undefined", z.Text('g', 10))
	case c == 0 && z.Sign() > 0:
		return NewFloat(prec), nil
	case c == 0:
		return Pi(prec), nil
	}

	// acos(z) = π/2 − atan(z / sqrt((1−z)(1+z)))
	s := NewFloat(wp).Sub(one, z)
	s.Mul(s, NewFloat(wp).Add(one, z))
	s, err := Sqrt(s, wp)
	if err != nil {
		return nil, err
	}
	t := Atan(NewFloat(wp).Quo(z, s), wp)

	halfPi := Pi(wp)
	halfPi.SetMantExp(halfPi, -1)
	return finish(halfPi.Sub(halfPi, t), prec), nil
}

// Sqrt returns the square root of x rounded to prec bits.
func Sqrt(x *big.Float, prec uint) (*big.Float, error) {
	prec = resultPrec(prec, x)
	if x.Sign() < 0 {
		return nil, errors.Wrapf(rational.ErrDomain, "sqrt(%s) is undefined", x.Text('g', 10))
	}
	if x.Sign() == 0 {
		return NewFloat(prec), nil
	}
	return NewFloat(prec).Sqrt(x), nil
}
