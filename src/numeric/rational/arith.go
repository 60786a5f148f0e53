package rational

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
)

// Add returns x+y.
func (x Rational) Add(y Rational) Rational {
	if !x.IsExtended() && !y.IsExtended() {
		if r, ok := addFixed(x.num, x.fixedDen(), y.num, y.fixedDen()); ok {
			return r
		}
	}
	return fromBig(new(big.Rat).Add(x.asExtended(), y.asExtended()))
}

// Sub returns x-y.
func (x Rational) Sub(y Rational) Rational {
	return x.Add(y.Neg())
}

// Mul returns x*y.
func (x Rational) Mul(y Rational) Rational {
	if !x.IsExtended() && !y.IsExtended() {
		if r, ok := mulFixed(x.num, x.fixedDen(), y.num, y.fixedDen()); ok {
			return r
		}
	}
	return fromBig(new(big.Rat).Mul(x.asExtended(), y.asExtended()))
}

// Square returns x*x.
func (x Rational) Square() Rational {
	return x.Mul(x)
}

// Quo returns x/y. Dividing by zero is a domain error.
func (x Rational) Quo(y Rational) (Rational, error) {
	inv, err := y.Inv()
	if err != nil {
		return Rational{}, err
	}
	return x.Mul(inv), nil
}

// Inv returns 1/x.
func (x Rational) Inv() (Rational, error) {
	if x.IsZero() {
		return Rational{}, errors.Wrap(ErrDomain, "inverse of zero")
	}
	if x.IsExtended() {
		return fromBig(new(big.Rat).Inv(x.ext)), nil
	}
	num, den := x.fixedDen(), x.num
	if den < 0 {
		num, den = -num, -den
	}
	return Rational{num: num, den: den - 1}, nil
}

func (x Rational) Neg() Rational {
	if x.IsExtended() {
		return Rational{ext: new(big.Rat).Neg(x.ext)}
	}
	return Rational{num: -x.num, den: x.den}
}

func (x Rational) Abs() Rational {
	if x.Sign() < 0 {
		return x.Neg()
	}
	return x
}

func (x Rational) Sign() int {
	if x.IsExtended() {
		return x.ext.Sign()
	}
	switch {
	case x.num < 0:
		return -1
	case x.num > 0:
		return 1
	}
	return 0
}

func (x Rational) IsZero() bool {
	return x.Sign() == 0
}

// Cmp compares x and y and returns -1, 0 or +1. The comparison goes through
// the extended representation of both operands.
func (x Rational) Cmp(y Rational) int {
	return x.asExtended().Cmp(y.asExtended())
}

func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// Less reports x < y.
func (x Rational) Less(y Rational) bool {
	return x.Cmp(y) < 0
}

// addFixed computes a/b + c/d in the fixed width. ok is false when an
// intermediate leaves the fixed width.
func addFixed(a, b, c, d int64) (Rational, bool) {
	g := gcd64(b, d)
	b1, d1 := b/g, d/g
	ad, ok := mul64(a, d1)
	if !ok {
		return Rational{}, false
	}
	cb, ok := mul64(c, b1)
	if !ok {
		return Rational{}, false
	}
	num, ok := add64(ad, cb)
	if !ok {
		return Rational{}, false
	}
	den, ok := mul64(b1, d)
	if !ok {
		return Rational{}, false
	}
	return reduceFixed(num, den), true
}

// mulFixed computes (a/b) * (c/d) in the fixed width, cross-reducing first
// so that the product of two canonical values is canonical.
func mulFixed(a, b, c, d int64) (Rational, bool) {
	if a == 0 || c == 0 {
		return Rational{}, true
	}
	if g := gcd64(abs64(a), d); g != 1 {
		a, d = a/g, d/g
	}
	if g := gcd64(abs64(c), b); g != 1 {
		c, b = c/g, b/g
	}
	num, ok := mul64(a, c)
	if !ok {
		return Rational{}, false
	}
	den, ok := mul64(b, d)
	if !ok {
		return Rational{}, false
	}
	return Rational{num: num, den: den - 1}, true
}

// mul64 returns a*b and whether it stays inside the fixed width.
func mul64(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(abs64(a)), uint64(abs64(b)))
	if hi != 0 || lo > maxFixed {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		return -int64(lo), true
	}
	return int64(lo), true
}

// add64 returns a+b and whether it stays inside the fixed width.
func add64(a, b int64) (int64, bool) {
	s := a + b
	if (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0) {
		return 0, false
	}
	if s == math.MinInt64 {
		return 0, false
	}
	return s, true
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func bitLen64(v int64) int {
	return bits.Len64(uint64(v))
}
