// Package snap turns big.Float values into exact rationals.
//
// Value and Interval search the continued fraction expansion for the simplest
// rational consistent with the input; Cast converts the binary value as is.
package snap

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"ratss/src/numeric/rational"
)

// Method selects how a single coordinate is turned into a rational.
type Method int

const (
	// MethodCast converts the binary value verbatim; the denominator is a
	// power of two.
	MethodCast Method = iota
	// MethodContinuedFraction returns the first convergent that rounds back
	// to the input.
	MethodContinuedFraction
)

func (m Method) String() string {
	switch m {
	case MethodCast:
		return "fixed point"
	case MethodContinuedFraction:
		return "continued fraction"
	}
	return "unknown"
}

// ParseMethod accepts "fp", "ft" and "cast" for MethodCast and "cf" for
// MethodContinuedFraction.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fp", "ft", "cast", "fixed", "fixpoint":
		return MethodCast, nil
	case "cf", "continued", "fraction":
		return MethodContinuedFraction, nil
	}
	return 0, errors.Errorf("unknown snap method %q", s)
}

// Snap applies the method to x.
func (m Method) Snap(x *big.Float) (rational.Rational, error) {
	switch m {
	case MethodCast:
		return Cast(x)
	case MethodContinuedFraction:
		return Value(x)
	}
	return rational.Rational{}, errors.Errorf("unknown snap method %d", int(m))
}

// Cast returns the exact value of x.
func Cast(x *big.Float) (rational.Rational, error) {
	return rational.FromFloat(x)
}

// Value returns the first continued fraction convergent of x that, rounded
// to x.Prec() bits (nearest even), is bit-for-bit equal to x.
func Value(x *big.Float) (rational.Rational, error) {
	if x.IsInf() {
		return rational.Rational{}, errors.Wrapf(rational.ErrDomain, "cannot snap %v", x)
	}
	switch x.Sign() {
	case 0:
		return rational.Rational{}, nil
	case -1:
		r, err := Value(new(big.Float).Neg(x))
		return r.Neg(), err
	}

	exact, _ := x.Rat(nil)
	num := new(big.Int).Set(exact.Num())
	den := new(big.Int).Set(exact.Denom())

	// h/k is the current convergent, h1/k1 the previous one.
	h, h1 := big.NewInt(1), big.NewInt(0)
	k, k1 := big.NewInt(0), big.NewInt(1)
	a, rem, tmp := new(big.Int), new(big.Int), new(big.Int)
	candidate := new(big.Rat)
	back := new(big.Float).SetPrec(x.Prec())

	for den.Sign() != 0 {
		a.QuoRem(num, den, rem)
		num.Set(den)
		den.Set(rem)

		tmp.Mul(a, h)
		h1, h = h, tmp.Add(tmp, h1)
		tmp = new(big.Int)
		tmp.Mul(a, k)
		k1, k = k, tmp.Add(tmp, k1)
		tmp = new(big.Int)

		candidate.SetFrac(h, k)
		if back.SetRat(candidate).Cmp(x) == 0 {
			return rational.FromBigInts(h, k)
		}
	}
	// The last convergent is the exact value and always matches.
	return rational.FromBigRat(exact), nil
}

// Interval returns the simplest rational strictly between lo and hi: the one
// with the smallest denominator and, among those, the smallest magnitude.
// lo == hi returns lo; lo > hi is a domain error.
//
// The search is the Stern-Brocot descent where every run of mediant steps in
// the same direction is taken at once, which yields the continued fraction
// terms of the answer directly.
func Interval(lo, hi rational.Rational) (rational.Rational, error) {
	switch c := lo.Cmp(hi); {
	case c > 0:
		return rational.Rational{}, errors.Wrapf(rational.ErrDomain, "empty interval [%s, %s]", lo, hi)
	case c == 0:
		return lo, nil
	}

	switch {
	case lo.Sign() < 0 && hi.Sign() > 0:
		return rational.Rational{}, nil
	case hi.Sign() <= 0:
		return rational.FromBigRat(simplestBetween(hi.Neg().BigRat(), lo.Neg().BigRat())).Neg(), nil
	}
	return rational.FromBigRat(simplestBetween(lo.BigRat(), hi.BigRat())), nil
}

// Within returns the simplest rational strictly inside (x-eps, x+eps). Both
// endpoints are excluded, so x-eps and x+eps themselves are never returned.
// A zero eps returns the exact value of x.
func Within(x *big.Float, eps rational.Rational) (rational.Rational, error) {
	c, err := Cast(x)
	if err != nil {
		return rational.Rational{}, err
	}
	if eps.Sign() < 0 {
		return rational.Rational{}, errors.Wrapf(rational.ErrDomain, "negative tolerance %s", eps)
	}
	return Interval(c.Sub(eps), c.Add(eps))
}

// simplestBetween returns the simplest rational in the open interval (a, b)
// for 0 <= a < b. b == nil stands for +Inf.
func simplestBetween(a, b *big.Rat) *big.Rat {
	var terms []*big.Int
	one := big.NewInt(1)
	for {
		fl := floor(a)
		next := new(big.Int).Add(fl, one)
		if b == nil || new(big.Rat).SetInt(next).Cmp(b) < 0 {
			terms = append(terms, next)
			break
		}
		terms = append(terms, fl)

		// both ends lie in [fl, fl+1]; continue with the reciprocals of the
		// fractional parts, which swaps the ends.
		flr := new(big.Rat).SetInt(fl)
		na := new(big.Rat).Sub(b, flr)
		na.Inv(na)
		var nb *big.Rat
		if fa := new(big.Rat).Sub(a, flr); fa.Sign() != 0 {
			nb = fa.Inv(fa)
		}
		a, b = na, nb
	}

	r := new(big.Rat).SetInt(terms[len(terms)-1])
	for i := len(terms) - 2; i >= 0; i-- {
		r.Inv(r)
		r.Add(r, new(big.Rat).SetInt(terms[i]))
	}
	return r
}

// floor returns the largest integer not above the non-negative q.
func floor(q *big.Rat) *big.Int {
	return new(big.Int).Quo(q.Num(), q.Denom())
}
