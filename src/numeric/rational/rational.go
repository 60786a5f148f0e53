// Package rational implements an exact rational number that lives in a pair
// of int64 words while it fits and falls back to math/big when it does not.
//
// Nearly every snapped coordinate fits the fixed width, so arithmetic is
// attempted there first. A result that overflows is computed again with
// big.Rat and is demoted back to the fixed width when it fits exactly.
package rational

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Rational is an immutable canonical rational number: the denominator is
// positive, numerator and denominator are coprime and the sign is carried by
// the numerator.
//
// A Rational is stored in the fixed width iff both canonical parts fit in
// [-(2^63-1), 2^63-1]; otherwise it is extended. The zero value is 0/1.
type Rational struct {
	num int64
	// den is the denominator minus one, so that the zero value is 0/1.
	den int64
	ext *big.Rat
}

func FromInt64(v int64) Rational {
	if v < minFixed {
		return Rational{ext: new(big.Rat).SetInt64(v)}
	}
	return Rational{num: v}
}

func FromUint64(v uint64) Rational {
	if v > maxFixed {
		return Rational{ext: new(big.Rat).SetInt(new(big.Int).SetUint64(v))}
	}
	return Rational{num: int64(v)}
}

// New returns num/den in lowest terms.
func New(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, errZeroDenominator(num)
	}
	if num < minFixed || den < minFixed {
		return fromBig(new(big.Rat).SetFrac(new(big.Int).SetInt64(num), new(big.Int).SetInt64(den))), nil
	}
	return reduceFixed(num, den), nil
}

// MustNew is like New but panics on a zero denominator.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

func FromUint64s(num, den uint64) (Rational, error) {
	if den == 0 {
		return Rational{}, errZeroDenominator(num)
	}
	if num <= maxFixed && den <= maxFixed {
		return reduceFixed(int64(num), int64(den)), nil
	}
	return fromBig(new(big.Rat).SetFrac(new(big.Int).SetUint64(num), new(big.Int).SetUint64(den))), nil
}

// FromBigInts returns num/den in lowest terms. The arguments are not retained.
func FromBigInts(num, den *big.Int) (Rational, error) {
	if den.Sign() == 0 {
		return Rational{}, errZeroDenominator(num)
	}
	if fitsFixed(num) && fitsFixed(den) {
		return reduceFixed(num.Int64(), den.Int64()), nil
	}
	return fromBig(new(big.Rat).SetFrac(num, den)), nil
}

func FromIntegers(num, den Integer) (Rational, error) {
	n, nok := num.Int64()
	d, dok := den.Int64()
	if nok && dok {
		return New(n, d)
	}
	return FromBigInts(num.BigInt(), den.BigInt())
}

// FromBigRat copies q.
func FromBigRat(q *big.Rat) Rational {
	return fromBig(new(big.Rat).Set(q))
}

// FromFloat converts a finite big.Float exactly; the denominator of the
// result is a power of two.
func FromFloat(f *big.Float) (Rational, error) {
	if f.IsInf() {
		return Rational{}, errors.Wrapf(ErrDomain, "cannot convert %v to a rational", f)
	}
	q, _ := f.Rat(nil)
	return fromBig(q), nil
}

func FromFloat64(f float64) (Rational, error) {
	q := new(big.Rat).SetFloat64(f)
	if q == nil {
		return Rational{}, errors.Wrapf(ErrDomain, "cannot convert %v to a rational", f)
	}
	return fromBig(q), nil
}

// Parse reads "n/d", an integer, or a decimal literal such as "0.125" or
// "1e-3".
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, nok := new(big.Int).SetString(strings.TrimSpace(num), 10)
		d, dok := new(big.Int).SetString(strings.TrimSpace(den), 10)
		if !nok || !dok {
			return Rational{}, errors.Wrapf(ErrSyntax, "%q", s)
		}
		return FromBigInts(n, d)
	}
	q, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rational{}, errors.Wrapf(ErrSyntax, "%q", s)
	}
	return fromBig(q), nil
}

func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Pow2 returns 2^exp. Negative exponents give 1/2^-exp.
func Pow2(exp int) Rational {
	if exp >= 0 {
		return fromBig(new(big.Rat).SetInt(new(big.Int).Lsh(big1, uint(exp))))
	}
	return fromBig(new(big.Rat).SetFrac(big1, new(big.Int).Lsh(big1, uint(-exp))))
}

// reduceFixed canonicalizes num/den; den must be non-zero and neither part
// may be math.MinInt64.
func reduceFixed(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{}
	}
	if g := gcd64(abs64(num), den); g != 1 {
		num, den = num/g, den/g
	}
	return Rational{num: num, den: den - 1}
}

// fromBig takes ownership of q, which big.Rat keeps in lowest terms, and
// demotes it to the fixed width when both parts fit.
func fromBig(q *big.Rat) Rational {
	if fitsFixed(q.Num()) && fitsFixed(q.Denom()) {
		return Rational{num: q.Num().Int64(), den: q.Denom().Int64() - 1}
	}
	return Rational{ext: q}
}

// IsExtended reports whether r is held in the arbitrary precision
// representation.
func (r Rational) IsExtended() bool {
	return r.ext != nil
}

func (r Rational) fixedDen() int64 {
	return r.den + 1
}

// asExtended returns r as a big.Rat. The result may alias r's backing value
// and must not be modified.
func (r Rational) asExtended() *big.Rat {
	if r.IsExtended() {
		return r.ext
	}
	return new(big.Rat).SetFrac64(r.num, r.fixedDen())
}

func (r Rational) Numerator() Integer {
	if r.IsExtended() {
		return IntegerFromBig(r.ext.Num())
	}
	return Integer{v: r.num}
}

func (r Rational) Denominator() Integer {
	if r.IsExtended() {
		return IntegerFromBig(r.ext.Denom())
	}
	return Integer{v: r.fixedDen()}
}

// BitLen returns the bit lengths of the numerator's magnitude and of the
// denominator.
func (r Rational) BitLen() (num, den int) {
	return r.Numerator().BitLen(), r.Denominator().BitLen()
}

// BigRat returns a fresh big.Rat holding r.
func (r Rational) BigRat() *big.Rat {
	if r.IsExtended() {
		return new(big.Rat).Set(r.ext)
	}
	return new(big.Rat).SetFrac64(r.num, r.fixedDen())
}

// Canonicalize reduces r again. Every constructor and operation already
// returns canonical values, so this is the identity on valid values.
func (r Rational) Canonicalize() Rational {
	if r.IsExtended() {
		return fromBig(new(big.Rat).Set(r.ext))
	}
	return reduceFixed(r.num, r.fixedDen())
}

// Float returns r rounded to prec bits.
func (r Rational) Float(prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).SetRat(r.asExtended())
}

// Float64 returns the float64 nearest to r.
func (r Rational) Float64() float64 {
	if !r.IsExtended() && abs64(r.num) <= maxExactFloat && r.fixedDen() <= maxExactFloat {
		return float64(r.num) / float64(r.fixedDen())
	}
	f, _ := r.asExtended().Float64()
	return f
}

// String formats r as "n/d".
func (r Rational) String() string {
	if r.IsExtended() {
		return r.ext.String()
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.fixedDen(), 10)
}
