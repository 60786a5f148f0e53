package rational

import (
	"math/big"
	"strconv"
)

// Integer is an integer held in an int64 while it fits the fixed width and
// in a big.Int otherwise. It is what Numerator and Denominator return, since
// the parts of an extended Rational need not fit a machine word.
type Integer struct {
	v   int64
	ext *big.Int
}

func IntegerFromInt64(v int64) Integer {
	if v < minFixed {
		return Integer{ext: new(big.Int).SetInt64(v)}
	}
	return Integer{v: v}
}

// IntegerFromBig copies b, demoting it to the fixed width when it fits.
func IntegerFromBig(b *big.Int) Integer {
	if fitsFixed(b) {
		return Integer{v: b.Int64()}
	}
	return Integer{ext: new(big.Int).Set(b)}
}

func (i Integer) IsExtended() bool {
	return i.ext != nil
}

// Int64 returns the value and whether it fits the fixed width.
func (i Integer) Int64() (int64, bool) {
	if i.IsExtended() {
		return 0, false
	}
	return i.v, true
}

// BigInt returns a fresh big.Int holding the value.
func (i Integer) BigInt() *big.Int {
	if i.IsExtended() {
		return new(big.Int).Set(i.ext)
	}
	return new(big.Int).SetInt64(i.v)
}

func (i Integer) Sign() int {
	if i.IsExtended() {
		return i.ext.Sign()
	}
	switch {
	case i.v < 0:
		return -1
	case i.v > 0:
		return 1
	}
	return 0
}

// BitLen is the number of bits of |i|, 0 for zero.
func (i Integer) BitLen() int {
	if i.IsExtended() {
		return i.ext.BitLen()
	}
	return bitLen64(abs64(i.v))
}

func (i Integer) Cmp(j Integer) int {
	if !i.IsExtended() && !j.IsExtended() {
		switch {
		case i.v < j.v:
			return -1
		case i.v > j.v:
			return 1
		}
		return 0
	}
	return i.BigInt().Cmp(j.BigInt())
}

func (i Integer) String() string {
	if i.IsExtended() {
		return i.ext.String()
	}
	return strconv.FormatInt(i.v, 10)
}
