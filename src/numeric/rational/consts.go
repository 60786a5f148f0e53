package rational

import (
	"math"
	"math/big"
)

const (
	// The fixed width is the symmetric int64 range. math.MinInt64 is left out
	// so that negation and absolute value never overflow on the fast path.
	maxFixed = math.MaxInt64
	minFixed = -math.MaxInt64

	// Both parts at or below this bound convert to float64 without rounding.
	maxExactFloat = 1 << 53
)

var (
	big1 = new(big.Int).SetInt64(1)

	maxBigFixed = new(big.Int).SetInt64(maxFixed)
)

// fitsFixed reports whether b lies inside the fixed width.
func fitsFixed(b *big.Int) bool {
	return b.CmpAbs(maxBigFixed) <= 0
}
