package rational

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"
	"time"
)

// masks contains a pre-calculated set of masks for use when generating
// random operands. It's used to ensure we generate an even distribution of
// bit sizes on both sides of the fixed width.
var masks [96]*big.Int

func init() {
	for i := 0; i < len(masks); i++ {
		masks[i] = new(big.Int).Sub(new(big.Int).Lsh(big1, uint(i+1)), big1)
	}
}

type fuzzOp string

// fuzzDefaultIterations should be configured to guarantee all of the operand
// schemes execute a good number of times for each op in a reasonable time.
const fuzzDefaultIterations = 20000

const (
	fuzzAdd     fuzzOp = "add"
	fuzzCmp     fuzzOp = "cmp"
	fuzzFloat64 fuzzOp = "float64"
	fuzzMul     fuzzOp = "mul"
	fuzzNeg     fuzzOp = "neg"
	fuzzQuo     fuzzOp = "quo"
	fuzzString  fuzzOp = "string"
	fuzzSub     fuzzOp = "sub"
)

// Please keep this list alphabetised.
var allFuzzOps = []fuzzOp{
	fuzzAdd,
	fuzzCmp,
	fuzzFloat64,
	fuzzMul,
	fuzzNeg,
	fuzzQuo,
	fuzzString,
	fuzzSub,
}

// operandScheme picks the bit size of a numerator or denominator.
type operandScheme func(rng *rand.Rand) int

var operandSchemes = []operandScheme{
	func(rng *rand.Rand) int { return rng.Intn(31) + 1 },  // always fast path
	func(rng *rand.Rand) int { return rng.Intn(8) + 56 },  // around the fixed width
	func(rng *rand.Rand) int { return rng.Intn(96) + 1 },  // anything
	func(rng *rand.Rand) int { return rng.Intn(32) + 64 }, // always extended
}

type rando struct {
	rng *rand.Rand
	cur int
}

func (r *rando) bigOf(bits int, signed bool) *big.Int {
	v := new(big.Int).Rand(r.rng, masks[bits-1])
	if signed && r.rng.Intn(2) == 1 {
		v.Neg(v)
	}
	return v
}

// Rational returns a random operand and the big.Rat it should equal.
func (r *rando) Rational() (Rational, *big.Rat) {
	scheme := operandSchemes[r.cur%len(operandSchemes)]
	r.cur++

	num := r.bigOf(scheme(r.rng), true)
	den := r.bigOf(scheme(r.rng), false)
	if den.Sign() == 0 {
		den.SetInt64(1)
	}
	q, err := FromBigInts(num, den)
	if err != nil {
		panic(err)
	}
	return q, new(big.Rat).SetFrac(num, den)
}

func checkEqualRational(op fuzzOp, got Rational, want *big.Rat) error {
	if got.BigRat().Cmp(want) != 0 {
		return fmt.Errorf("%s: rational(%s) != big(%s)", op, got, want)
	}
	if got.IsExtended() == (fitsFixed(want.Num()) && fitsFixed(want.Denom())) {
		return fmt.Errorf("%s: %s has the wrong representation (extended=%v)", op, got, got.IsExtended())
	}
	return nil
}

func TestFuzz(t *testing.T) {
	seed := time.Now().UnixMilli()
	source := &rando{rng: rand.New(rand.NewSource(seed))}
	failures := make(map[fuzzOp]int)

	for _, op := range allFuzzOps {
		for i := 0; i < fuzzDefaultIterations; i++ {
			x, bx := source.Rational()
			y, by := source.Rational()

			var err error
			switch op {
			case fuzzAdd:
				err = checkEqualRational(op, x.Add(y), new(big.Rat).Add(bx, by))
			case fuzzSub:
				err = checkEqualRational(op, x.Sub(y), new(big.Rat).Sub(bx, by))
			case fuzzMul:
				err = checkEqualRational(op, x.Mul(y), new(big.Rat).Mul(bx, by))
			case fuzzQuo:
				if y.IsZero() {
					continue
				}
				var got Rational
				got, err = x.Quo(y)
				if err == nil {
					err = checkEqualRational(op, got, new(big.Rat).Quo(bx, by))
				}
			case fuzzNeg:
				err = checkEqualRational(op, x.Neg(), new(big.Rat).Neg(bx))
			case fuzzCmp:
				if got, want := x.Cmp(y), bx.Cmp(by); got != want {
					err = fmt.Errorf("cmp: %s ? %s = %d, big says %d", x, y, got, want)
				}
			case fuzzString:
				if got, want := x.String(), bx.String(); got != want {
					err = fmt.Errorf("string: %q != big(%q)", got, want)
				}
			case fuzzFloat64:
				if got, want := x.Float64(), mustFloat64(bx); got != want {
					err = fmt.Errorf("float64: %s -> %v, big says %v", x, got, want)
				}
			default:
				panic(fmt.Errorf("unsupported op %q", op))
			}

			if err != nil {
				failures[op]++
				t.Logf("seed %d: %v", seed, err)
			}
		}
	}

	for op, cnt := range failures {
		t.Errorf("op %s: %d/%d failed", op, cnt, fuzzDefaultIterations)
	}
}

func mustFloat64(q *big.Rat) float64 {
	f, _ := q.Float64()
	return f
}
