package geometry

import (
	"math/big"
	"strings"
)

// PointRational is a point in homogeneous form: integer coordinates over a
// single positive denominator.
type PointRational struct {
	Coords      []*big.Int
	Denominator *big.Int
}

// Homogeneous brings every coordinate of v over the least common denominator.
func (v RationalVector) Homogeneous() PointRational {
	lcm := big.NewInt(1)
	g := new(big.Int)
	for _, x := range v {
		d := x.Denominator().BigInt()
		g.GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, d.Quo(d, g))
	}

	coords := make([]*big.Int, len(v))
	for i, x := range v {
		scale := new(big.Int).Quo(lcm, x.Denominator().BigInt())
		coords[i] = scale.Mul(scale, x.Numerator().BigInt())
	}
	return PointRational{Coords: coords, Denominator: lcm}
}

// String formats p as the coordinates followed by the denominator.
func (p PointRational) String() string {
	parts := make([]string, 0, len(p.Coords)+1)
	for _, c := range p.Coords {
		parts = append(parts, c.String())
	}
	parts = append(parts, p.Denominator.String())
	return strings.Join(parts, " ")
}
