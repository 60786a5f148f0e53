// Package gen generates random points uniformly distributed on the sphere.
package gen

import (
	"math"
	"math/big"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"ratss/src/physics/geometry"
)

// Points returns n unit vectors drawn from the uniform distribution on the
// sphere. The same seed gives the same points.
func Points(n int, seed int64) []s2.Point {
	rng := rand.New(rand.NewSource(seed))
	out := make([]s2.Point, 0, n)
	for len(out) < n {
		v := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if v.Norm2() == 0 {
			continue
		}
		out = append(out, s2.Point{Vector: v.Normalize()})
	}
	return out
}

// Spherical is a polar angle in [0, π] and an azimuth in [0, 2π).
type Spherical struct {
	Theta, Phi float64
}

// SphericalFromPoint converts p to polar angle and azimuth.
func SphericalFromPoint(p s2.Point) Spherical {
	ll := s2.LatLngFromPoint(p)
	phi := ll.Lng.Radians()
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return Spherical{Theta: math.Pi/2 - ll.Lat.Radians(), Phi: phi}
}

// SphericalPoints is Points in spherical coordinates.
func SphericalPoints(n int, seed int64) []Spherical {
	pts := Points(n, seed)
	out := make([]Spherical, len(pts))
	for i, p := range pts {
		out[i] = SphericalFromPoint(p)
	}
	return out
}

// Cartesian returns s as a unit vector; the angles are taken at prec bits.
func (s Spherical) Cartesian(prec uint) geometry.RealVector {
	theta := new(big.Float).SetPrec(prec).SetFloat64(s.Theta)
	phi := new(big.Float).SetPrec(prec).SetFloat64(s.Phi)
	return geometry.CartesianFromSpherical(theta, phi, prec)
}

// RealVectors returns n random unit vectors at prec bits.
func RealVectors(n int, seed int64, prec uint) []geometry.RealVector {
	sph := SphericalPoints(n, seed)
	out := make([]geometry.RealVector, len(sph))
	for i, s := range sph {
		out[i] = s.Cartesian(prec)
	}
	return out
}
