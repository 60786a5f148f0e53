// Package geometry converts points on the unit sphere between geographic,
// spherical and Cartesian coordinates and maps them to and from the
// stereographic plane, both on big.Float values and exactly on rationals.
package geometry

import (
	"math/big"

	"github.com/pkg/errors"

	"ratss/src/numeric/bigmath"
	"ratss/src/numeric/rational"
)

// guard is the number of extra bits carried by intermediate results.
const guard = 32

func outPrec(prec uint, xs ...*big.Float) uint {
	if prec == 0 {
		return bigmath.MaxPrec(xs...)
	}
	return prec
}

// workPrec is the precision intermediates are computed at: guard bits above
// both the output and the inputs.
func workPrec(prec uint, xs ...*big.Float) uint {
	return max(prec, bigmath.MaxPrec(xs...)) + guard
}

func round(x *big.Float, prec uint) *big.Float {
	return bigmath.NewFloat(prec).Set(x)
}

func mulInt(x *big.Float, v int64) *big.Float {
	return x.Mul(x, bigmath.FromInt64(v, x.Prec()))
}

func quoInt(x *big.Float, v int64) *big.Float {
	return x.Quo(x, bigmath.FromInt64(v, x.Prec()))
}

// SphericalFromGeographic converts latitude and longitude in degrees to the
// polar angle theta in [0, π] and the azimuth phi in [0, 2π). A prec of 0
// selects the larger input precision.
func SphericalFromGeographic(lat, lon *big.Float, prec uint) (theta, phi *big.Float) {
	prec = outPrec(prec, lat, lon)
	wp := workPrec(prec, lat, lon)
	pi := bigmath.Pi(wp)

	theta = bigmath.FromInt64(90, wp)
	theta.Sub(theta, lat)
	theta.Mul(theta, pi)
	quoInt(theta, 180)

	phi = bigmath.NewFloat(wp).Set(lon)
	if lon.Sign() < 0 {
		phi.Add(phi, bigmath.FromInt64(360, wp))
	}
	phi.Mul(phi, pi)
	quoInt(phi, 180)

	return round(theta, prec), round(phi, prec)
}

// GeographicFromSpherical converts the polar angle and azimuth in radians to
// latitude and longitude in degrees. Azimuths above π map to negative
// longitudes.
func GeographicFromSpherical(theta, phi *big.Float, prec uint) (lat, lon *big.Float) {
	prec = outPrec(prec, theta, phi)
	wp := workPrec(prec, theta, phi)
	pi := bigmath.Pi(wp)

	lat = bigmath.NewFloat(wp).Quo(theta, pi)
	mulInt(lat, 180)
	lat.Sub(bigmath.FromInt64(90, wp), lat)

	lon = bigmath.NewFloat(wp).Quo(phi, pi)
	mulInt(lon, 180)
	if phi.Cmp(pi) > 0 {
		lon.Sub(lon, bigmath.FromInt64(360, wp))
	}
	return round(lat, prec), round(lon, prec)
}

// CartesianFromSpherical returns (sinθ·cosφ, sinθ·sinφ, cosθ).
func CartesianFromSpherical(theta, phi *big.Float, prec uint) RealVector {
	prec = outPrec(prec, theta, phi)
	wp := workPrec(prec, theta, phi)

	sinTheta, cosTheta := bigmath.SinCos(theta, wp)
	sinPhi, cosPhi := bigmath.SinCos(phi, wp)

	x := bigmath.NewFloat(wp).Mul(sinTheta, cosPhi)
	y := bigmath.NewFloat(wp).Mul(sinTheta, sinPhi)
	return RealVector{round(x, prec), round(y, prec), round(cosTheta, prec)}
}

// SphericalFromCartesian returns theta = acos(z) and the azimuth of (x, y) in
// (-π, π]. The azimuth of a point on the z axis is undefined.
func SphericalFromCartesian(p RealVector, prec uint) (theta, phi *big.Float, err error) {
	if len(p) != 3 {
		return nil, nil, errors.Wrapf(rational.ErrDomain, "spherical coordinates need 3 dimensions, got %d", len(p))
	}
	x, y, z := p[0], p[1], p[2]
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, nil, errors.Wrapf(rational.ErrDomain, "azimuth of %s is undefined", p)
	}
	prec = outPrec(prec, p...)
	wp := workPrec(prec, p...)

	theta, err = bigmath.Acos(z, wp)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "polar angle of %s", p)
	}

	if x.Sign() == 0 {
		phi = bigmath.Pi(wp)
		phi.SetMantExp(phi, -1)
		if y.Sign() < 0 {
			phi.Neg(phi)
		}
		return round(theta, prec), round(phi, prec), nil
	}

	phi = bigmath.Atan(bigmath.NewFloat(wp).Quo(y, x), wp)
	if x.Sign() < 0 {
		if y.Sign() < 0 {
			phi.Sub(phi, bigmath.Pi(wp))
		} else {
			phi.Add(phi, bigmath.Pi(wp))
		}
	}
	return round(theta, prec), round(phi, prec), nil
}

// CartesianFromGeographic returns the unit vector at latitude lat and
// longitude lon, both in degrees.
func CartesianFromGeographic(lat, lon *big.Float, prec uint) RealVector {
	prec = outPrec(prec, lat, lon)
	wp := workPrec(prec, lat, lon)
	pi := bigmath.Pi(wp)

	latRad := quoInt(bigmath.NewFloat(wp).Mul(lat, pi), 180)
	lonRad := quoInt(bigmath.NewFloat(wp).Mul(lon, pi), 180)
	sinLat, cosLat := bigmath.SinCos(latRad, wp)
	sinLon, cosLon := bigmath.SinCos(lonRad, wp)

	x := bigmath.NewFloat(wp).Mul(cosLon, cosLat)
	y := bigmath.NewFloat(wp).Mul(sinLon, cosLat)
	return RealVector{round(x, prec), round(y, prec), round(sinLat, prec)}
}

// GeographicFromCartesian returns latitude and longitude in degrees.
func GeographicFromCartesian(p RealVector, prec uint) (lat, lon *big.Float, err error) {
	prec = outPrec(prec, p...)
	wp := workPrec(prec, p...)
	theta, phi, err := SphericalFromCartesian(p, wp)
	if err != nil {
		return nil, nil, err
	}
	lat, lon = GeographicFromSpherical(theta, phi, wp)
	return round(lat, prec), round(lon, prec), nil
}

// Normalize scales v to unit Euclidean length. A prec of 0 keeps the
// precision of v.
func Normalize(v RealVector, prec uint) (RealVector, error) {
	prec = outPrec(prec, v...)
	wp := workPrec(prec, v...)

	norm := v.squaredNorm(wp)
	if norm.Sign() == 0 {
		return nil, errors.Wrap(rational.ErrDomain, "cannot normalize the zero vector")
	}
	norm, err := bigmath.Sqrt(norm, wp)
	if err != nil {
		return nil, err
	}

	out := make(RealVector, len(v))
	for i, x := range v {
		out[i] = round(bigmath.NewFloat(wp).Quo(x, norm), prec)
	}
	return out, nil
}
