package snapping

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"ratss/src/numeric/bigmath"
	"ratss/src/numeric/rational"
	"ratss/src/physics/geometry"
)

func randomPoint(rng *rand.Rand, dim int, prec uint) geometry.RealVector {
	v := make(geometry.RealVector, dim)
	for i := range v {
		v[i] = bigmath.NewFloat(prec).SetFloat64(rng.NormFloat64())
	}
	p, err := geometry.Normalize(v, prec)
	if err != nil {
		panic(err)
	}
	return p
}

func TestFlagsResolve(t *testing.T) {
	for idx, tc := range []struct {
		in      Flags
		want    Flags
		invalid bool
	}{
		{0, Plane | Cast, false},
		{ContinuedFraction, Plane | ContinuedFraction, false},
		{Sphere, Sphere | Cast, false},
		{Sphere | ContinuedFraction | Normalize, Sphere | ContinuedFraction | Normalize, false},
		{Sphere | Plane, 0, true},
		{Cast | ContinuedFraction, 0, true},
		{1 << 10, 0, true},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.in), func(t *testing.T) {
			got, err := tc.in.Resolve()
			if tc.invalid {
				require.True(t, errors.Is(err, ErrInvalidFlags), "%v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPlaneSnapIsOnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, flags := range []Flags{Plane | Cast, Plane | ContinuedFraction} {
		for _, prec := range []uint{4, 8, 16, 32, 53, 64, 128} {
			for _, dim := range []int{2, 3, 4} {
				t.Run(fmt.Sprintf("%s/%d/%d", flags, prec, dim), func(t *testing.T) {
					for i := 0; i < 20; i++ {
						p := randomPoint(rng, dim, 128)
						got, err := Snap(p, prec, flags)
						require.NoError(t, err)
						require.Len(t, got, dim)
						require.True(t, got.IsOnSphere(), "%s -> %s", p, got)
					}
				})
			}
		}
	}
}

func TestSnapNormalize(t *testing.T) {
	p := geometry.NewRealVector(53, 3, -1, 7)
	got, err := Snap(p, 32, Plane|ContinuedFraction|Normalize)
	require.NoError(t, err)
	require.True(t, got.IsOnSphere())
	require.InDelta(t, 0.9113223768657671, got[2].Float64(), 1e-8)

	_, err = Snap(geometry.NewRealVector(53, 0, 0, 0), 32, Normalize)
	require.True(t, errors.Is(err, rational.ErrDomain))
}

func TestQuarterPiScenario(t *testing.T) {
	theta := bigmath.Pi(64)
	theta.SetMantExp(theta, -2)
	p := geometry.CartesianFromSpherical(theta, bigmath.NewFloat(64), 64)

	cf, err := Snap(p, 32, Plane|ContinuedFraction)
	require.NoError(t, err)
	require.True(t, cf.IsOnSphere())
	require.InDelta(t, 0.70710678, cf[0].Float64(), 1e-8)
	require.InDelta(t, 0.70710678, cf[2].Float64(), 1e-8)
	require.True(t, cf[1].IsZero())

	cast, err := Snap(p, 32, Plane|Cast)
	require.NoError(t, err)
	require.True(t, cast.IsOnSphere())

	for i := range cf {
		require.True(t, cf[i].Denominator().Cmp(cast[i].Denominator()) <= 0,
			"component %d: %s has a larger denominator than %s", i, cf[i], cast[i])
	}

	// the same holds for the plane points both lifts start from
	plane, pole, err := geometry.Project(p, 0)
	require.NoError(t, err)
	rounded := plane.Round(32, big.ToZero)
	cfPlane, err := geometry.SnapVector(rounded, ContinuedFraction.Method())
	require.NoError(t, err)
	castPlane, err := geometry.SnapVector(rounded, Cast.Method())
	require.NoError(t, err)
	for i := range cfPlane {
		require.True(t, cfPlane[i].Denominator().Cmp(castPlane[i].Denominator()) <= 0)
	}
	lifted, err := geometry.InverseProject(cfPlane, pole)
	require.NoError(t, err)
	require.True(t, lifted.Equal(cf))
}

func TestSphereDomain(t *testing.T) {
	p := geometry.NewRealVector(53, 0.6, 0.8, 0)

	cf, err := Snap(p, 53, Sphere|ContinuedFraction)
	require.NoError(t, err)
	require.True(t, cf.Equal(geometry.RationalVector{rational.MustNew(3, 5), rational.MustNew(4, 5), {}}))
	require.True(t, cf.IsOnSphere())

	cast, err := Snap(p, 32, Sphere|Cast)
	require.NoError(t, err)
	require.False(t, cast.IsOnSphere())
}

func TestEpsilon(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	eps := EpsilonFromBits(20)
	require.Equal(t, "1/1048576", eps.String())

	for _, flags := range []Flags{Plane, Sphere} {
		for i := 0; i < 20; i++ {
			p := randomPoint(rng, 3, 64)
			got, err := Snapper{Precision: 64, Flags: flags, Epsilon: &eps}.Snap(p)
			require.NoError(t, err)
			if flags == Plane {
				require.True(t, got.IsOnSphere())
			}
			for j := range p {
				want, _ := p[j].Float64()
				require.InDelta(t, want, got[j].Float64(), 1e-5)
			}
		}
	}
}

func TestSnapInvalidInput(t *testing.T) {
	_, err := Snap(geometry.NewRealVector(53, 1), 32, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = Snap(geometry.RealVector{big.NewFloat(1), new(big.Float).SetInf(false)}, 32, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = Snap(geometry.NewRealVector(53, 0.6, 0.8), 32, Plane|Sphere)
	require.True(t, errors.Is(err, ErrInvalidFlags))
}

func TestLadder(t *testing.T) {
	require.Equal(t, []uint{32, 64, 96, 128}, DefaultLadder.Precisions())
	require.Equal(t, []uint{8, 12}, Ladder{Start: 8, Step: 4, MaxAttempts: 2}.Precisions())
	require.Empty(t, Ladder{}.Precisions())
}

func TestSnapEscalating(t *testing.T) {
	exact := geometry.NewRealVector(53, 0.6, 0.8, 0)
	// 0.6 and 0.8 truncate to their nearest 6 bit values, so 3/5 and 4/5
	// are the convergents found there.
	out, prec, err := SnapEscalating(exact, Ladder{Start: 6, Step: 4, MaxAttempts: 3}, Sphere|ContinuedFraction)
	require.NoError(t, err)
	require.True(t, out.IsOnSphere())
	require.Equal(t, uint(6), prec)

	rng := rand.New(rand.NewSource(9))
	p := randomPoint(rng, 3, 128)
	out, prec, err = SnapEscalating(p, DefaultLadder, Plane)
	require.NoError(t, err)
	require.Equal(t, uint(DefaultPrecision), prec)
	require.True(t, out.IsOnSphere())

	_, _, err = SnapEscalating(p, Ladder{Start: 16, Step: 16, MaxAttempts: 3}, Sphere|Cast)
	require.True(t, errors.Is(err, ErrPrecisionInsufficient), "%v", err)
}

func TestSnapAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := make([]geometry.RealVector, 64)
	for i := range points {
		points[i] = randomPoint(rng, 3, 64)
	}
	points[17] = geometry.NewRealVector(53, 0, 0, 0)

	s := Snapper{Precision: 24, Flags: Plane | ContinuedFraction | Normalize}
	results, err := SnapAll(context.Background(), points, s, 4)
	require.NoError(t, err)
	require.Len(t, results, len(points))
	for i, r := range results {
		require.Equal(t, i, r.Index)
		if i == 17 {
			require.True(t, errors.Is(r.Err, rational.ErrDomain))
			continue
		}
		require.NoError(t, r.Err)
		require.True(t, r.Point.IsOnSphere())

		want, err := s.Snap(points[i])
		require.NoError(t, err)
		require.True(t, want.Equal(r.Point))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SnapAll(ctx, points, s, 0)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestSnapAllEscalating(t *testing.T) {
	points := []geometry.RealVector{
		geometry.NewRealVector(53, 0.6, 0.8, 0),
		geometry.NewRealVector(53, 0.28, 0.96),
	}
	e := Escalating{
		Snapper: Snapper{Flags: Sphere | ContinuedFraction},
		Ladder:  Ladder{Start: 6, Step: 4, MaxAttempts: 3},
	}
	results, err := SnapAll(context.Background(), points, e, 2)
	require.NoError(t, err)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.True(t, r.Point.IsOnSphere(), "%s", r.Point)
	}
	require.True(t, results[0].Point.Equal(geometry.RationalVector{
		rational.MustNew(3, 5), rational.MustNew(4, 5), rational.FromInt64(0),
	}))
	// 0.28 needs 10 bits before 7/25 is found.
	require.True(t, results[1].Point.Equal(geometry.RationalVector{
		rational.MustNew(7, 25), rational.MustNew(24, 25),
	}))
}
