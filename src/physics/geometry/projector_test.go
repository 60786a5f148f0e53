package geometry

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"ratss/src/numeric/rational"
)

func TestPoleOf(t *testing.T) {
	for idx, tc := range []struct {
		p    RealVector
		want Pole
	}{
		{NewRealVector(53, 0.6, -0.8, 0), Pole{Axis: 1, Sign: -1}},
		{NewRealVector(53, 0, 0, 1), Pole{Axis: 2, Sign: 1}},
		{NewRealVector(53, -0.6, 0.6, 0.5291502622129182), Pole{Axis: 0, Sign: -1}},
		{NewRealVector(53, 0.5, 0.5, 0.5, 0.5), Pole{Axis: 0, Sign: 1}},
	} {
		t.Run(fmt.Sprintf("%d/%s", idx, tc.p), func(t *testing.T) {
			require.Equal(t, tc.want, PoleOf(tc.p))
		})
	}
}

var unitPoints = []RationalVector{
	qs(q(2, 3), q(1, 3), q(2, 3)),
	qs(q(-2, 7), q(3, 7), q(-6, 7)),
	qs(q(1, 1), q(0, 1), q(0, 1)),
	qs(q(0, 1), q(0, 1), q(-1, 1)),
	qs(q(3, 5), q(4, 5), q(0, 1)),
	qs(q(3, 5), q(-4, 5)),
	qs(q(1, 2), q(1, 2), q(1, 2), q(1, 2)),
	qs(q(-2, 11), q(6, 11), q(9, 11)),
}

func TestProjectionRoundTrip(t *testing.T) {
	for idx, p := range unitPoints {
		for axis := range p {
			for _, sign := range []int{1, -1} {
				pole := Pole{Axis: axis, Sign: sign}
				t.Run(fmt.Sprintf("%d/%s/%s", idx, p, pole), func(t *testing.T) {
					plane, err := ProjectExact(p, pole)
					if p[axis].Equal(rational.FromInt64(int64(-sign))) {
						require.True(t, errors.Is(err, rational.ErrDomain))
						return
					}
					require.NoError(t, err)
					require.Len(t, plane, len(p)-1)

					back, err := InverseProject(plane, pole)
					require.NoError(t, err)
					require.Empty(t, cmp.Diff(p, back, exact))
				})
			}
		}
	}
}

func TestInverseProjectIsOnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		dim := rng.Intn(4) + 1
		plane := make(RationalVector, dim)
		for j := range plane {
			plane[j] = q(rng.Int63n(1<<40)-1<<39, rng.Int63n(1<<40)+1)
		}
		pole := Pole{Axis: rng.Intn(dim + 1), Sign: 1 - 2*rng.Intn(2)}

		p, err := InverseProject(plane, pole)
		require.NoError(t, err)
		require.Len(t, p, dim+1)
		require.True(t, p.IsOnSphere(), "%s from %s", p, plane)
	}
}

func TestProjectReal(t *testing.T) {
	p := NewRealVector(128, -2.0/7, 3.0/7, -6.0/7)
	plane, pole, err := Project(p, 0)
	require.NoError(t, err)
	require.Equal(t, Pole{Axis: 2, Sign: -1}, pole)
	require.Len(t, plane, 2)
	for _, y := range plane {
		require.True(t, f(y) > -1 && f(y) < 1)
		require.Equal(t, uint(128), y.Prec())
	}

	back, err := InverseProjectReal(plane, pole, 0)
	require.NoError(t, err)
	for i := range p {
		require.InDelta(t, f(p[i]), f(back[i]), tolerance)
	}

	// the exact projection of the snapped point agrees with the real one
	ex, err := ProjectExact(qs(q(-2, 7), q(3, 7), q(-6, 7)), pole)
	require.NoError(t, err)
	for i := range ex {
		require.InDelta(t, ex[i].Float64(), f(plane[i]), tolerance)
	}
}

func TestProjectInvalid(t *testing.T) {
	p := NewRealVector(53, 0, 0, -1)

	_, err := ProjectWith(p, Pole{Axis: 2, Sign: 1}, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = ProjectWith(p, Pole{Axis: 3, Sign: 1}, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = ProjectWith(p, Pole{Axis: 0, Sign: 0}, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = ProjectWith(NewRealVector(53, 1), Pole{Axis: 0, Sign: 1}, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = InverseProject(qs(q(1, 2)), Pole{Axis: 2, Sign: 1})
	require.True(t, errors.Is(err, rational.ErrDomain))

	_, err = InverseProjectReal(RealVector{}, Pole{Axis: 0, Sign: 1}, 0)
	require.True(t, errors.Is(err, rational.ErrDomain))
}
