package parse

import (
	"io"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	in := `# x y z
0.6 0.8 0

-0.2857142857142857, 0.42857142857142855, -0.8571428571428571
1 zero 0
0.5 0.5 0.5 0.5
`
	r := NewReader(strings.NewReader(in), 80)

	p, err := r.Next()
	require.NoError(t, err)
	require.Len(t, p, 3)
	require.Equal(t, uint(80), p[0].Prec())
	require.Equal(t, 2, r.Line())
	require.Equal(t, "0.6", p[0].Text('g', 10))

	p, err = r.Next()
	require.NoError(t, err)
	require.Len(t, p, 3)
	require.Equal(t, 4, r.Line())

	_, err = r.Next()
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 5")
	require.True(t, errors.Is(err, ErrMalformed))

	p, err = r.Next()
	require.NoError(t, err)
	require.Len(t, p, 4)

	_, err = r.Next()
	require.Equal(t, io.EOF, err)
}

func TestReaderGeographic(t *testing.T) {
	r := NewReader(strings.NewReader("48.1 11.6\n-33.9 151.2\n10\n"), 64)
	r.Geographic = true

	points, err := r.ReadAll()
	require.Error(t, err)
	require.Len(t, points, 2)

	want := s2.PointFromLatLng(s2.LatLngFromDegrees(48.1, 11.6))
	got, err := points[0].S2Point()
	require.NoError(t, err)
	require.True(t, got.ApproxEqual(want))
}

func TestReadGeoJSON(t *testing.T) {
	for idx, tc := range []struct {
		in   string
		want []s2.LatLng
	}{
		{
			`{"type":"Point","coordinates":[11.6,48.1]}`,
			[]s2.LatLng{s2.LatLngFromDegrees(48.1, 11.6)},
		},
		{
			`{"type":"MultiPoint","coordinates":[[0,0],[90,0],[0,90]]}`,
			[]s2.LatLng{s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(0, 90), s2.LatLngFromDegrees(90, 0)},
		},
		{
			`{"type":"Feature","properties":{"name":"a"},"geometry":{"type":"Point","coordinates":[-70,10]}}`,
			[]s2.LatLng{s2.LatLngFromDegrees(10, -70)},
		},
		{
			`{"type":"FeatureCollection","features":[
				{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}},
				{"type":"Feature","properties":{},"geometry":null},
				{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[3,4],[5,6]]}}
			]}`,
			[]s2.LatLng{s2.LatLngFromDegrees(2, 1), s2.LatLngFromDegrees(4, 3), s2.LatLngFromDegrees(6, 5)},
		},
	} {
		t.Run(strings.Fields(tc.in)[0], func(t *testing.T) {
			points, err := ReadGeoJSON(strings.NewReader(tc.in), 64)
			require.NoError(t, err, "case %d", idx)
			require.Len(t, points, len(tc.want))
			for i, ll := range tc.want {
				got, err := points[i].S2Point()
				require.NoError(t, err)
				require.True(t, got.ApproxEqual(s2.PointFromLatLng(ll)), "point %d: %v", i, s2.LatLngFromPoint(got))
			}
		})
	}

	_, err := ReadGeoJSON(strings.NewReader(`{"type":"Point","coordinates":"x"}`), 64)
	require.Error(t, err)
}
