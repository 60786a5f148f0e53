// Package render writes snapped points as text or GeoJSON.
package render

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"ratss/src/physics/geometry"
)

type Format int

const (
	// Rational writes "n/d" per coordinate.
	Rational Format = iota
	// SplitRational writes numerator and denominator as separate fields.
	SplitRational
	// Float writes the nearest float64 of each coordinate.
	Float
	// Homogeneous writes integer coordinates followed by their common
	// denominator.
	Homogeneous
	// GeoJSON writes a FeatureCollection of points with the exact
	// coordinates as properties.
	GeoJSON
)

var formatNames = map[Format]string{
	Rational:      "rational",
	SplitRational: "split",
	Float:         "float",
	Homogeneous:   "homogeneous",
	GeoJSON:       "geojson",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat accepts the format names and their short aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rational", "rat", "r":
		return Rational, nil
	case "split", "splitrational", "sr", "s":
		return SplitRational, nil
	case "float", "double", "d", "f":
		return Float, nil
	case "homogeneous", "h":
		return Homogeneous, nil
	case "geojson", "json":
		return GeoJSON, nil
	}
	return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Writer receives snapped points one by one. Output may be buffered until
// Flush.
type Writer interface {
	WritePoint(p geometry.RationalVector) error
	Flush() error
}

// NewWriter returns a Writer producing f on w.
func NewWriter(w io.Writer, f Format) (Writer, error) {
	switch f {
	case Rational, SplitRational, Float, Homogeneous:
		return &textWriter{w: bufio.NewWriter(w), format: f}, nil
	case GeoJSON:
		return &geoJSONWriter{w: w, fc: geojson.NewFeatureCollection()}, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%d", int(f))
}

type textWriter struct {
	w      *bufio.Writer
	format Format
}

func (t *textWriter) WritePoint(p geometry.RationalVector) error {
	var fields []string
	switch t.format {
	case Rational:
		for _, x := range p {
			fields = append(fields, x.String())
		}
	case SplitRational:
		for _, x := range p {
			fields = append(fields, x.Numerator().String(), x.Denominator().String())
		}
	case Float:
		for _, x := range p {
			fields = append(fields, strconv.FormatFloat(x.Float64(), 'g', -1, 64))
		}
	case Homogeneous:
		fields = append(fields, p.Homogeneous().String())
	}
	if _, err := t.w.WriteString(strings.Join(fields, " ")); err != nil {
		return errors.Wrap(err, "writing point")
	}
	return errors.Wrap(t.w.WriteByte('\n'), "writing point")
}

func (t *textWriter) Flush() error {
	return errors.Wrap(t.w.Flush(), "flushing output")
}

type geoJSONWriter struct {
	w  io.Writer
	fc *geojson.FeatureCollection
}

func (g *geoJSONWriter) WritePoint(p geometry.RationalVector) error {
	pt, err := p.S2Point()
	if err != nil {
		return dimensionError(GeoJSON, p.Dim())
	}
	ll := s2.LatLngFromPoint(pt)

	coords := make([]string, len(p))
	for i, x := range p {
		coords[i] = x.String()
	}
	f := geojson.NewPointFeature([]float64{ll.Lng.Degrees(), ll.Lat.Degrees()})
	f.SetProperty("index", len(g.fc.Features))
	f.SetProperty("coordinates", coords)
	g.fc.AddFeature(f)
	return nil
}

func (g *geoJSONWriter) Flush() error {
	data, err := g.fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding geojson")
	}
	if _, err := g.w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "writing geojson")
	}
	g.fc = geojson.NewFeatureCollection()
	return nil
}
