package parse

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"ratss/src/physics/geometry"
)

// geoJSONObject holds the members of any GeoJSON object that matter here.
type geoJSONObject struct {
	Type     string            `json:"type"`
	Geometry json.RawMessage   `json:"geometry"`
	Features []json.RawMessage `json:"features"`
}

// ReadGeoJSON returns the vertices of every geometry in a GeoJSON geometry,
// Feature or FeatureCollection as unit vectors at prec bits. Positions are
// longitude, latitude in degrees.
func ReadGeoJSON(r io.Reader, prec uint) ([]geometry.RealVector, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading geojson")
	}
	var out []geometry.RealVector
	err = decodeObject(data, prec, func(p geometry.RealVector) {
		out = append(out, p)
	})
	return out, err
}

func decodeObject(data []byte, prec uint, emit func(geometry.RealVector)) error {
	var obj geoJSONObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "decoding geojson")
	}
	switch obj.Type {
	case "FeatureCollection":
		for i, f := range obj.Features {
			if err := decodeObject(f, prec, emit); err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
		}
		return nil
	case "Feature":
		if len(obj.Geometry) == 0 || string(obj.Geometry) == "null" {
			return nil
		}
		return decodeGeometry(obj.Geometry, prec, emit)
	}
	return decodeGeometry(data, prec, emit)
}

func decodeGeometry(data []byte, prec uint, emit func(geometry.RealVector)) error {
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return errors.Wrap(err, "decoding geojson geometry")
	}
	return emitVertices(g, prec, emit)
}

func emitVertices(g geom.T, prec uint, emit func(geometry.RealVector)) error {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, sub := range gc.Geoms() {
			if err := emitVertices(sub, prec, emit); err != nil {
				return err
			}
		}
		return nil
	}
	stride := g.Stride()
	if stride < 2 {
		return errors.Errorf("geometry with %d coordinates per position", stride)
	}
	flat := g.FlatCoords()
	for i := 0; i+stride <= len(flat); i += stride {
		lon, lat := big.NewFloat(flat[i]), big.NewFloat(flat[i+1])
		emit(geometry.CartesianFromGeographic(lat, lon, prec))
	}
	return nil
}
