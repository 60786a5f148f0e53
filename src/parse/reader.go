// Package parse reads points from text and GeoJSON input.
package parse

import (
	"bufio"
	"io"
	"math/big"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"ratss/src/physics/geometry"
)

// ErrMalformed marks a line that does not hold a point. Reading may go on
// with the next line.
var ErrMalformed = errors.New("malformed point")

// Reader reads one point per line. Coordinates are separated by blanks or
// commas; empty lines and lines starting with '#' are skipped.
type Reader struct {
	// Precision of the parsed coordinates in bits.
	Precision uint
	// Geographic lines hold "lat lon" in degrees, converted to a unit
	// vector.
	Geographic bool

	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader, prec uint) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Reader{Precision: prec, sc: sc}
}

// Line is the number of the line last read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next point or io.EOF. A malformed line returns an error
// naming it; reading can continue with the following line.
func (r *Reader) Next() (geometry.RealVector, error) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := r.parseLine(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", r.line)
		}
		return p, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}
	return nil, io.EOF
}

func (r *Reader) parseLine(text string) (geometry.RealVector, error) {
	fields := strings.FieldsFunc(text, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
	v := make(geometry.RealVector, len(fields))
	for i, s := range fields {
		x, _, err := big.ParseFloat(s, 10, r.Precision, big.ToNearestEven)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "coordinate %q: %v", s, err)
		}
		v[i] = x
	}
	if !r.Geographic {
		return v, nil
	}
	if len(v) != 2 {
		return nil, errors.Wrapf(ErrMalformed, "geographic points need lat and lon, got %d fields", len(v))
	}
	return geometry.CartesianFromGeographic(v[0], v[1], r.Precision), nil
}

// ReadAll reads every remaining point. It stops at the first error.
func (r *Reader) ReadAll() ([]geometry.RealVector, error) {
	var out []geometry.RealVector
	for {
		p, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}
