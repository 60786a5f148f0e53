package snapping

import (
	"strings"

	"github.com/pkg/errors"

	"ratss/src/numeric/snap"
)

// Flags selects where coordinates are snapped and how.
type Flags uint

const (
	// Sphere snaps the Cartesian coordinates directly.
	Sphere Flags = 1 << iota
	// Plane snaps the stereographic projection and lifts it back exactly.
	Plane
	// Cast converts each rounded coordinate verbatim (fixed point).
	Cast
	// ContinuedFraction snaps each coordinate to its simplest convergent.
	ContinuedFraction
	// Normalize rescales the input to unit length first.
	Normalize
)

const (
	domainMask = Sphere | Plane
	methodMask = Cast | ContinuedFraction
	allFlags   = domainMask | methodMask | Normalize
)

// Resolve fills in the defaults, Plane and Cast, and rejects masks that ask
// for both choices of the same kind.
func (f Flags) Resolve() (Flags, error) {
	if f&^allFlags != 0 {
		return 0, errors.Wrapf(ErrInvalidFlags, "unknown bits %#x", uint(f&^allFlags))
	}
	switch f & domainMask {
	case domainMask:
		return 0, errors.Wrap(ErrInvalidFlags, "both sphere and plane requested")
	case 0:
		f |= Plane
	}
	switch f & methodMask {
	case methodMask:
		return 0, errors.Wrap(ErrInvalidFlags, "both cast and continued fraction requested")
	case 0:
		f |= Cast
	}
	return f, nil
}

func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// Method returns the snap method of a resolved mask.
func (f Flags) Method() snap.Method {
	if f.Has(ContinuedFraction) {
		return snap.MethodContinuedFraction
	}
	return snap.MethodCast
}

func (f Flags) String() string {
	var parts []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{Sphere, "sphere"},
		{Plane, "plane"},
		{Cast, "cast"},
		{ContinuedFraction, "cf"},
		{Normalize, "normalize"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseDomain maps "p", "plane", "s" and "sphere" to a domain flag.
func ParseDomain(s string) (Flags, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "plane":
		return Plane, nil
	case "s", "sphere":
		return Sphere, nil
	}
	return 0, errors.Wrapf(ErrInvalidFlags, "unknown snap domain %q", s)
}

// MethodFlag maps a snap method to its flag.
func MethodFlag(m snap.Method) Flags {
	if m == snap.MethodContinuedFraction {
		return ContinuedFraction
	}
	return Cast
}
