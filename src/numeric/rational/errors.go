package rational

import (
	"github.com/pkg/errors"
)

var (
	// ErrDomain is returned when an operation has no value in its domain: a
	// zero denominator, an inverted interval, a non-finite input.
	ErrDomain = errors.New("domain error")

	// ErrSyntax is returned by Parse for malformed text.
	ErrSyntax = errors.New("invalid rational syntax")
)

func errZeroDenominator(num interface{}) error {
	return errors.Wrapf(ErrDomain, "denominator is not allowed to be zero (numerator %v)", num)
}
