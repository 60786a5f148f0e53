// Package stats collects bit sizes of snapped coordinates.
package stats

import (
	"fmt"
	"strings"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"

	"ratss/src/numeric/rational"
)

const (
	// maxBits is the largest bit length recorded; longer values are clipped.
	maxBits = 1 << 20
	sigFigs = 3
)

// BitCount accumulates the bit lengths of numerators and denominators. It is
// not safe for concurrent use.
type BitCount struct {
	num *hdrhistogram.Histogram
	den *hdrhistogram.Histogram
}

func NewBitCount() *BitCount {
	return &BitCount{
		num: hdrhistogram.New(0, maxBits, sigFigs),
		den: hdrhistogram.New(0, maxBits, sigFigs),
	}
}

func record(h *hdrhistogram.Histogram, v int) {
	if h.RecordValue(int64(v)) != nil {
		_ = h.RecordValue(maxBits)
	}
}

// Update records every value in rs. A RationalVector can be passed with v...
func (b *BitCount) Update(rs ...rational.Rational) {
	for _, r := range rs {
		n, d := r.BitLen()
		record(b.num, n)
		record(b.den, d)
	}
}

// Merge adds the values recorded by o.
func (b *BitCount) Merge(o *BitCount) {
	b.num.Merge(o.num)
	b.den.Merge(o.den)
}

// Count is the number of values recorded.
func (b *BitCount) Count() int64 {
	return b.num.TotalCount()
}

// Summary describes the distribution of one part of the recorded values.
type Summary struct {
	Max  int64
	Mean float64
	P50  int64
	P99  int64
}

func summarize(h *hdrhistogram.Histogram) Summary {
	if h.TotalCount() == 0 {
		return Summary{}
	}
	return Summary{
		Max:  h.Max(),
		Mean: h.Mean(),
		P50:  h.ValueAtQuantile(50),
		P99:  h.ValueAtQuantile(99),
	}
}

// Numerator summarizes the numerator bit lengths.
func (b *BitCount) Numerator() Summary {
	return summarize(b.num)
}

// Denominator summarizes the denominator bit lengths.
func (b *BitCount) Denominator() Summary {
	return summarize(b.den)
}

func (b *BitCount) String() string {
	var sb strings.Builder
	num, den := b.Numerator(), b.Denominator()
	fmt.Fprintf(&sb, "Values: %s\n", humanize.Comma(b.Count()))
	fmt.Fprintf(&sb, "MaxSizeNum    [Bits]: %d\n", num.Max)
	fmt.Fprintf(&sb, "MaxSizeDenom  [Bits]: %d\n", den.Max)
	if b.Count() > 0 {
		fmt.Fprintf(&sb, "MeanSizeNum   [Bits]: %s\n", humanize.FormatFloat("#.##", num.Mean))
		fmt.Fprintf(&sb, "MeanSizeDenom [Bits]: %s\n", humanize.FormatFloat("#.##", den.Mean))
		fmt.Fprintf(&sb, "P99SizeNum    [Bits]: %d\n", num.P99)
		fmt.Fprintf(&sb, "P99SizeDenom  [Bits]: %d\n", den.P99)
	}
	return sb.String()
}
