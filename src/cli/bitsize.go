package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ratss/src/gen"
	"ratss/src/numeric/rational"
	"ratss/src/numeric/snap"
	"ratss/src/parse"
	"ratss/src/physics/geometry"
	"ratss/src/physics/snapping"
	"ratss/src/stats"
)

type bitsizeOptions struct {
	in        string
	random    int
	seed      int64
	precision uint
	epsBits   int
	workers   int
}

func newBitsize() *SubCommand {
	sc := &SubCommand{EnvPrefix: "RATSS_BITSIZE"}
	sc.Cmd = &cobra.Command{
		Use:   "bitsize",
		Short: "Compare the bit sizes produced by the snapping methods",
		Long: `
Snaps points read from a file of "lat lon" lines or drawn at random with every
method and reports the bit sizes of the plane coordinates and of the points
lifted back to the sphere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := bitsizeOptions{
				in:      sc.GetStringP("in", "i", ""),
				random:  sc.GetIntP("random", "r", 0),
				seed:    sc.Conf.GetInt64("seed"),
				epsBits: sc.GetIntP("eps", "e", 0),
				workers: sc.GetIntP("workers", "j", 0),
			}
			prec := sc.GetIntP("precision", "p", snapping.DefaultPrecision)
			if prec <= 0 {
				return errors.Errorf("precision needs to be larger than 0, got %d", prec)
			}
			opts.precision = uint(prec)
			if opts.epsBits < 0 {
				return errors.Errorf("eps needs to be larger than 0, got %d", opts.epsBits)
			}
			if opts.random <= 0 && opts.in == "" {
				return errors.New("need an input file or a number of random points")
			}
			return runBitsize(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := sc.Cmd.Flags()
	f.StringP("in", "i", "", "File with one \"lat lon\" point per line.")
	f.IntP("random", "r", 0, "Number of random points to add.")
	f.Int64("seed", 1, "Seed of the random points.")
	addSnapFlags(f, "Also snap within 2^-eps. 0 disables.")
	return sc
}

// bitsizeCounts has one BitCount per method for the plane coordinates and
// one for the lifted points.
type bitsizeCounts struct {
	cast, frac, eps             *stats.BitCount
	castProj, fracProj, epsProj *stats.BitCount
}

func newBitsizeCounts() *bitsizeCounts {
	return &bitsizeCounts{
		cast: stats.NewBitCount(), frac: stats.NewBitCount(), eps: stats.NewBitCount(),
		castProj: stats.NewBitCount(), fracProj: stats.NewBitCount(), epsProj: stats.NewBitCount(),
	}
}

func (c *bitsizeCounts) merge(o *bitsizeCounts) {
	c.cast.Merge(o.cast)
	c.frac.Merge(o.frac)
	c.eps.Merge(o.eps)
	c.castProj.Merge(o.castProj)
	c.fracProj.Merge(o.fracProj)
	c.epsProj.Merge(o.epsProj)
}

// measure records the bit sizes of the snapped plane coordinates and of the
// point they lift to.
func measure(plane geometry.RealVector, pole geometry.Pole, snapped func(geometry.RealVector) (geometry.RationalVector, error),
	inPlane, onSphere *stats.BitCount) error {
	q, err := snapped(plane)
	if err != nil {
		return err
	}
	lifted, err := geometry.InverseProject(q, pole)
	if err != nil {
		return err
	}
	inPlane.Update(q...)
	onSphere.Update(lifted...)
	return nil
}

func (c *bitsizeCounts) add(p geometry.RealVector, prec uint, eps *rational.Rational) error {
	plane, pole, err := geometry.Project(p, prec)
	if err != nil {
		return err
	}
	plane = plane.Round(prec, big.ToZero)

	castSnap := func(v geometry.RealVector) (geometry.RationalVector, error) {
		return geometry.SnapVector(v, snap.MethodCast)
	}
	if err := measure(plane, pole, castSnap, c.cast, c.castProj); err != nil {
		return errors.Wrap(err, "cast")
	}
	fracSnap := func(v geometry.RealVector) (geometry.RationalVector, error) {
		return geometry.SnapVector(v, snap.MethodContinuedFraction)
	}
	if err := measure(plane, pole, fracSnap, c.frac, c.fracProj); err != nil {
		return errors.Wrap(err, "continued fraction")
	}
	if eps == nil {
		return nil
	}
	epsSnap := func(v geometry.RealVector) (geometry.RationalVector, error) {
		return geometry.SnapVectorWithin(v, *eps)
	}
	return errors.Wrap(measure(plane, pole, epsSnap, c.eps, c.epsProj), "eps")
}

func loadBitsizePoints(o bitsizeOptions, out io.Writer) ([]geometry.RealVector, error) {
	var points []geometry.RealVector
	if o.in != "" {
		f, err := os.Open(o.in)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open input file %s", o.in)
		}
		defer f.Close()
		r := parse.NewReader(f, o.precision)
		r.Geographic = true
		if points, err = r.ReadAll(); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Read %s points from %s\n", humanize.Comma(int64(len(points))), o.in)
	}
	if o.random > 0 {
		points = append(points, gen.RealVectors(o.random, o.seed, o.precision)...)
	}
	return points, nil
}

func runBitsize(ctx context.Context, o bitsizeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	points, err := loadBitsizePoints(o, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Points: %s\n", humanize.Comma(int64(len(points))))
	fmt.Fprintf(out, "Precision: %d\n", o.precision)
	var eps *rational.Rational
	if o.epsBits > 0 {
		fmt.Fprintf(out, "Manual eps: %d\n", o.epsBits)
		e := snapping.EpsilonFromBits(o.epsBits)
		eps = &e
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(min(workers, len(points)), 1)
	chunk := (len(points) + workers - 1) / workers

	parts := make([]*bitsizeCounts, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range parts {
		w := w
		parts[w] = newBitsizeCounts()
		lo, hi := min(w*chunk, len(points)), min((w+1)*chunk, len(points))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := parts[w].add(points[i], o.precision, eps); err != nil {
					return errors.Wrapf(err, "point %d %s", i, points[i])
				}
				if glog.V(1) && i%1000 == 0 {
					glog.Infof("bitsize: %dk points", i/1000)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	total := newBitsizeCounts()
	for _, p := range parts {
		total.merge(p)
	}

	fmt.Fprintf(out, "Bit sizes with snapping by cast:\n%s\n", total.cast)
	fmt.Fprintf(out, "Bit sizes with snapping by continued fraction:\n%s\n", total.frac)
	if eps != nil {
		fmt.Fprintf(out, "Bit sizes with snapping by continued fraction with given eps:\n%s\n", total.eps)
	}
	fmt.Fprintf(out, "Bit sizes with projection and snapping by cast:\n%s\n", total.castProj)
	fmt.Fprintf(out, "Bit sizes with projection and snapping by continued fraction:\n%s\n", total.fracProj)
	if eps != nil {
		fmt.Fprintf(out, "Bit sizes with projection and snapping by continued fraction with given eps:\n%s\n", total.epsProj)
	}
	return nil
}
