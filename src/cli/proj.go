package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ratss/src/numeric/snap"
	"ratss/src/parse"
	"ratss/src/physics/geometry"
	"ratss/src/physics/snapping"
	"ratss/src/render"
	"ratss/src/stats"
)

type projOptions struct {
	in, out   string
	precision uint
	flags     snapping.Flags
	epsBits   int
	format    render.Format
	geo       bool
	stats     bool
	workers   int
	ladder    int
	verbose   bool
}

func newProj() *SubCommand {
	sc := &SubCommand{EnvPrefix: "RATSS_PROJ"}
	sc.Cmd = &cobra.Command{
		Use:   "proj",
		Short: "Snap points to rational points on the sphere",
		Long: `
Reads one point per line, whitespace or comma separated, and writes the
snapped point with exact rational coordinates. Points that cannot be read or
snapped are reported with their line number and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := projOptionsFrom(sc)
			if err != nil {
				return err
			}
			return runProj(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := sc.Cmd.Flags()
	addSnapFlags(f, "Snap every coordinate within 2^-eps instead of using --method. 0 disables.")
	f.StringP("method", "r", "fp",
		"Float to rational conversion: fp or ft (fixed point), cf (continued fraction).")
	f.StringP("snap", "s", "plane", "Where the conversion takes place: p, plane, s or sphere.")
	f.BoolP("normalize", "n", false, "Normalize the input to length 1.")
	f.BoolP("stats", "b", false, "Print bit size statistics to stderr.")
	f.StringP("format", "f", "rational",
		"Output format: rational, split, float, homogeneous or geojson.")
	f.StringP("in", "i", "", "Path to the input. Empty or - reads stdin. "+
		"Files ending in .geojson or .json are read as GeoJSON.")
	f.StringP("out", "o", "", "Path to the output. Empty or - writes stdout.")
	f.BoolP("geo", "g", false, "Input lines hold latitude and longitude in degrees.")
	f.Int("ladder", 0, "Retry points that end up off the sphere with this many increasing precisions.")
	f.Bool("verbose", false, "Print the configuration to stderr.")
	return sc
}

func projOptionsFrom(sc *SubCommand) (projOptions, error) {
	var opts projOptions
	prec := sc.GetIntP("precision", "p", snapping.DefaultPrecision)
	if prec <= 0 {
		prec = snapping.DefaultPrecision
	}
	opts.precision = uint(prec)

	method, err := snap.ParseMethod(sc.GetStringP("method", "r", "fp"))
	if err != nil {
		return opts, err
	}
	domain, err := snapping.ParseDomain(sc.GetStringP("snap", "s", "plane"))
	if err != nil {
		return opts, err
	}
	opts.flags = domain | snapping.MethodFlag(method)
	if sc.GetBoolP("normalize", "n", false) {
		opts.flags |= snapping.Normalize
	}

	opts.epsBits = sc.GetIntP("eps", "e", 0)
	if opts.epsBits < 0 {
		return opts, errors.Errorf("eps needs to be larger than 0, got %d", opts.epsBits)
	}
	if opts.format, err = render.ParseFormat(sc.GetStringP("format", "f", "rational")); err != nil {
		return opts, err
	}
	opts.in = sc.GetStringP("in", "i", "")
	opts.out = sc.GetStringP("out", "o", "")
	opts.geo = sc.GetBoolP("geo", "g", false)
	opts.stats = sc.GetBoolP("stats", "b", false)
	opts.workers = sc.GetIntP("workers", "j", 0)
	opts.ladder = sc.Conf.GetInt("ladder")
	opts.verbose = sc.Conf.GetBool("verbose")
	return opts, nil
}

func (o projOptions) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Precision: %d\n", o.precision)
	fmt.Fprintf(&sb, "Flags: %s\n", o.flags)
	if o.epsBits > 0 {
		fmt.Fprintf(&sb, "Epsilon: 2^-%d\n", o.epsBits)
	}
	fmt.Fprintf(&sb, "Output format: %s\n", o.format)
	fmt.Fprintf(&sb, "Input file: %s\n", nameOr(o.in, "stdin"))
	fmt.Fprintf(&sb, "Output file: %s\n", nameOr(o.out, "stdout"))
	if o.ladder > 0 {
		fmt.Fprintf(&sb, "Ladder: %d steps of %d bits\n", o.ladder, o.precision)
	}
	return sb.String()
}

func nameOr(name, def string) string {
	if name == "" || name == "-" {
		return def
	}
	return name
}

func (o projOptions) ladderSteps() snapping.Ladder {
	return snapping.Ladder{Start: o.precision, Step: o.precision, MaxAttempts: o.ladder}
}

// readPrecision is the precision input is parsed at: the highest precision
// any point is snapped at, and at least double precision.
func (o projOptions) readPrecision() uint {
	prec := max(o.precision, 53)
	if rungs := o.ladderSteps().Precisions(); len(rungs) > 0 {
		prec = max(prec, rungs[len(rungs)-1])
	}
	return prec
}

func (o projOptions) snapper() snapping.PointSnapper {
	s := snapping.Snapper{Precision: o.precision, Flags: o.flags}
	if o.epsBits > 0 {
		eps := snapping.EpsilonFromBits(o.epsBits)
		s.Epsilon = &eps
	}
	if o.ladder > 0 {
		return snapping.Escalating{Snapper: s, Ladder: o.ladderSteps()}
	}
	return s
}

// inputPoint is a point with the line it was read from.
type inputPoint struct {
	line  int
	point geometry.RealVector
}

func isGeoJSONPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return true
	}
	return false
}

// readPoints reads every point. Malformed lines are reported on errOut and
// skipped.
func readPoints(o projOptions, in io.Reader, errOut io.Writer) ([]inputPoint, error) {
	readPrec := o.readPrecision()

	if isGeoJSONPath(o.in) {
		pts, err := parse.ReadGeoJSON(in, readPrec)
		if err != nil {
			return nil, err
		}
		out := make([]inputPoint, len(pts))
		for i, p := range pts {
			out[i] = inputPoint{line: i + 1, point: p}
		}
		return out, nil
	}

	r := parse.NewReader(in, readPrec)
	r.Geographic = o.geo
	var out []inputPoint
	for {
		p, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if errors.Is(err, parse.ErrMalformed) {
			glog.Warningf("skipping input: %v", err)
			fmt.Fprintf(errOut, "skipping %v\n", err)
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, inputPoint{line: r.Line(), point: p})
	}
}

func runProj(ctx context.Context, o projOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.verbose {
		fmt.Fprint(stderr, o)
	}

	in := stdin
	if o.in != "" && o.in != "-" {
		f, err := os.Open(o.in)
		if err != nil {
			return errors.Wrapf(err, "could not open input file %s", o.in)
		}
		defer f.Close()
		in = f
	}
	out := stdout
	if o.out != "" && o.out != "-" {
		f, err := os.Create(o.out)
		if err != nil {
			return errors.Wrapf(err, "could not open output file %s", o.out)
		}
		defer f.Close()
		out = f
	}

	inputs, err := readPoints(o, in, stderr)
	if err != nil {
		return err
	}
	points := make([]geometry.RealVector, len(inputs))
	for i, p := range inputs {
		points[i] = p.point
	}

	results, err := snapping.SnapAll(ctx, points, o.snapper(), o.workers)
	if err != nil {
		return errors.Wrap(err, "snapping points")
	}

	w, err := render.NewWriter(out, o.format)
	if err != nil {
		return err
	}
	bc := stats.NewBitCount()
	var skipped int64
	for _, res := range results {
		if res.Err != nil {
			skipped++
			fmt.Fprintf(stderr, "skipping line %d: %v\n", inputs[res.Index].line, res.Err)
			continue
		}
		if err := w.WritePoint(res.Point); err != nil {
			return errors.Wrapf(err, "line %d", inputs[res.Index].line)
		}
		if o.stats {
			bc.Update(res.Point...)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if o.stats {
		fmt.Fprint(stderr, bc)
	}
	glog.Infof("snapped %s points with %s, skipped %s",
		humanize.Comma(int64(len(results))-skipped), o.flags, humanize.Comma(skipped))
	return nil
}
