package snapping

import (
	"context"
	"runtime"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"ratss/src/physics/geometry"
)

// Result is the outcome for the point at Index of a batch.
type Result struct {
	Index int
	Point geometry.RationalVector
	Err   error
}

// PointSnapper snaps a single point. Snapper and Escalating implement it.
type PointSnapper interface {
	Snap(coords geometry.RealVector) (geometry.RationalVector, error)
}

// SnapAll snaps every point on at most workers goroutines; workers <= 0 uses
// GOMAXPROCS. A failing point is recorded in its Result and does not stop
// the batch. The batch fails only when ctx is done, in which case the
// results gathered so far are returned with ctx's error.
func SnapAll(ctx context.Context, points []geometry.RealVector, s PointSnapper, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range points {
		if gctx.Err() != nil {
			break
		}
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := s.Snap(p)
			results[i] = Result{Index: i, Point: out, Err: err}
			if err != nil {
				glog.Warningf("skipping point %d %s: %v", i, p, err)
				return nil
			}
			if glog.V(2) {
				glog.Infof("point %d: %s -> %s", i, p, out)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
