package sistosched

import (
	"context"

	"github.com/markphelps/optional"
	"golang.org/x/sync/errgroup"
)

// Compare runs every algorithm over the same processes, each on its own goroutine and with
// its own timeline and metrics. Results come back in the order of algs. Quantums are checked
// up front, so a bad configuration fails before any algorithm runs.
func Compare(ctx context.Context, processes []Process, algs []Algorithm, quantum optional.Int) ([]*Run, error) {
	for _, alg := range algs {
		if _, err := alg.Func(); err != nil {
			return nil, err
		}
		if err := alg.CheckQuantum(quantum); err != nil {
			return nil, err
		}
	}

	runs := make([]*Run, len(algs))
	g, ctx := errgroup.WithContext(ctx)
	for i, alg := range algs {
		i, alg := i, alg // per-iteration copies for go < 1.22 loop semantics
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run, err := RunSchedule(processes, alg, quantum)
			if err != nil {
				return err
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// Best returns the run with the lowest average waiting time; the first one wins ties.
func Best(runs []*Run) *Run {
	var best *Run
	for _, r := range runs {
		if best == nil || r.Metrics.AvgWaiting < best.Metrics.AvgWaiting {
			best = r
		}
	}
	return best
}
