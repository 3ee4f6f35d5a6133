package simulator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
)

// SweepSeed derives the seed of run i in a sweep started from base, so a
// sweep is reproducible regardless of how its runs are scheduled.
func SweepSeed(base int64, i int) int64 {
	// splitmix64 increment keeps neighbouring seeds far apart
	return base + int64(i)*-7046029254386353131
}

// Sweep runs every site independently, at most workers at a time, and
// returns the results in input order. Run i uses SweepSeed(seed, i).
func Sweep(ctx context.Context, sites []entities.Site, seed int64, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]Result, len(sites))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, site := range sites {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := RunSeed(site, SweepSeed(seed, i))
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, site.Name, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
