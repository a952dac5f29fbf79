package termcount

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/carbocation/phenocompare/patient"
)

type work struct {
	g int
	p patient.Patient
}

// AggregateConcurrent produces the same table as Aggregate, spreading patients
// over workers goroutines. Each worker fills its own partial table; the
// partials are summed once every worker is done, so no entry is ever shared
// between goroutines.
//
// The first error stops all workers. Cancelling ctx abandons the run and
// returns ctx.Err(). In either case no table is returned.
func AggregateConcurrent(ctx context.Context, h Hierarchy, groups []patient.Group, workers int) (*Table, error) {
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Aggregate(h, groups)
	}

	if err := Validate(groups); err != nil {
		return nil, err
	}

	partials := make([]*Table, workers)
	queue := make(chan work)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(queue)
		for g, group := range groups {
			for _, p := range group.Patients {
				select {
				case queue <- work{g: g, p: p}:
				case <-egCtx.Done():
					return egCtx.Err()
				}
			}
		}
		return nil
	})

	for i := range partials {
		partial := NewTable(len(groups))
		partials[i] = partial

		eg.Go(func() error {
			for item := range queue {
				if err := countPatient(partial, h, groups[item.g], item.g, item.p); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// The producer only reports cancellation while it still has work to
	// send.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := NewTable(len(groups))
	for _, partial := range partials {
		if err := table.Merge(partial); err != nil {
			return nil, err
		}
	}

	return table, nil
}
