package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/regensim/internal/scenario"
)

// Factory builds an independent simulator, e.g. one per sweep point.
type Factory func() (*Simulator, error)

// Batch runs several scenarios back to back on one simulator.
type Batch struct {
	sim *Simulator
}

func NewBatch(s *Simulator) *Batch {
	return &Batch{sim: s}
}

// Run returns results in scenario order and stops at the first failing scenario. A stopped
// context ends the batch after the current run.
func (b *Batch) Run(ctx context.Context, scenarios []*scenario.Scenario) ([]*TestResults, error) {
	results := make([]*TestResults, 0, len(scenarios))
	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := b.sim.Start(ctx, sc)
		if err != nil {
			return results, fmt.Errorf("scenario %d: %w", i, err)
		}
		results = append(results, res)
	}
	return results, nil
}
