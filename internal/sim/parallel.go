package sim

import (
	"context"
	"sync"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// Ensemble runs independent simulations concurrently, one per initial
// condition. Each run gets its own Simulator from the factory: integrators
// carry scratch buffers and controllers may carry state, so nothing is
// shared between goroutines. Within a single trajectory the steps stay
// strictly sequential: each step's input is the previous step's output.
type Ensemble struct {
	build func() *Simulator
}

func NewEnsemble(build func() *Simulator) *Ensemble {
	return &Ensemble{build: build}
}

func (e *Ensemble) Run(ctx context.Context, initials []quad.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(initials))
	errs := make([]error, len(initials))

	var wg sync.WaitGroup
	for i := range initials {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.build().Run(ctx, initials[idx], cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
