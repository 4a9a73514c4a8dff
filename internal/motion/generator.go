// SPDX-License-Identifier: MIT
package motion

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"wavepool/internal/analysis"
	"wavepool/internal/grid"
	applog "wavepool/internal/log"
	"wavepool/internal/timeline"
)

var logger = applog.For("Motion")

// Generator fans sample generation out over grid elements.
type Generator struct {
	workers int
}

// NewGenerator returns a Generator using up to workers goroutines; workers <= 0
// means GOMAXPROCS.
func NewGenerator(workers int) *Generator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{workers: workers}
}

// Generate returns one sample per (segment, element), ordered by ascending
// frame and then by element order.
func (g *Generator) Generate(env *analysis.Envelope, tl timeline.Timeline, lattice *grid.Grid, cfg Config) ([]Sample, error) {
	if env == nil || env.Len() == 0 {
		return nil, ErrMissingEnvelope
	}
	if lattice == nil || lattice.Len() == 0 {
		return nil, ErrMissingGrid
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	energy := env.Normalized()
	elements := lattice.Elements()
	n := len(elements)
	out := make([]Sample, len(energy)*n)

	workers := min(g.workers, n)
	chunk := (n + workers - 1) / workers

	var eg errgroup.Group
	eg.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				for s, e := range energy {
					out[s*n+i] = cfg.displace(tl.FrameOf(s), elements[i], e)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debugf("%d samples for %d elements over frames %d-%d (%s)",
		len(out), n, tl.FrameOf(0), tl.LastKeyedFrame(len(energy)), cfg.Style)
	return out, nil
}
