package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/drift/board"
	"github.com/pthm-cable/drift/systems"
	"github.com/pthm-cable/drift/telemetry"
)

// workerResult is handed from a finished worker to the reducer. The worker
// never touches the board again after sending it.
type workerResult struct {
	board *board.Board
	stats telemetry.WorkerStats
}

// Run simulates Threads x ParticlesPerThread trajectories and returns the
// summed board. Workers share nothing mutable; each finished board is sent
// to this goroutine and added to the global board in arrival order.
//
// A failing or panicking worker, or a cancelled context, aborts the run and
// no partial board is returned.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	threads := s.cfg.Parallel.Threads
	results := make(chan workerResult, threads)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			return s.worker(gctx, w, results)
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	global, stats := reduce(s.newBoard(), results)

	if err := <-waitErr; err != nil {
		return nil, err
	}

	return &Result{Board: global, Workers: stats}, nil
}

// reduce drains finished boards into dst until the channel closes.
func reduce(dst *board.Board, results <-chan workerResult) (*board.Board, []telemetry.WorkerStats) {
	var stats []telemetry.WorkerStats
	for r := range results {
		dst.Add(r.board)
		stats = append(stats, r.stats)
		slog.Debug("worker board merged", "worker", r.stats.Worker, "visits", r.stats.Visits)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Worker < stats[j].Worker
	})
	return dst, stats
}

// worker runs one share of the particles against a private board.
func (s *Simulation) worker(ctx context.Context, id int, out chan<- workerResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked: %v", id, r)
		}
	}()

	start := time.Now()
	rng := rand.New(rand.NewPCG(s.seed, uint64(id)+1))

	field, err := s.newField(systems.CloneObstacles(s.obstacles), s.cfg)
	if err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}

	b := s.newBoard()
	stats := telemetry.WorkerStats{Worker: id}

	for i := 0; i < s.cfg.Parallel.ParticlesPerThread; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		p := systems.SpawnParticle(rng, s.spawn)
		tr := systems.Simulate(&p, field, b, s.cam, s.phys)
		stats.Record(tr)

		if tr.Outcome == systems.OutcomeCompleted {
			slog.Debug("terminated", "worker", id, "particle", i, "visits", tr.Visits)
		}
	}

	stats.SetDuration(time.Since(start))
	out <- workerResult{board: b, stats: stats}
	return nil
}
