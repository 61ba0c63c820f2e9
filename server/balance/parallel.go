package balance

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"classbalance/server/engine"
)

// MatchSeed mixes the run seed with a match index (splitmix64) so every match
// gets its own deterministic, well-separated stream.
func MatchSeed(base int64, match int) int64 {
	z := uint64(base) + uint64(match)*0x9E3779B97F4A7C15 + 0x9E3779B97F4A7C15
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

type playedMatch struct {
	classesA, classesB []string
	out                engine.Outcome
}

// RunParallel plays matches on up to workers goroutines (NumCPU when
// workers <= 0). Match i draws only from MatchSeed(seed, i) and results are
// combined in match order, so the worker count never changes the Result.
func RunParallel(ctx context.Context, pool engine.Pool, cfg Config, seed int64, workers int) (Result, error) {
	if err := validate(pool, cfg); err != nil {
		return Result{}, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	played := make([]playedMatch, cfg.Matches)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Matches; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := rand.New(rand.NewSource(MatchSeed(seed, i)))
			a := engine.Draw(pool, cfg.DeckSize, r)
			b := engine.Draw(pool, cfg.DeckSize, r)
			played[i] = playedMatch{classesA: a.Classes(), classesB: b.Classes(), out: engine.Compare(a, b)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	t := newTally(pool, cfg)
	for _, m := range played {
		t.record(m.classesA, m.classesB, m.out)
	}
	return t.result(), nil
}
