package main

import (
	"context"
	"math/rand"

	"classbalance/server/balance"
	"classbalance/server/config"
	"classbalance/server/engine"
)

// runSimulation picks the sequential or parallel runner. A zero seed is
// replaced with a fresh one, which is returned so the run can be repeated.
func runSimulation(ctx context.Context, pool engine.Pool, sc config.SimConfig, progress func(balance.MatchReport)) (balance.Result, int64, error) {
	seed := sc.Seed
	if seed == 0 {
		seed = secureBaseSeed()
	}
	cfg := balance.Config{Matches: sc.Matches, DeckSize: sc.DeckSize, Progress: progress}
	if sc.Workers > 0 {
		res, err := balance.RunParallel(ctx, pool, cfg, seed, sc.Workers)
		return res, seed, err
	}
	res, err := balance.Run(pool, cfg, rand.New(rand.NewSource(seed)))
	return res, seed, err
}
