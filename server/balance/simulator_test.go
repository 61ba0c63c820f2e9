package balance

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbalance/server/engine"
)

// symmetricPool gives every class the same spread of attack/health values.
func symmetricPool(classes []string, perClass int) engine.Pool {
	var p engine.Pool
	for _, cls := range classes {
		for i := 0; i < perClass; i++ {
			p = append(p, engine.CardRecord{
				Name:   fmt.Sprintf("%s-%d", cls, i),
				Class:  cls,
				Cost:   float64(i%10 + 1),
				Attack: float64(i % 7),
				Health: float64(i%9 + 1),
			})
		}
	}
	return p
}

func sumRates(rates map[string]float64) float64 {
	s := 0.0
	for _, k := range sortedClasses(rates) {
		s += rates[k]
	}
	return s
}

func TestRunProducesDistribution(t *testing.T) {
	pool := symmetricPool([]string{"Druid", "Mage", "Rogue", "Warrior"}, 30)
	pool = append(pool, symmetricPool([]string{"Priest"}, 7)...)

	res, err := Run(pool, DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Len(t, res.WinRates, 5)
	assert.InDelta(t, 1.0, sumRates(res.WinRates), 1e-9)
	for cls, r := range res.WinRates {
		assert.GreaterOrEqual(t, r, 0.0, cls)
		assert.LessOrEqual(t, r, 1.0, cls)
	}
	assert.Equal(t, 500, res.Matches)
	assert.Equal(t, 5, res.DeckSize)

	n := float64(len(res.WinRates))
	assert.Greater(t, res.Fairness.JainIndex, 1/n)
	assert.LessOrEqual(t, res.Fairness.JainIndex, 1.0)
	assert.GreaterOrEqual(t, res.Fairness.Variance, 0.0)
}

func TestRunEqualPopulationsAreNeutral(t *testing.T) {
	classes := []string{"Hunter", "Paladin", "Shaman", "Warlock"}
	pool := symmetricPool(classes, 25)

	for _, w := range Weights(PopulationCounts(pool)) {
		require.Equal(t, 1.0, w)
	}

	res, err := Run(pool, Config{Matches: 20000, DeckSize: 5}, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	for _, cls := range classes {
		assert.InDelta(t, 0.25, res.WinRates[cls], 0.02, cls)
	}
	assert.Greater(t, res.Fairness.JainIndex, 0.99)
	assert.InDelta(t, 0.5, res.SideAWinRate, 0.03)
}

func TestWeightScarceClassBoost(t *testing.T) {
	pool := append(symmetricPool([]string{"Common"}, 100), symmetricPool([]string{"Scarce"}, 10)...)
	counts := PopulationCounts(pool)
	require.Equal(t, 100, counts["Common"])
	require.Equal(t, 10, counts["Scarce"])
	require.Equal(t, 100, MaxCount(counts))

	w := Weights(counts)
	assert.Equal(t, 1.0, w["Common"])
	assert.Equal(t, 10.0, w["Scarce"])
	assert.Equal(t, 10.0, w["Scarce"]/w["Common"])
}

func TestRunDeterministicWithSeed(t *testing.T) {
	pool := append(symmetricPool([]string{"Druid", "Mage"}, 40), symmetricPool([]string{"Rogue"}, 9)...)
	cfg := Config{Matches: 2000, DeckSize: 5}

	got1, err := Run(pool, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	got2, err := Run(pool, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for cls, r := range got1.WinRates {
		require.Equal(t, math.Float64bits(r), math.Float64bits(got2.WinRates[cls]), cls)
	}
	assert.Equal(t, math.Float64bits(got1.Fairness.JainIndex), math.Float64bits(got2.Fairness.JainIndex))
	assert.Equal(t, math.Float64bits(got1.Fairness.Variance), math.Float64bits(got2.Fairness.Variance))
	assert.Equal(t, got1, got2)
}

func TestRunCreditMatchesWinsTimesWeight(t *testing.T) {
	pool := append(symmetricPool([]string{"Big"}, 20), symmetricPool([]string{"Small"}, 4)...)
	cfg := Config{Matches: 300, DeckSize: 3}
	res, err := Run(pool, cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for _, cs := range res.Classes {
		want := float64(cs.Wins) * cs.Weight / float64(cfg.DeckSize)
		assert.InDelta(t, want, cs.Credit, 1e-9, cs.Class)
		assert.LessOrEqual(t, cs.Wins, cs.Appearances)
		assert.LessOrEqual(t, cs.CILow, cs.CIHigh)
	}
}

func TestRunProgressCalledPerMatch(t *testing.T) {
	pool := symmetricPool([]string{"Mage", "Rogue"}, 10)
	var reports []MatchReport
	cfg := Config{Matches: 25, DeckSize: 5, Progress: func(r MatchReport) { reports = append(reports, r) }}

	res, err := Run(pool, cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.Len(t, reports, 25)
	for i, r := range reports {
		assert.Equal(t, i+1, r.Match)
	}
	assert.Equal(t, res.SideAWinRate, reports[24].SideAWinRate)
}

func TestRunSingleClassPool(t *testing.T) {
	pool := symmetricPool([]string{"Neutral"}, 6)
	res, err := Run(pool, Config{Matches: 10, DeckSize: 5}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.WinRates["Neutral"])
	assert.Equal(t, 1.0, res.Fairness.JainIndex)
	assert.Equal(t, 0.0, res.Fairness.Variance)
}

func TestRunConfigurationErrors(t *testing.T) {
	pool := symmetricPool([]string{"Mage"}, 4)
	r := rand.New(rand.NewSource(1))

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero matches", Config{Matches: 0, DeckSize: 1}},
		{"negative matches", Config{Matches: -3, DeckSize: 1}},
		{"zero deck", Config{Matches: 10, DeckSize: 0}},
		{"deck larger than pool", Config{Matches: 10, DeckSize: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(pool, tc.cfg, r)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Zero(t, res.Matches)
			assert.Nil(t, res.WinRates)
		})
	}
}

func TestRunEmptyPool(t *testing.T) {
	res, err := Run(nil, DefaultConfig(), rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrEmptyPool)
	assert.Nil(t, res.WinRates)

	_, err = RunParallel(context.Background(), engine.Pool{}, DefaultConfig(), 1, 4)
	require.ErrorIs(t, err, ErrEmptyPool)
}

func TestRunParallelIndependentOfWorkers(t *testing.T) {
	pool := append(symmetricPool([]string{"Druid", "Hunter", "Mage"}, 30), symmetricPool([]string{"Priest"}, 6)...)
	cfg := Config{Matches: 3000, DeckSize: 5}

	base, err := RunParallel(context.Background(), pool, cfg, 1234, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sumRates(base.WinRates), 1e-9)
	for _, w := range []int{2, 3, 8, 0} {
		got, err := RunParallel(context.Background(), pool, cfg, 1234, w)
		require.NoError(t, err)
		assert.Equal(t, base, got, "workers=%d", w)
	}

	other, err := RunParallel(context.Background(), pool, cfg, 4321, 4)
	require.NoError(t, err)
	assert.NotEqual(t, base.WinRates, other.WinRates)
}

func TestRunParallelCancelled(t *testing.T) {
	pool := symmetricPool([]string{"Mage", "Rogue"}, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := RunParallel(ctx, pool, Config{Matches: 1000, DeckSize: 5}, 1, 2)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.WinRates)
}

func TestMatchSeedSpreads(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 1000; i++ {
		s := MatchSeed(7, i)
		require.False(t, seen[s])
		seen[s] = true
	}
	assert.NotEqual(t, MatchSeed(1, 0), MatchSeed(2, 0))
}
