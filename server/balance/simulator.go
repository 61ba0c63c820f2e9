package balance

import (
	"fmt"

	"classbalance/server/engine"
)

const (
	DefaultMatches  = 500
	DefaultDeckSize = 5
)

// Config is the per-run knob set. Progress, when set, is called once per
// match in match order.
type Config struct {
	Matches  int
	DeckSize int
	Progress func(MatchReport)
}

func DefaultConfig() Config {
	return Config{Matches: DefaultMatches, DeckSize: DefaultDeckSize}
}

// MatchReport is what Progress sees after each match.
type MatchReport struct {
	Match        int // 1-based
	Outcome      engine.Outcome
	SideAWinRate float64 // running
}

// ClassStat is the per-class breakdown of a run.
type ClassStat struct {
	Class       string  `json:"class"`
	Population  int     `json:"population"`
	Weight      float64 `json:"weight"`
	Credit      float64 `json:"credit"`
	WinRate     float64 `json:"win_rate"`
	Appearances int     `json:"appearances"` // matches where either deck held the class
	Wins        int     `json:"wins"`        // matches where the winning deck held it
	CILow       float64 `json:"ci_low"`
	CIHigh      float64 `json:"ci_high"`
}

type Result struct {
	Matches      int                `json:"matches"`
	DeckSize     int                `json:"deck_size"`
	WinRates     map[string]float64 `json:"win_rates"`
	Fairness     FairnessReport     `json:"fairness"`
	SideAWinRate float64            `json:"side_a_win_rate"`
	Classes      []ClassStat        `json:"classes"`
}

// Run plays cfg.Matches sequential matches drawing from r. Same pool, config
// and seed give a bit-identical Result. On error the Result is zero.
func Run(pool engine.Pool, cfg Config, r engine.Rand) (Result, error) {
	if err := validate(pool, cfg); err != nil {
		return Result{}, err
	}
	t := newTally(pool, cfg)
	for i := 0; i < cfg.Matches; i++ {
		a := engine.Draw(pool, cfg.DeckSize, r)
		b := engine.Draw(pool, cfg.DeckSize, r)
		t.record(a.Classes(), b.Classes(), engine.Compare(a, b))
	}
	return t.result(), nil
}

func validate(pool engine.Pool, cfg Config) error {
	if cfg.Matches < 1 {
		return fmt.Errorf("%w: matches must be at least 1, got %d", ErrConfiguration, cfg.Matches)
	}
	if cfg.DeckSize < 1 {
		return fmt.Errorf("%w: deck size must be at least 1, got %d", ErrConfiguration, cfg.DeckSize)
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if MaxCount(PopulationCounts(pool)) < 1 {
		return fmt.Errorf("%w: no class has any cards", ErrEmptyPool)
	}
	if cfg.DeckSize > len(pool) {
		return fmt.Errorf("%w: deck size %d exceeds pool size %d", ErrConfiguration, cfg.DeckSize, len(pool))
	}
	return nil
}

// tally is the credit accumulator plus the bookkeeping for ClassStat.
// Single writer: both Run and RunParallel feed it in match order.
type tally struct {
	cfg      Config
	counts   map[string]int
	maxCount int
	credit   map[string]float64
	appear   map[string]int
	wins     map[string]int
	played   int
	aWins    int
}

func newTally(pool engine.Pool, cfg Config) *tally {
	counts := PopulationCounts(pool)
	t := &tally{
		cfg:      cfg,
		counts:   counts,
		maxCount: MaxCount(counts),
		credit:   make(map[string]float64, len(counts)),
		appear:   make(map[string]int, len(counts)),
		wins:     make(map[string]int, len(counts)),
	}
	for cls := range counts {
		t.credit[cls] = 0
	}
	return t
}

func (t *tally) record(classesA, classesB []string, out engine.Outcome) {
	t.played++
	winners := classesA
	if out.Winner == engine.SideA {
		t.aWins++
	} else {
		winners = classesB
	}

	seen := make(map[string]struct{}, len(classesA)+len(classesB))
	for _, cls := range classesA {
		seen[cls] = struct{}{}
	}
	for _, cls := range classesB {
		seen[cls] = struct{}{}
	}
	for cls := range seen {
		t.appear[cls]++
	}

	for _, cls := range winners {
		n, ok := t.counts[cls]
		if !ok {
			panic(fmt.Sprintf("balance: class %q won but is not in the pool", cls))
		}
		t.credit[cls] += Weight(t.maxCount, n) / float64(t.cfg.DeckSize)
		t.wins[cls]++
	}

	if t.cfg.Progress != nil {
		t.cfg.Progress(MatchReport{
			Match:        t.played,
			Outcome:      out,
			SideAWinRate: float64(t.aWins) / float64(t.played),
		})
	}
}

func (t *tally) result() Result {
	rates := Normalize(t.credit)
	res := Result{
		Matches:      t.played,
		DeckSize:     t.cfg.DeckSize,
		WinRates:     rates,
		Fairness:     Fairness(rates),
		SideAWinRate: float64(t.aWins) / float64(t.played),
	}
	for _, cls := range sortedClasses(t.counts) {
		lo, hi := WilsonCI95(t.wins[cls], t.appear[cls])
		res.Classes = append(res.Classes, ClassStat{
			Class:       cls,
			Population:  t.counts[cls],
			Weight:      Weight(t.maxCount, t.counts[cls]),
			Credit:      t.credit[cls],
			WinRate:     rates[cls],
			Appearances: t.appear[cls],
			Wins:        t.wins[cls],
			CILow:       lo,
			CIHigh:      hi,
		})
	}
	return res
}
