package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"classbalance/server/balance"
	"classbalance/server/config"
	"classbalance/server/engine"
	"classbalance/server/ingest"
)

//
// ===== pretty printing =====
//

var useColor bool
var debugState bool

const (
	colReset  = "\033[0m"
	colBold   = "\033[1m"
	colDim    = "\033[2m"
	colGreen  = "\033[32m"
	colRed    = "\033[31m"
	colYellow = "\033[33m"
	colCyan   = "\033[36m"
)

func c(code, s string) string {
	if !useColor {
		return s
	}
	return code + s + colReset
}
func bold(s string) string { return c(colBold, s) }
func dim(s string) string  { return c(colDim, s) }
func good(s string) string { return c(colGreen, s) }
func warn(s string) string { return c(colYellow, s) }
func bad(s string) string  { return c(colRed, s) }
func cyan(s string) string { return c(colCyan, s) }
func section(title string) { fmt.Printf("\n%s %s %s\n", dim("──"), bold(title), dim("──")) }

func sideTag(s engine.Side) string {
	if s == engine.SideA {
		return cyan("A")
	}
	return warn("B")
}

func runCLI(ctx context.Context, sc config.SimConfig, pool engine.Pool) error {
	section("SIMULATION")
	var progress func(balance.MatchReport)
	if debugState {
		progress = printMatch
	}
	res, seed, err := runSimulation(ctx, pool, sc, progress)
	if err != nil {
		return err
	}
	log.Printf("seed=%d matches=%d deck=%d workers=%d", seed, res.Matches, res.DeckSize, sc.Workers)
	printResult(res)
	return nil
}

func printMatch(r balance.MatchReport) {
	fmt.Printf("Match %d: %s=%.1f vs %s=%.1f → %s  %s\n",
		r.Match,
		cyan("A"), r.Outcome.PowerA,
		warn("B"), r.Outcome.PowerB,
		sideTag(r.Outcome.Winner),
		dim(fmt.Sprintf("A win rate so far: %.2f", r.SideAWinRate)),
	)
}

func printIngestStats(path string, st ingest.Stats) {
	fmt.Printf("%s %s rows=%d kept=%d  %s\n", dim("•"), bold(path), st.Rows, st.Kept,
		dim(fmt.Sprintf("not-minion:%d bad-number:%d out-of-range:%d test:%d dup:%d",
			st.NotMinion, st.BadNumber, st.OutOfRange, st.TestCards, st.Duplicates)))
}

// rateTag colors a class rate against the uniform share 1/n.
func rateTag(rate float64, n int) string {
	s := fmt.Sprintf("%6.2f%%", 100*rate)
	fair := 1 / float64(n)
	switch {
	case rate > fair*1.25:
		return bad(s)
	case rate < fair*0.75:
		return warn(s)
	default:
		return good(s)
	}
}

func printResult(res balance.Result) {
	rows := append([]balance.ClassStat(nil), res.Classes...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].WinRate > rows[j].WinRate })

	fmt.Println()
	fmt.Printf("  %-16s %6s %7s %8s %9s %s\n", "class", "cards", "weight", "win", "in-win", dim("wilson 95%"))
	fmt.Printf("  %s\n", dim(strings.Repeat("─", 64)))
	for _, r := range rows {
		fmt.Printf("  %-16s %6d %7.2f %s %9s %s\n",
			r.Class, r.Population, r.Weight,
			rateTag(r.WinRate, len(rows)),
			fmt.Sprintf("%d/%d", r.Wins, r.Appearances),
			dim(fmt.Sprintf("[%.2f, %.2f]", r.CILow, r.CIHigh)),
		)
	}
	fmt.Println()

	jain := fmt.Sprintf("%.4f", res.Fairness.JainIndex)
	if res.Fairness.JainIndex >= 0.95 {
		jain = good(jain)
	} else {
		jain = warn(jain)
	}
	fmt.Printf("%s Jain's fairness index: %s  %s\n", bold("Fairness"), jain, dim("(1.0 = perfectly balanced)"))
	fmt.Printf("%s Variance of win rates: %.6f\n", bold("Fairness"), res.Fairness.Variance)
	fmt.Printf("%s Deck A win rate: %.2f %s\n", bold("Sanity"), res.SideAWinRate, dim("(should be close to 0.5)"))
}
