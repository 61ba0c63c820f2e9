// Package ingest turns a raw card export into the cleaned minion pool the
// simulator consumes.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"classbalance/server/engine"
)

var ErrMissingColumn = errors.New("missing required column")

const (
	maxCost   = 10
	maxHealth = 15
)

// Stats counts what happened to every input row.
type Stats struct {
	Rows       int `json:"rows"`
	NotMinion  int `json:"not_minion"`
	BadNumber  int `json:"bad_number"`
	OutOfRange int `json:"out_of_range"`
	TestCards  int `json:"test_cards"`
	Duplicates int `json:"duplicates"`
	Kept       int `json:"kept"`
}

func (s Stats) Dropped() int { return s.Rows - s.Kept }

// LoadCSV opens path and parses it with Parse.
func LoadCSV(path string) (engine.Pool, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open cards csv: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

type columns struct{ name, typ, class, cost, attack, health int }

func locate(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	find := func(names ...string) (int, error) {
		for _, n := range names {
			if i, ok := idx[strings.ToLower(n)]; ok {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, names[0])
	}
	var c columns
	var err error
	if c.typ, err = find("type"); err != nil {
		return c, err
	}
	if c.class, err = find("playerClass", "cardClass", "class"); err != nil {
		return c, err
	}
	if c.cost, err = find("cost"); err != nil {
		return c, err
	}
	if c.attack, err = find("attack"); err != nil {
		return c, err
	}
	if c.health, err = find("health"); err != nil {
		return c, err
	}
	// name is optional
	c.name, _ = find("name")
	return c, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func number(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isTestCard(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "test") || strings.Contains(n, "cheat")
}

type dedupeKey struct {
	name                 string
	cost, attack, health float64
}

// Parse reads a Latin-1 encoded card table and keeps minions with
// 0 < cost <= 10, 0 < health <= 15, attack >= 0 and a class label. Test and
// cheat cards are dropped, then rows are de-duplicated on
// (name, cost, attack, health) keeping the first.
func Parse(r io.Reader) (engine.Pool, Stats, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read header: %w", err)
	}
	cols, err := locate(header)
	if err != nil {
		return nil, Stats{}, err
	}

	var (
		st   Stats
		pool engine.Pool
		seen = make(map[dedupeKey]struct{})
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("read row %d: %w", st.Rows+1, err)
		}
		st.Rows++

		if !strings.EqualFold(field(rec, cols.typ), "minion") {
			st.NotMinion++
			continue
		}
		cost, ok1 := number(field(rec, cols.cost))
		attack, ok2 := number(field(rec, cols.attack))
		health, ok3 := number(field(rec, cols.health))
		if !ok1 || !ok2 || !ok3 {
			st.BadNumber++
			continue
		}
		class := field(rec, cols.class)
		if cost <= 0 || cost > maxCost || health <= 0 || health > maxHealth || attack < 0 || class == "" {
			st.OutOfRange++
			continue
		}
		name := field(rec, cols.name)
		if isTestCard(name) {
			st.TestCards++
			continue
		}
		key := dedupeKey{name: name, cost: cost, attack: attack, health: health}
		if _, dup := seen[key]; dup {
			st.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		pool = append(pool, engine.CardRecord{Name: name, Class: class, Cost: cost, Attack: attack, Health: health})
		st.Kept++
	}
	return pool, st, nil
}
