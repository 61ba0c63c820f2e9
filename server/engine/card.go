package engine

import "fmt"

// CardRecord is one cleaned minion row. Name is only used by ingestion for
// de-duplication and never participates in a match.
type CardRecord struct {
	Name   string  `json:"name,omitempty"`
	Class  string  `json:"class"`
	Cost   float64 `json:"cost"`
	Attack float64 `json:"attack"`
	Health float64 `json:"health"`
}

func (c CardRecord) String() string {
	return fmt.Sprintf("%s %g/%g/%g", c.Class, c.Cost, c.Attack, c.Health)
}

// Pool is the sampling universe for a run. Nothing in this module mutates it.
type Pool []CardRecord

// Deck is the fixed-size hand drawn for one match.
type Deck []CardRecord

// Classes returns the distinct class labels in the deck in first-seen order.
func (d Deck) Classes() []string {
	seen := make(map[string]struct{}, len(d))
	out := make([]string, 0, len(d))
	for _, c := range d {
		if _, ok := seen[c.Class]; ok {
			continue
		}
		seen[c.Class] = struct{}{}
		out = append(out, c.Class)
	}
	return out
}
