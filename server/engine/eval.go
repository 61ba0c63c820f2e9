package engine

const (
	attackWeight = 0.6
	healthWeight = 0.4
)

// CardPower blends offense and durability into one scalar.
func CardPower(c CardRecord) float64 { return c.Attack*attackWeight + c.Health*healthWeight }

// Power sums CardPower over the deck.
func Power(d Deck) float64 {
	p := 0.0
	for _, c := range d {
		p += CardPower(c)
	}
	return p
}

// Evaluate returns the side with strictly greater power.
// Exactly equal powers always go to SideA.
func Evaluate(a, b Deck) Side { return Compare(a, b).Winner }

// Compare scores both decks and declares a winner with the same rule as Evaluate.
func Compare(a, b Deck) Outcome {
	pa, pb := Power(a), Power(b)
	w := SideA
	if pb > pa {
		w = SideB
	}
	return Outcome{PowerA: pa, PowerB: pb, Winner: w}
}

// Pick returns the deck on the given side.
func Pick(side Side, a, b Deck) Deck {
	if side == SideB {
		return b
	}
	return a
}
