package engine

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Rand is the random source a deck draw consumes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Outcome is a scored match between two decks.
type Outcome struct {
	PowerA float64 `json:"power_a"`
	PowerB float64 `json:"power_b"`
	Winner Side    `json:"winner"`
}
