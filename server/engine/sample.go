package engine

// Draw samples n distinct positions of pool uniformly at random with a
// partial Fisher-Yates shuffle over an index slice. The pool itself is not
// touched, so concurrent draws from the same pool are safe.
// Callers guarantee 0 < n <= len(pool).
func Draw(pool Pool, n int, r Rand) Deck {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	deck := make(Deck, n)
	for i := 0; i < n; i++ {
		j := i + r.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		deck[i] = pool[idx[i]]
	}
	return deck
}
