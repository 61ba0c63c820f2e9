package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(class string, attack, health float64) CardRecord {
	return CardRecord{Class: class, Cost: 3, Attack: attack, Health: health}
}

func TestPowerIsWeightedSum(t *testing.T) {
	d := Deck{card("Mage", 3, 2), card("Rogue", 1, 5), card("Druid", 0, 1)}
	// (3*.6+2*.4) + (1*.6+5*.4) + (0+1*.4)
	assert.InDelta(t, 2.6+2.6+0.4, Power(d), 1e-12)
}

func TestPowerIgnoresCost(t *testing.T) {
	a := Deck{{Class: "Mage", Cost: 1, Attack: 4, Health: 4}}
	b := Deck{{Class: "Mage", Cost: 10, Attack: 4, Health: 4}}
	assert.Equal(t, Power(a), Power(b))
}

func TestEvaluateStrictlyGreaterWins(t *testing.T) {
	weak := Deck{card("Mage", 1, 1)}
	strong := Deck{card("Mage", 5, 5)}
	assert.Equal(t, SideB, Evaluate(weak, strong))
	assert.Equal(t, SideA, Evaluate(strong, weak))
}

func TestEvaluateTieGoesToA(t *testing.T) {
	// Same cards, opposite order: the sums are bit-identical.
	a := Deck{card("Mage", 2, 3), card("Rogue", 4, 1)}
	b := Deck{card("Priest", 4, 1), card("Hunter", 2, 3)}
	require.Equal(t, Power(a), Power(b))
	for i := 0; i < 100; i++ {
		require.Equal(t, SideA, Evaluate(a, b))
		require.Equal(t, SideA, Evaluate(b, a))
	}
}

func TestCompareReportsBothPowers(t *testing.T) {
	a := Deck{card("Mage", 5, 0)}
	b := Deck{card("Rogue", 0, 5)}
	out := Compare(a, b)
	assert.InDelta(t, 3.0, out.PowerA, 1e-12)
	assert.InDelta(t, 2.0, out.PowerB, 1e-12)
	assert.Equal(t, SideA, out.Winner)
	assert.Equal(t, a, Pick(out.Winner, a, b))
	assert.Equal(t, b, Pick(SideB, a, b))
}

func TestDeckClassesCollapseDuplicates(t *testing.T) {
	d := Deck{card("Mage", 1, 1), card("Rogue", 1, 1), card("Mage", 2, 2), card("Neutral", 1, 1)}
	assert.Equal(t, []string{"Mage", "Rogue", "Neutral"}, d.Classes())
}
