package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbalance/server/engine"
)

const sample = `name,type,playerClass,cost,attack,health,rarity
Chillwind Yeti,MINION,NEUTRAL,4,4,5,COMMON
Fireball,SPELL,MAGE,4,,,COMMON
Water Elemental,Minion,MAGE,4,3,6,COMMON
Chillwind Yeti,MINION,NEUTRAL,4,4,5,COMMON
Test Dummy,MINION,NEUTRAL,1,0,2,FREE
Cheat Death Knight,MINION,ROGUE,3,2,2,FREE
Wisp,MINION,NEUTRAL,0,1,1,COMMON
Deathwing,MINION,NEUTRAL,10,12,12,LEGENDARY
Big Wall,MINION,WARRIOR,8,0,20,EPIC
Broken,MINION,DRUID,abc,1,1,COMMON
Ghost,MINION,PRIEST,2,NaN,1,COMMON
Nameless Class,MINION,,2,2,2,COMMON
Leper Gnome,minion,NEUTRAL,1,2,1,COMMON
`

func TestParseCleansTable(t *testing.T) {
	pool, st, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, engine.Pool{
		{Name: "Chillwind Yeti", Class: "NEUTRAL", Cost: 4, Attack: 4, Health: 5},
		{Name: "Water Elemental", Class: "MAGE", Cost: 4, Attack: 3, Health: 6},
		{Name: "Deathwing", Class: "NEUTRAL", Cost: 10, Attack: 12, Health: 12},
		{Name: "Leper Gnome", Class: "NEUTRAL", Cost: 1, Attack: 2, Health: 1},
	}, pool)

	assert.Equal(t, Stats{
		Rows:       13,
		NotMinion:  1,
		BadNumber:  2,
		OutOfRange: 3,
		TestCards:  2,
		Duplicates: 1,
		Kept:       4,
	}, st)
	assert.Equal(t, 9, st.Dropped())
}

func TestParseDecodesLatin1(t *testing.T) {
	// "Mölten" with ö as the single Latin-1 byte 0xF6.
	raw := []byte("name,type,cardClass,cost,attack,health\nM\xf6lten Giant,MINION,NEUTRAL,10,8,8\n")
	pool, _, err := Parse(strings.NewReader(string(raw)))
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "Mölten Giant", pool[0].Name)
	assert.Equal(t, "NEUTRAL", pool[0].Class)
}

func TestParseMissingColumn(t *testing.T) {
	_, _, err := Parse(strings.NewReader("name,type,cost,attack,health\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	pool, st, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, pool, 4)
	assert.Equal(t, 4, st.Kept)

	_, _, err = LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
