package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Catalog {
	return New(
		[]Fallacy{
			{ID: 1, Name: "Ad Hominem", Difficulty: 1},
			{ID: 2, Name: "Straw Man", Difficulty: 2},
			{ID: 3, Name: "Slippery Slope", Difficulty: 3},
			{ID: 4, Name: "Tu Quoque", Difficulty: 4},
		},
		[]Topic{{"Cats beat dogs", 1}, {"Tax the moon", 3}, {"Abolish Mondays", 4}},
		[]Civilization{{"rome", "Rome", "🏛"}, {"egypt", "Egypt", "🐫"}},
		[]Confrontation{{Civs: [2]string{"rome", "egypt"}, Facts: []Fact{{ID: "f1", Attack: "a", Defense: "d"}}}},
	)
}

func TestDifficultyFor(t *testing.T) {
	want := map[int]int{1: 2, 2: 2, 3: 3, 4: 3, 5: 4, 9: 4}
	for round, diff := range want {
		assert.Equal(t, diff, DifficultyFor(round), "round %d", round)
	}
}

func TestFilters(t *testing.T) {
	c := sample()
	assert.Len(t, c.Fallacies(2), 2)
	assert.Len(t, c.Fallacies(4), 4)
	assert.Equal(t, []string{"Cats beat dogs"}, c.Topics(2))

	f, ok := c.Fallacy(3)
	assert.True(t, ok)
	assert.Equal(t, "Slippery Slope", f.Name)
	_, ok = c.Fallacy(99)
	assert.False(t, ok)
}

func TestFacts_PairIsUnordered(t *testing.T) {
	c := sample()
	assert.Equal(t, c.Facts("rome", "egypt"), c.Facts("egypt", "rome"))
	assert.Len(t, c.Facts("egypt", "rome"), 1)
	assert.Empty(t, c.Facts("rome", "rome"))
	assert.Equal(t, Fact{ID: "f1", Attack: "a"}, c.Facts("rome", "egypt")[0].PublicView())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(FallaciesFile, `[{"id":1,"name":"Ad Hominem","description":"attack the person","difficulty":1}]`)
	write(CivilizationsFile, `[{"id":"rome","name":"Rome","emoji":"R"},{"id":"egypt","name":"Egypt","emoji":"E"}]`)
	write(TopicsCSVFile, "text,difficulty\nCats beat dogs,1\nbroken\nTax the moon, 3\n")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Len(t, c.Fallacies(4), 1)
	assert.Equal(t, []string{"Cats beat dogs", "Tax the moon"}, c.Topics(4))
	civ, ok := c.Civilization("egypt")
	assert.True(t, ok)
	assert.Equal(t, "Egypt", civ.Name)
	assert.Empty(t, c.Facts("rome", "egypt"))
}

func TestLoad_MissingFallacies(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
