// Package catalog holds the read-only content tables the game deals from:
// fallacy cards, debate topics, civilizations and the confrontation facts
// keyed by an unordered pair of civilizations.
package catalog

import "slices"

type Fallacy struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  int    `json:"difficulty"`
}

type Topic struct {
	Text       string `json:"text"`
	Difficulty int    `json:"difficulty"`
}

type Civilization struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Fact is debate material for one civilization pair. Attack is shown to
// everyone once declared, Defense only to the defender.
type Fact struct {
	ID      string `json:"id"`
	Attack  string `json:"attack"`
	Defense string `json:"defense,omitempty"`
}

// PublicView strips the defender-only talking point.
func (f Fact) PublicView() Fact {
	return Fact{ID: f.ID, Attack: f.Attack}
}

type Confrontation struct {
	Civs  [2]string `json:"civs"`
	Facts []Fact    `json:"facts"`
}

type Catalog struct {
	fallacies     []Fallacy
	fallacyByID   map[int]Fallacy
	topics        []Topic
	civilizations []Civilization
	civByID       map[string]Civilization
	facts         map[string][]Fact
}

func New(fallacies []Fallacy, topics []Topic, civs []Civilization, confrontations []Confrontation) *Catalog {
	c := &Catalog{
		fallacies:     slices.Clone(fallacies),
		fallacyByID:   make(map[int]Fallacy, len(fallacies)),
		topics:        slices.Clone(topics),
		civilizations: slices.Clone(civs),
		civByID:       make(map[string]Civilization, len(civs)),
		facts:         make(map[string][]Fact, len(confrontations)),
	}
	for _, f := range fallacies {
		c.fallacyByID[f.ID] = f
	}
	for _, civ := range civs {
		c.civByID[civ.ID] = civ
	}
	for _, conf := range confrontations {
		key := PairKey(conf.Civs[0], conf.Civs[1])
		c.facts[key] = append(c.facts[key], conf.Facts...)
	}
	return c
}

// PairKey is order independent: PairKey(a, b) == PairKey(b, a).
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// DifficultyFor is the content difficulty ceiling for a round of a game:
// rounds 1-2 allow 2, rounds 3-4 allow 3, later rounds allow 4.
func DifficultyFor(round int) int {
	switch {
	case round <= 2:
		return 2
	case round <= 4:
		return 3
	default:
		return 4
	}
}

func (c *Catalog) Fallacies(maxDifficulty int) []Fallacy {
	out := make([]Fallacy, 0, len(c.fallacies))
	for _, f := range c.fallacies {
		if f.Difficulty <= maxDifficulty {
			out = append(out, f)
		}
	}
	return out
}

func (c *Catalog) Fallacy(id int) (Fallacy, bool) {
	f, ok := c.fallacyByID[id]
	return f, ok
}

func (c *Catalog) Topics(maxDifficulty int) []string {
	out := make([]string, 0, len(c.topics))
	for _, t := range c.topics {
		if t.Difficulty <= maxDifficulty {
			out = append(out, t.Text)
		}
	}
	return out
}

func (c *Catalog) Civilizations() []Civilization {
	return slices.Clone(c.civilizations)
}

func (c *Catalog) Civilization(id string) (Civilization, bool) {
	civ, ok := c.civByID[id]
	return civ, ok
}

// Facts returns the confrontation facts for the unordered pair {a, b}.
func (c *Catalog) Facts(a, b string) []Fact {
	return slices.Clone(c.facts[PairKey(a, b)])
}

func (c *Catalog) Sizes() (fallacies, topics, civs, pairs int) {
	return len(c.fallacies), len(c.topics), len(c.civilizations), len(c.facts)
}
