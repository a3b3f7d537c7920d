package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/l3uddz/iconkit/database"
	"github.com/pkg/errors"
)

const (
	PresetDefault = "default"
	PresetStrict  = "strict"
	PresetFuzzy   = "fuzzy"
)

// generic words that say little about what an icon depicts
var genericWords = []string{"icon", "svg", "outline", "solid", "mini", "fill"}

var presets = map[string]Weights{
	PresetDefault: {
		ExactName:     100,
		NamePrefix:    50,
		NameContains:  25,
		ExactTag:      30,
		PartialTag:    10,
		LengthPenalty: 0.5,
	},
	PresetStrict: {
		ExactName:      120,
		NamePrefix:     40,
		NameContains:   10,
		ExactTag:       40,
		LengthPenalty:  1,
		GenericPenalty: 20,
	},
	PresetFuzzy: {
		ExactName:     60,
		NamePrefix:    40,
		NameContains:  30,
		ExactTag:      25,
		PartialTag:    20,
		LengthPenalty: 0.25,
	},
}

/* Struct */

// Weights are the points a preset awards per matched term.
type Weights struct {
	ExactName    float64
	NamePrefix   float64
	NameContains float64
	ExactTag     float64
	PartialTag   float64
	// subtracted once per rune of the icon name
	LengthPenalty float64
	// subtracted once when the name contains a generic word
	GenericPenalty float64
}

type Scored struct {
	Icon  database.Icon
	Score float64
}

/* Public */

func Presets() []string {
	return []string{PresetDefault, PresetStrict, PresetFuzzy}
}

func GetWeights(preset string) (Weights, error) {
	if preset == "" {
		preset = PresetDefault
	}

	w, ok := presets[strings.ToLower(preset)]
	if !ok {
		return Weights{}, errors.Errorf("unknown search preset: %q", preset)
	}

	return w, nil
}

// Score rates an icon against the search terms, never below zero.
func Score(icon database.Icon, terms []string, w Weights) float64 {
	name := strings.ToLower(icon.Name)
	tags := make([]string, 0, len(icon.Tags))
	for _, t := range icon.Tags {
		tags = append(tags, strings.ToLower(t))
	}

	score := 0.0
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}

		// name
		switch {
		case name == term:
			score += w.ExactName
		case strings.HasPrefix(name, term):
			score += w.NamePrefix
		case strings.Contains(name, term):
			score += w.NameContains
		}

		// tags
		exact, partial := false, false
		for _, tag := range tags {
			if tag == term {
				exact = true
				break
			}
			if strings.Contains(tag, term) {
				partial = true
			}
		}

		switch {
		case exact:
			score += w.ExactTag
		case partial:
			score += w.PartialTag
		}
	}

	score -= w.LengthPenalty * float64(utf8.RuneCountInString(icon.Name))

	if w.GenericPenalty > 0 {
		for _, word := range genericWords {
			if strings.Contains(name, word) {
				score -= w.GenericPenalty
				break
			}
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// Rank orders icons by score descending, then name and id ascending.
func Rank(icons []database.Icon, terms []string, w Weights) []Scored {
	scored := make([]Scored, 0, len(icons))
	for _, icon := range icons {
		scored = append(scored, Scored{Icon: icon, Score: Score(icon, terms, w)})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Icon.Name != b.Icon.Name {
			return a.Icon.Name < b.Icon.Name
		}
		return a.Icon.ID < b.Icon.ID
	})

	return scored
}
