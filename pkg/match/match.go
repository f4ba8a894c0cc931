// Package match locates profane tokens in free text.
package match

import (
	"strings"
	"unicode"

	"github.com/safevideo/safetext/pkg/models"
	"github.com/safevideo/safetext/pkg/words"
)

// unit is one word unit of the scanned text: a maximal run of
// letter/digit/underscore runes. Offsets are rune offsets.
type unit struct {
	folded string
	index  int
	start  int
	end    int
}

// Scan checks text against the given token list and returns one Match per
// located occurrence. Word tokens match whole word units only; phrase tokens
// match as literal substrings of the case-folded text, scanned left to right
// without overlap. Results are grouped by token, not sorted by position.
func Scan(text string, tokens []words.Token) []models.Match {
	matches := []models.Match{}
	if text == "" || len(tokens) == 0 {
		return matches
	}

	src := []rune(text)
	folded := fold(src)
	units := split(src, folded)

	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}
		switch tok.Kind {
		case words.Phrase:
			matches = append(matches, scanPhrase(folded, units, tok.Text)...)
		default:
			matches = append(matches, scanWord(src, units, tok.Text)...)
		}
	}

	return matches
}

// scanWord emits a match for every word unit equal to the folded token.
// Comparing whole units keeps substrings from matching: "class" never
// triggers on "ass".
func scanWord(src []rune, units []unit, token string) []models.Match {
	var matches []models.Match
	for _, u := range units {
		if u.folded != token {
			continue
		}
		matches = append(matches, models.Match{
			Word:  string(src[u.start:u.end]),
			Index: u.index,
			Start: u.start,
			End:   u.end,
		})
	}

	return matches
}

// scanPhrase finds non-overlapping literal occurrences of the folded phrase,
// advancing past each match. The word index is the ordinal of the word unit
// at the phrase start, i.e. one more than the number of units before it.
func scanPhrase(folded []rune, units []unit, token string) []models.Match {
	phrase := []rune(token)
	var matches []models.Match

	for pos := 0; pos <= len(folded)-len(phrase); {
		i := indexRunes(folded, phrase, pos)
		if i < 0 {
			break
		}
		end := i + len(phrase)

		index := 1
		for _, u := range units {
			if u.start >= i {
				break
			}
			index++
		}

		matches = append(matches, models.Match{
			Word:  token,
			Index: index,
			Start: i,
			End:   end,
		})
		pos = end
	}

	return matches
}

// fold lowercases rune by rune so offsets stay aligned with the source text.
func fold(src []rune) []rune {
	folded := make([]rune, len(src))
	for i, r := range src {
		folded[i] = unicode.ToLower(r)
	}

	return folded
}

func split(src, folded []rune) []unit {
	var units []unit
	start := -1
	for i, r := range src {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			units = append(units, newUnit(folded, start, i, len(units)+1))
			start = -1
		}
	}
	if start >= 0 {
		units = append(units, newUnit(folded, start, len(src), len(units)+1))
	}

	return units
}

func newUnit(folded []rune, start, end, index int) unit {
	return unit{
		folded: string(folded[start:end]),
		index:  index,
		start:  start,
		end:    end,
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func indexRunes(s, sub []rune, from int) int {
	if from < 0 {
		from = 0
	}
	i := strings.Index(string(s[from:]), string(sub))
	if i < 0 {
		return -1
	}

	return from + len([]rune(string(s[from:])[:i]))
}
