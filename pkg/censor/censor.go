// Package censor masks detected profanity spans in a text.
package censor

import (
	"sort"

	"github.com/safevideo/safetext/pkg/models"
)

const maskRune = '*'

// Mask returns a copy of text with every match span replaced by a run of
// asterisks of the same rune length. The input is never mutated and the
// output always has the input's rune length.
//
// Spans are applied in descending start order with a stable sort, so earlier
// offsets stay valid even under a mask scheme that stops being
// length-preserving, and overlapping matches resolve deterministically.
func Mask(text string, matches []models.Match) string {
	if len(matches) == 0 {
		return text
	}

	ordered := make([]models.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start > ordered[j].Start
	})

	runes := []rune(text)
	for _, m := range ordered {
		if m.Start < 0 || m.End > len(runes) || m.Start >= m.End {
			continue
		}
		for i := m.Start; i < m.End; i++ {
			runes[i] = maskRune
		}
	}

	return string(runes)
}
