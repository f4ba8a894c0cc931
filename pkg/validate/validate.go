// Package validate compares local detection results against an external
// reference moderation service. Discrepancies are advisory log output, never
// errors.
package validate

import (
	"context"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/safevideo/safetext/pkg/moderation"
)

// Checker is the external reference this bridge compares against.
type Checker interface {
	Check(ctx context.Context, text string, exclude []string, censorChar string) (*moderation.Result, error)
}

// Bridge reports differences between local bad-word detection and the
// external checker's verdict. It never mutates results.
type Bridge struct {
	checker Checker
}

func New(checker Checker) *Bridge {
	return &Bridge{checker: checker}
}

// Compare fetches the external bad-word set for text and diffs it against
// localBadWords. missing holds words only the external checker found,
// falsePositives words only the local scan found; both are lowercased and
// sorted. A connectivity failure of the external checker propagates as
// moderation.ErrExternalService.
func (b *Bridge) Compare(ctx context.Context, text string, localBadWords []string) (missing, falsePositives []string, err error) {
	res, err := b.checker.Check(ctx, text, nil, "")
	if err != nil {
		return nil, nil, err
	}

	external := toSet(res.BadWords)
	local := toSet(localBadWords)

	missing = diff(external, local)
	falsePositives = diff(local, external)

	if len(missing) > 0 {
		log.Infof("[validate] external checker found words the local scan missed: %v", missing)
	}
	if len(falsePositives) > 0 {
		log.Infof("[validate] local scan found words the external checker did not: %v", falsePositives)
	}
	if len(missing) == 0 && len(falsePositives) == 0 {
		log.Info("[validate] local scan matches external checker")
	}

	return missing, falsePositives, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}

	return set
}

func diff(a, b map[string]bool) []string {
	var out []string
	for w := range a {
		if !b[w] {
			out = append(out, w)
		}
	}
	sort.Strings(out)

	return out
}
