// Package subs extracts plain caption text from subtitle files.
package subs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/asticode/go-astisub"
)

// The SRT parser keeps inline styling tags like <i> and <font> in the line
// item text; they have to be stripped here.
var styleTagRe = regexp.MustCompile(`<[^>]+>`)

// Reader extracts caption payloads from subtitle documents (SRT and the
// other formats astisub understands).
type Reader struct{}

// NewReader returns a subtitle Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadText returns the first n caption texts of the subtitle file at path,
// with styling markup removed and line breaks flattened to spaces. Fewer
// than n captions yields all of them.
func (r *Reader) ReadText(path string, n int) ([]string, error) {
	doc, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file %s: %w", path, err)
	}

	texts := make([]string, 0, n)
	for _, item := range doc.Items {
		if len(texts) == n {
			break
		}
		texts = append(texts, flatten(item))
	}

	return texts, nil
}

// flatten joins an item's lines and line items with single spaces and
// removes styling markup, so the result is plain caption text.
func flatten(item *astisub.Item) string {
	var lines []string
	for _, line := range item.Lines {
		var parts []string
		for _, li := range line.Items {
			text := strings.TrimSpace(styleTagRe.ReplaceAllString(li.Text, ""))
			if text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " "))
		}
	}

	return strings.Join(lines, " ")
}
