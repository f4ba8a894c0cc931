// Package words loads per-language profanity word lists.

// Important notice: the embedded data files and test fixtures contain
// explicit language in several languages, as required by the filtering
// domain. They are technical artifacts, not editorial content.
package words

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedLanguage is returned when no word list exists for a code.
var ErrUnsupportedLanguage = errors.New("language not supported")

type Kind int

const (
	Word Kind = iota
	Phrase
)

// Token is a single entry of a language's profanity list. Text is the
// lowercased canonical form; Kind is Phrase when the entry contains an
// internal space. Tokens are immutable once loaded.
type Token struct {
	Text string
	Kind Kind
}

//go:embed data
var defaultLists embed.FS

// Store resolves language codes to token lists. With an empty dir it serves
// the embedded default lists; with a dir set, <dir>/<code>.txt takes
// precedence and the embedded list is the fallback.
type Store struct {
	dir string
}

// NewStore returns a Store backed by the embedded default word lists.
func NewStore() *Store {
	return &Store{}
}

// NewDirStore returns a Store that prefers <dir>/<code>.txt files over the
// embedded defaults.
func NewDirStore(dir string) *Store {
	return &Store{dir: dir}
}

// Languages returns the sorted set of language codes the store can load.
func (s *Store) Languages() []string {
	codes := map[string]bool{}

	entries, err := defaultLists.ReadDir("data")
	if err == nil {
		for _, e := range entries {
			codes[strings.TrimSuffix(e.Name(), ".txt")] = true
		}
	}

	if s.dir != "" {
		files, err := filepath.Glob(filepath.Join(s.dir, "*.txt"))
		if err == nil {
			for _, f := range files {
				codes[strings.TrimSuffix(filepath.Base(f), ".txt")] = true
			}
		}
	}

	out := make([]string, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	sort.Strings(out)

	return out
}

// Load reads the token list for the given language code. The source format
// is one token per line; a line with an internal space is a Phrase token.
// Lines are not trimmed beyond the trailing newline.
func (s *Store) Load(code string) ([]Token, error) {
	raw, err := s.read(code)
	if err != nil {
		return nil, err
	}

	return Parse(string(raw)), nil
}

func (s *Store) read(code string) ([]byte, error) {
	if s.dir != "" {
		raw, err := os.ReadFile(filepath.Join(s.dir, code+".txt"))
		if err == nil {
			return raw, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	raw, err := defaultLists.ReadFile("data/" + code + ".txt")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	return raw, nil
}

// Parse splits a line-delimited word list into tokens. A trailing newline is
// optional and does not produce an empty trailing token.
func Parse(src string) []Token {
	src = strings.TrimSuffix(src, "\n")
	src = strings.TrimSuffix(src, "\r")
	if src == "" {
		return []Token{}
	}

	lines := strings.Split(src, "\n")
	tokens := make([]Token, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		tokens = append(tokens, NewToken(line))
	}

	return tokens
}

// NewToken builds a canonical token from a raw list entry.
func NewToken(text string) Token {
	t := Token{Text: strings.ToLower(text)}
	if strings.Contains(t.Text, " ") {
		t.Kind = Phrase
	}

	return t
}
