// Package safetext routes profanity checking and censoring to the engine
// bound to the active language.
package safetext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/safevideo/safetext/pkg/censor"
	"github.com/safevideo/safetext/pkg/match"
	"github.com/safevideo/safetext/pkg/models"
	"github.com/safevideo/safetext/pkg/words"
)

var (
	// ErrLanguageDetection is returned when the detector cannot classify
	// the input with confidence.
	ErrLanguageDetection = errors.New("could not detect language")

	// ErrMalformedInput is returned for arguments that cannot describe a
	// valid request, such as a non-positive sample count.
	ErrMalformedInput = errors.New("malformed input")
)

// Detector resolves the language code of a text sample. ok is false when
// there is no confident match.
type Detector interface {
	Detect(text string) (code string, ok bool)
}

// SubtitleReader extracts the first n plain caption texts of a subtitle
// document.
type SubtitleReader interface {
	ReadText(path string, n int) ([]string, error)
}

// Validator diffs locally detected bad words against an external reference.
// Implementations log discrepancies themselves.
type Validator interface {
	Compare(ctx context.Context, text string, localBadWords []string) (missing, falsePositives []string, err error)
}

// binding pairs a language code with its loaded token list. A binding is
// immutable; SetLanguage replaces it wholesale.
type binding struct {
	code   string
	tokens []words.Token
}

// SafeText checks and censors profanity in the active language. It starts
// unbound; the first check/censor call on an unbound instance detects the
// language from the input and binds it. A SafeText instance is not safe for
// concurrent use: callers must serialize SetLanguage against in-flight
// checks.
type SafeText struct {
	store    *words.Store
	detector Detector

	subs      SubtitleReader
	validator Validator

	binding *binding
}

// New returns an unbound SafeText over the given word-list store. detector
// may be nil when the language is always set explicitly.
func New(store *words.Store, detector Detector) *SafeText {
	return &SafeText{store: store, detector: detector}
}

// SetSubtitleReader configures the collaborator behind SetLanguageFromSRT.
func (s *SafeText) SetSubtitleReader(r SubtitleReader) {
	s.subs = r
}

// SetValidator configures an advisory external validator for check results.
func (s *SafeText) SetValidator(v Validator) {
	s.validator = v
}

// Language returns the active language code, or "" when unbound.
func (s *SafeText) Language() string {
	if s.binding == nil {
		return ""
	}

	return s.binding.code
}

// SetLanguage loads the word list for code and binds it, replacing any
// previous binding. An unknown code returns words.ErrUnsupportedLanguage.
func (s *SafeText) SetLanguage(code string) error {
	tokens, err := s.store.Load(code)
	if err != nil {
		return err
	}

	s.binding = &binding{code: code, tokens: tokens}
	log.Debugf("[safetext] bound language %q with %d tokens", code, len(tokens))

	return nil
}

// SetLanguageFromText detects the language of text and binds it.
func (s *SafeText) SetLanguageFromText(text string) error {
	if s.detector == nil {
		return fmt.Errorf("%w: no detector configured", ErrLanguageDetection)
	}

	code, ok := s.detector.Detect(text)
	if !ok {
		return fmt.Errorf("%w: no confident match", ErrLanguageDetection)
	}

	return s.SetLanguage(code)
}

// SetLanguageFromSRT detects the language from the first sampleCount
// captions of the subtitle file at path and binds it. Fewer captions than
// sampleCount is fine; a non-positive sampleCount is not.
func (s *SafeText) SetLanguageFromSRT(path string, sampleCount int) error {
	if sampleCount <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", ErrMalformedInput, sampleCount)
	}
	if s.subs == nil {
		return fmt.Errorf("%w: no subtitle reader configured", ErrMalformedInput)
	}

	texts, err := s.subs.ReadText(path, sampleCount)
	if err != nil {
		return err
	}

	return s.SetLanguageFromText(strings.Join(texts, " "))
}

// CheckProfanity scans text with the active language's token list and
// returns one Match per occurrence. On an unbound instance the language is
// first detected from text itself. Results are not sorted by position.
func (s *SafeText) CheckProfanity(text string) ([]models.Match, error) {
	if err := s.ensureBound(text); err != nil {
		return nil, err
	}

	matches := match.Scan(text, s.binding.tokens)
	if s.validator != nil {
		s.runValidation(text, matches)
	}

	return matches, nil
}

// CensorProfanity returns text with every detected occurrence masked.
func (s *SafeText) CensorProfanity(text string) (string, error) {
	if err := s.ensureBound(text); err != nil {
		return "", err
	}

	return censor.Mask(text, match.Scan(text, s.binding.tokens)), nil
}

// GetBadWords returns the distinct matched surface forms in first-seen
// order.
func (s *SafeText) GetBadWords(text string) ([]string, error) {
	if err := s.ensureBound(text); err != nil {
		return nil, err
	}

	return surfaceForms(match.Scan(text, s.binding.tokens)), nil
}

// ensureBound performs the one implicit state transition: an unbound
// instance detects the input's language and binds it.
func (s *SafeText) ensureBound(text string) error {
	if s.binding != nil {
		return nil
	}

	return s.SetLanguageFromText(text)
}

// runValidation compares local results against the external reference. The
// outcome is advisory only and never alters what the caller gets back.
func (s *SafeText) runValidation(text string, matches []models.Match) {
	_, _, err := s.validator.Compare(context.Background(), text, surfaceForms(matches))
	if err != nil {
		log.Warnf("[safetext] validation against external checker failed: %v", err)
	}
}

func surfaceForms(matches []models.Match) []string {
	seen := make(map[string]bool, len(matches))
	out := []string{}
	for _, m := range matches {
		if seen[m.Word] {
			continue
		}
		seen[m.Word] = true
		out = append(out, m.Word)
	}

	return out
}
