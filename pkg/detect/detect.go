// Package detect identifies the language of a text sample.
package detect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

var codeToLanguage = map[string]lingua.Language{
	"de": lingua.German,
	"en": lingua.English,
	"es": lingua.Spanish,
	"pt": lingua.Portuguese,
	"tr": lingua.Turkish,
}

// Detector wraps the lingua-go language detector, restricted to a closed set
// of language codes. Building the detector loads language models; reuse the
// instance.
type Detector struct {
	det lingua.LanguageDetector
}

// New creates a Detector for the given ISO 639-1 codes. Codes without a
// model are ignored; with no recognized code the detector covers the full
// supported set.
func New(codes ...string) *Detector {
	var languages []lingua.Language
	for _, code := range codes {
		if lang, ok := codeToLanguage[strings.ToLower(code)]; ok {
			languages = append(languages, lang)
		}
	}
	if len(languages) == 0 {
		for _, lang := range codeToLanguage {
			languages = append(languages, lang)
		}
	}

	return &Detector{
		det: lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
	}
}

// Detect returns the language code of the text. ok is false when the
// detector has no confident match.
func (d *Detector) Detect(text string) (code string, ok bool) {
	lang, ok := d.det.DetectLanguageOf(text)
	if !ok {
		return "", false
	}

	return strings.ToLower(lang.IsoCode639_1().String()), true
}
