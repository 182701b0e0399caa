// Package detect provides optional automatic language detection, used
// only as a fallback for records whose language code does not resolve.
package detect

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector infers the language of a text, constrained to a candidate
// set. Implementations must never guess: a low-confidence or ambiguous
// answer is reported as not ok.
type Detector interface {
	Detect(text string, candidates []string) (code string, ok bool)
}

// minConfidence is the acceptance floor for a detector answer.
const minConfidence = 0.9

// LinguaDetector detects languages with the lingua statistical models.
type LinguaDetector struct {
	detector  lingua.LanguageDetector
	languages map[string]lingua.Language
}

// NewLinguaDetector builds a detector over the configured ISO 639-1
// candidate codes. Codes lingua does not model are rejected up front.
func NewLinguaDetector(codes []string) (*LinguaDetector, error) {
	if len(codes) < 2 {
		return nil, fmt.Errorf("language detection needs at least two candidate languages")
	}

	languages := make(map[string]lingua.Language, len(codes))
	isoCodes := make([]lingua.IsoCode639_1, 0, len(codes))
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(code)
		if iso == lingua.UnknownIsoCode639_1 {
			return nil, fmt.Errorf("language %q is not supported by the detector", code)
		}
		isoCodes = append(isoCodes, iso)
		languages[strings.ToUpper(code)] = lingua.GetLanguageFromIsoCode639_1(iso)
	}

	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromIsoCodes639_1(isoCodes...).
			Build(),
		languages: languages,
	}, nil
}

// Detect returns the upper-cased ISO 639-1 code of the detected
// language. The answer is accepted only when it is one of the requested
// candidates and its confidence clears the floor.
func (d *LinguaDetector) Detect(text string, candidates []string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	lang, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return "", false
	}
	code := strings.ToUpper(lang.IsoCode639_1().String())

	allowed := false
	for _, c := range candidates {
		if strings.ToUpper(c) == code {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", false
	}

	if d.detector.ComputeLanguageConfidence(text, lang) < minConfidence {
		return "", false
	}
	return code, true
}
