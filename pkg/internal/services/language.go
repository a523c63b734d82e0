package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.French, lingua.English, lingua.Spanish, lingua.German, lingua.Italian, lingua.Portuguese, lingua.Arabic).
			WithLowAccuracyMode().
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the ISO 639-1 code of the text, defaulting to French.
func DetectLanguage(content string) string {
	if len(strings.TrimSpace(content)) == 0 {
		return "fr"
	}
	if lang, ok := getLanguageDetector().DetectLanguageOf(content); ok {
		return strings.ToLower(lang.IsoCode639_1().String())
	}
	return "fr"
}
