package domain

import (
	"strings"

	"golang.org/x/text/language"
)

const DefaultLanguage = "es"

// The first tag doubles as the matcher's fallback.
var (
	supportedLanguages = []language.Tag{language.Spanish, language.English}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

// PickLanguage chooses the email language: an explicit preference first,
// then the best supported match of an Accept-Language header, else Spanish.
func PickLanguage(preferred, acceptLanguage string) string {
	if lang, ok := matchLanguage(preferred); ok {
		return lang
	}
	if lang, ok := matchLanguage(acceptLanguage); ok {
		return lang
	}
	return DefaultLanguage
}

func matchLanguage(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	base, _ := supportedLanguages[idx].Base()
	return base.String(), true
}
