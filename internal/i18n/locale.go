package i18n

import (
	"golang.org/x/text/language"
)

var matcher = language.NewMatcher([]language.Tag{
	language.Ukrainian, // default when nothing matches
	language.English,
})

// DetermineLocale picks the locale from an explicit ?lang value, then the
// Accept-Language header, defaulting to Ukrainian.
func DetermineLocale(queryLang, acceptLang string) string {
	if queryLang != "" {
		if tag, err := language.Parse(queryLang); err == nil {
			return localeFor(tag)
		}
	}
	if acceptLang == "" {
		return Ukrainian
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return Ukrainian
	}
	return localeFor(tags...)
}

func localeFor(tags ...language.Tag) string {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Ukrainian
	}
	if idx == 1 {
		return English
	}
	return Ukrainian
}
