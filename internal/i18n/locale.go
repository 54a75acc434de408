// Package i18n resolves localized display values. Every translatable field in
// the catalog is a Text map keyed by locale code, with the default locale as
// the designated base entry; resolution falls back to the base entry silently
// when a translation is missing.
package i18n

import (
	"golang.org/x/text/language"
)

// DefaultLocale is the base language every Text map must carry.
const DefaultLocale = "zh"

// Locales lists the supported locale codes, default first.
var Locales = []string{"zh", "en", "ja", "fr"}

// Text holds per-locale variants of one field. The DefaultLocale entry is the
// base value; other entries are optional translations.
type Text map[string]string

// NewText builds a Text carrying the base value, plus any extra locale
// variants given as alternating locale, value pairs.
func NewText(base string, pairs ...string) Text {
	t := Text{DefaultLocale: base}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			t[pairs[i]] = pairs[i+1]
		}
	}
	return t
}

// Base returns the default-locale value.
func (t Text) Base() string {
	return t[DefaultLocale]
}

// IsZero reports whether the Text carries no values at all.
func (t Text) IsZero() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// Resolve returns the best display value for locale. The default locale always
// returns the base value verbatim. Any other locale returns its entry when
// present and non-empty, otherwise the base value. Missing translations are
// not an error.
func Resolve(t Text, locale string) string {
	locale = Normalize(locale)
	if locale == DefaultLocale {
		return t[DefaultLocale]
	}
	if v, ok := t[locale]; ok && v != "" {
		return v
	}
	return t[DefaultLocale]
}

// Normalize reduces a locale code to one of the supported base languages.
// Region-qualified codes collapse to their base language ("en-GB" -> "en");
// unknown or unparseable codes resolve to the default locale.
func Normalize(locale string) string {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	base, _ := tag.Base()
	code := base.String()
	for _, l := range Locales {
		if l == code {
			return l
		}
	}
	return DefaultLocale
}

// Supported reports whether the code normalizes to a non-default supported
// locale or is the default itself.
func Supported(locale string) bool {
	if locale == "" {
		return false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	code := base.String()
	for _, l := range Locales {
		if l == code {
			return true
		}
	}
	return false
}
