// Package textutil post-processes recognized text for display and export.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const tatweel = 'ـ'

var (
	arabicScript = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	punctSpacing = regexp.MustCompile(`\s*([,،؛!?.:])\s*`)
	whitespace   = regexp.MustCompile(`\s+`)

	letterFixer = strings.NewReplacer(
		"ي", "ی", // Arabic yeh -> Farsi yeh
		"ك", "ک", // Arabic kaf -> keheh
	)

	persianLanguages = map[string]struct{}{
		"fa": {}, "fas": {}, "fa-ir": {}, "persian": {},
	}
)

// IsPersianText reports whether text contains Arabic-script characters.
func IsPersianText(text string) bool {
	return arabicScript.MatchString(text)
}

// IsPersianLanguage reports whether a detected language code means Persian.
func IsPersianLanguage(lang string) bool {
	_, ok := persianLanguages[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// NormalizePersian makes recognized Persian text readable: Arabic letter
// forms are mapped to Persian ones, diacritics and tatweel are dropped,
// punctuation is followed by exactly one space, and whitespace is collapsed.
// ASCII digits become Persian digits when persianDigits is set.
func NormalizePersian(text string, persianDigits bool) string {
	if text == "" {
		return text
	}

	text = letterFixer.Replace(text)
	text = stripMarks(text)
	text = punctSpacing.ReplaceAllString(text, "$1 ")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if persianDigits {
		text = ToPersianDigits(text)
	}
	return text
}

// ToPersianDigits replaces ASCII digits with extended Arabic-Indic digits.
func ToPersianDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return '۰' + (r - '0')
		}
		return r
	}, text)
}

// stripMarks removes combining marks (harakat) and tatweel. Precomposed
// letters such as alef madda are left intact.
func stripMarks(text string) string {
	t := runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.Is(unicode.Mn, r) || r == tatweel
	}))
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
