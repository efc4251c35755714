package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsPersianText detects Arabic-script runes.
func TestIsPersianText(t *testing.T) {
	assert.True(t, IsPersianText("سلام دنیا"))
	assert.True(t, IsPersianText("hello سلام"))
	assert.False(t, IsPersianText("hello world"))
	assert.False(t, IsPersianText(""))
}

// TestIsPersianLanguage accepts fa with region and case variants.
func TestIsPersianLanguage(t *testing.T) {
	assert.True(t, IsPersianLanguage("fa"))
	assert.True(t, IsPersianLanguage(" FA-IR "))
	assert.False(t, IsPersianLanguage("en"))
}

// TestNormalizePersianFixesLetters checks Arabic kaf and yeh are replaced.
func TestNormalizePersianFixesLetters(t *testing.T) {
	assert.Equal(t, "کتاب یک", NormalizePersian("كتاب يک", false))
}

// TestNormalizePersianStripsDiacriticsAndTatweel removes harakat and kashida.
func TestNormalizePersianStripsDiacriticsAndTatweel(t *testing.T) {
	assert.Equal(t, "سلام", NormalizePersian("سَلـام", false))
}

// TestNormalizePersianSpacing checks punctuation spacing and outer trim.
func TestNormalizePersianSpacing(t *testing.T) {
	assert.Equal(t, "سلام، دنیا. خوبی؟", NormalizePersian("  سلام ،دنیا  .خوبی؟ ", false))
}

// TestNormalizePersianDigits checks digits convert only when asked.
func TestNormalizePersianDigits(t *testing.T) {
	assert.Equal(t, "سال ۱۴۰۲", NormalizePersian("سال 1402", true))
	assert.Equal(t, "سال 1402", NormalizePersian("سال 1402", false))
}

// TestNormalizePersianEmpty is a no-op on empty input.
func TestNormalizePersianEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizePersian("", true))
}
