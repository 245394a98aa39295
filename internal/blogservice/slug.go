package blogservice

import (
	"strings"
	"unicode"
)

const wordsPerMinute = 200

// GenerateSlug lowercases title, drops punctuation and joins the remaining
// words with single hyphens. Only ASCII letters and digits survive.
func GenerateSlug(title string) string {
	var b strings.Builder
	sep := false

	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			sep = true
		}
	}

	return b.String()
}

// CalculateReadTime estimates minutes to read text. Blank text is 0 minutes,
// anything else at least 1.
func CalculateReadTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	return (words + wordsPerMinute - 1) / wordsPerMinute
}
