package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9_-]+`)
	slugDashes       = regexp.MustCompile(`-+`)

	// Letters that carry no combining mark under NFD.
	slugFold = strings.NewReplacer("đ", "d", "Đ", "D", "ø", "o", "Ø", "O", "ß", "ss", "ł", "l", "Ł", "L")
)

// GenerateSlug turns a title into a URL slug: "Café Society" -> "cafe-society".
func GenerateSlug(input string) string {
	ascii := RemoveDiacritics(slugFold.Replace(input))

	lower := strings.ToLower(strings.TrimSpace(ascii))
	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugDashes.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-_")
}

// RemoveDiacritics strips combining marks: "Nguyễn" -> "Nguyen".
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

// TruncateSlug cuts a slug to max bytes without leaving a trailing dash.
func TruncateSlug(slug string, max int) string {
	if len(slug) <= max {
		return slug
	}
	return strings.TrimRight(slug[:max], "-_")
}
