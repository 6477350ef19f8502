// ABOUTME: Field normalization for scraped film-list records
// ABOUTME: Derives search keys and converts duration/size strings to typed values

package parse

import (
	"strconv"
	"strings"
)

// SearchKey derives the normalized search form of a display name or
// title: letters, digits, space, underscore, hyphen and '#' are kept,
// everything else is dropped, the result is uppercased and trimmed.
// Search keys drive grouping and initial-letter queries, never display.
func SearchKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '_' || c == '-' || c == '#':
			b.WriteRune(c)
		}
	}
	return strings.TrimSpace(strings.ToUpper(b.String()))
}

// Duration converts a "HH:MM:SS" duration to total seconds. "00:00:00",
// an empty value, or anything that is not exactly three colon-separated
// integers means no duration is known and yields nil.
func Duration(s string) *int {
	if s == "" || s == "00:00:00" {
		return nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		total = total*60 + n
	}
	return &total
}

// SizeMB converts a film-list size field (megabytes as a decimal string)
// to an int. Empty or malformed values yield nil.
func SizeMB(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
