package cleaner

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// wrappingChars are stripped from both ends of a candidate.
	wrappingChars = "<>\"'` ,;:!()[]{}"
	// boundaryChars are stray separators that end up next to '@'.
	boundaryChars = ".,;:"
	// maxNormalizePasses bounds the fixpoint loop; real input settles in two passes.
	maxNormalizePasses = 8
)

var (
	repeatedAt  = regexp.MustCompile(`@{2,}`)  //nolint: gochecknoglobals
	repeatedDot = regexp.MustCompile(`\.{2,}`) //nolint: gochecknoglobals
)

// Normalize repairs the structure of a single candidate: wrapping punctuation and
// quotes are stripped, whitespace and junk characters removed, repeated '@' and '.'
// collapsed and the result lower-cased. When exactly one '@' remains, leading and
// trailing dots of the local part and stray separators next to '@' are removed.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	for range maxNormalizePasses {
		next := normalizePass(s)
		if next == s {
			return next
		}
		s = next
	}

	return s
}

func normalizePass(s string) string {
	s = strings.Trim(s, wrappingChars)
	s = strings.Map(dropJunk, s)
	s = repeatedAt.ReplaceAllLiteralString(s, "@")
	s = repeatedDot.ReplaceAllLiteralString(s, ".")
	s = strings.ToLower(s)

	if strings.Count(s, "@") != 1 {
		return s
	}

	local, domain, _ := strings.Cut(s, "@")
	local = strings.Trim(local, ".")
	local = strings.TrimRight(local, boundaryChars)
	domain = strings.TrimLeft(domain, boundaryChars)

	return local + "@" + domain
}

// dropJunk removes characters that never belong in an address.
func dropJunk(r rune) rune {
	switch {
	case unicode.IsSpace(r), unicode.IsControl(r), unicode.Is(unicode.Cf, r):
		return -1
	case strings.ContainsRune("\"'`()[]{}<>,;:!", r):
		return -1
	default:
		return r
	}
}
