package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// deobfuscationRules run in order; bracketed forms go first so that "[at]" is not
// half-consumed by the bare-word rules.
var deobfuscationRules = []rewriteRule{ //nolint: gochecknoglobals
	{regexp.MustCompile(`\s*[(\[{<]\s*at\s*[)\]}>]\s*`), "@"},
	{regexp.MustCompile(`\s*[(\[{<]\s*dot\s*[)\]}>]\s*`), "."},
	{regexp.MustCompile(`\s+at\s+`), "@"},
	{regexp.MustCompile(`\s+dot\s+`), "."},
	{regexp.MustCompile(`\s*@\s*`), "@"},
	{regexp.MustCompile(`\s+\.\s+`), "."},
}

// Deobfuscate rewrites human-obfuscated address notation ("bob [at] mail [dot] com",
// "peter @ mail . com") into canonical form. The input is compatibility-folded
// (full-width '＠' becomes '@'), lower-cased and trimmed first.
func Deobfuscate(s string) string {
	s = strings.TrimSpace(strings.ToLower(fold(s)))
	for _, rule := range deobfuscationRules {
		s = rule.pattern.ReplaceAllLiteralString(s, rule.replacement)
	}

	return s
}

// fold applies NFKC and drops zero-width format characters that survive it.
func fold(s string) string {
	t := transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cf)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}
