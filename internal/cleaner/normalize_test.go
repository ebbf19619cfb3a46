package cleaner_test

import (
	"emailcleaner/internal/cleaner"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeobfuscate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "square brackets", in: "bob[at]yahoo[dot]com", out: "bob@yahoo.com"},
		{name: "parentheses with spaces", in: "bob (at) yahoo (dot) com", out: "bob@yahoo.com"},
		{name: "curly and angle brackets", in: "bob{at}yahoo<dot>com", out: "bob@yahoo.com"},
		{name: "bare words", in: "john at gmail dot com", out: "john@gmail.com"},
		{name: "spaces around separators", in: "peter @ protonmail . com", out: "peter@protonmail.com"},
		{name: "lowercase and trim", in: "  KATE@Example.COM ", out: "kate@example.com"},
		{name: "words inside local part untouched", in: "kate.dotson@web.de", out: "kate.dotson@web.de"},
		{name: "full-width characters folded", in: "ｍａｒｙ＠ｅｘａｍｐｌｅ．ｃｏｍ", out: "mary@example.com"},
		{name: "zero-width space removed", in: "jo\u200bhn@gmail.com", out: "john@gmail.com"},
		{name: "plain text without address", in: "Hello World", out: "hello world"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, cleaner.Deobfuscate(tc.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "angle brackets and case", in: "<John.Doe@Gmail.com>", out: "john.doe@gmail.com"},
		{name: "repeated dots", in: "john..doe@gmail.com", out: "john.doe@gmail.com"},
		{name: "leading dot in local part", in: ".alice@yahoo.com", out: "alice@yahoo.com"},
		{name: "trailing dot in local part", in: "alice.@yahoo.com", out: "alice@yahoo.com"},
		{name: "separators after at", in: "james059@,.gmai.com", out: "james059@gmai.com"},
		{name: "separators before at", in: "james059;.@gmail.com", out: "james059@gmail.com"},
		{name: "repeated at", in: "bob@@example.com", out: "bob@example.com"},
		{name: "quotes and trailing semicolon", in: "'eve@icloud.com';", out: "eve@icloud.com"},
		{name: "inner whitespace", in: "a b@gmail.com", out: "ab@gmail.com"},
		{name: "junk characters", in: "(mail:)frank!@web.de", out: "mailfrank@web.de"},
		{name: "no at sign", in: "no_at_symbol.com", out: "no_at_symbol.com"},
		{name: "two at signs left alone", in: "a@b@c.com", out: "a@b@c.com"},
		{name: "empty", in: "", out: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, cleaner.Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"<John.Doe@Gmail.com>",
		"..a..@..b..c..",
		"\"'<[(x)]>'\"@@@@y..z",
		" ;:.mail.@.;gmail.com;: ",
		"@@@",
		"...",
		"a.@.b",
		"İstanbul@web.de",
		"x\u200b@\u00a0y.com",
		"'.'@'.'",
	}

	for _, in := range inputs {
		once := cleaner.Normalize(in)
		require.Equal(t, once, cleaner.Normalize(once), "normalize is not idempotent for %q", in)
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{
		"john.doe@gmail.com",
		"a+b@mail.co.uk",
		"a_b%c-d@sub-domain.example.org",
		"james059@gmail.com",
	}
	invalid := []string{
		"John@gmail.com",
		"john@gmail",
		"john@gmail.c",
		"@gmail.com",
		"john@",
		"john@@gmail.com",
		"jöhn@gmail.com",
		"john doe@gmail.com",
		"john@gmail.c0m",
		"",
	}

	for _, email := range valid {
		require.True(t, cleaner.IsValid(email), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		require.False(t, cleaner.IsValid(email), "expected %q to be invalid", email)
	}
}

func TestSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cleaner.Similarity("gmail.com", "gmail.com"), 1e-9)
	require.InDelta(t, 1.0, cleaner.Similarity("", ""), 1e-9)
	require.InDelta(t, 0.0, cleaner.Similarity("abc", ""), 1e-9)
	// a transposition costs two edits
	require.InDelta(t, 1-2.0/9, cleaner.Similarity("gmial.com", "gmail.com"), 1e-9)
	require.InDelta(t, 1-1.0/10, cleaner.Similarity("gmaill.com", "gmail.com"), 1e-9)
	require.Equal(t, cleaner.Similarity("a.com", "b.org"), cleaner.Similarity("b.org", "a.com"))
}
