package cleaner

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`) //nolint: gochecknoglobals

// IsValid reports whether email has the strict lower-case address shape accepted in
// cleaned output. It is a syntactic check only; deliverability is not verified.
func IsValid(email string) bool {
	return emailPattern.MatchString(email)
}
