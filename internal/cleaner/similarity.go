package cleaner

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns the normalized Levenshtein ratio of a and b in [0, 1]:
// 1 - distance / max(len(a), len(b)), measured in runes.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// closestDomain returns the candidate with the highest similarity to domain, if it
// reaches threshold. candidates must be sorted; on ties the first (lexicographically
// smallest) wins.
func closestDomain(domain string, candidates []string, threshold float64) (string, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if score := Similarity(domain, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if best == "" || bestScore < threshold {
		return "", false
	}

	return best, true
}
