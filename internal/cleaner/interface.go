package cleaner

import (
	"context"
	"emailcleaner/pkg/domain"
)

//go:generate mockgen -package mockcleaner -source=interface.go -destination=mock/mockcleaner.go *
type Cleaner interface {
	// Clean turns raw text tokens into a deduplicated, validated and sorted list of
	// addresses. It never fails; per-candidate problems are reported in the result.
	Clean(ctx context.Context, tokens []string) *domain.Result
	// CorrectDomain returns the corrected form of a single domain and whether it changed.
	CorrectDomain(domain string) (string, bool)
}
