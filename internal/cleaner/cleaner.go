package cleaner

import (
	"cmp"
	"context"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/logger"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// tokenSeparators split a raw token into sub-candidates.
var tokenSeparators = regexp.MustCompile(`[,;|\t\r\n]+`) //nolint: gochecknoglobals

// cleaner is the concrete implementation of the Cleaner interface. It holds no
// mutable state, so one instance serves concurrent callers.
type cleaner struct {
	corrector *corrector
}

// New constructs a Cleaner bound to a reference table and correction policy.
// It fails with a serrors.ErrConfiguration error when the policy is unusable.
func New(table *ReferenceTable, policy Policy) (Cleaner, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	c, err := newCorrector(table, policy)
	if err != nil {
		return nil, err
	}

	return &cleaner{corrector: c}, nil
}

// CorrectDomain runs the correction stages on a single domain.
func (c *cleaner) CorrectDomain(domain string) (string, bool) {
	return c.corrector.correct(domain)
}

// batch is the state of one Clean call. debug is checked once per batch since
// per-candidate logs are debug only.
type batch struct {
	ctx    context.Context
	debug  bool
	seen   map[string]struct{}
	result domain.Result
}

// Clean processes tokens in input order. The first occurrence of an address wins,
// later ones only increase the duplicate count.
func (c *cleaner) Clean(ctx context.Context, tokens []string) *domain.Result {
	b := &batch{
		ctx:   ctx,
		debug: logger.IsDebug(ctx),
		seen:  make(map[string]struct{}),
		result: domain.Result{
			Cleaned:     []string{},
			Removed:     []domain.Rejection{},
			Corrections: []domain.Correction{},
		},
	}

	for _, token := range tokens {
		for _, piece := range splitToken(token) {
			c.process(b, piece)
		}
	}

	slices.SortFunc(b.result.Cleaned, compareAddresses)

	res := &b.result
	res.Summary.Kept = len(res.Cleaned)
	res.Summary.Removed = len(res.Removed)
	res.Summary.Corrected = len(res.Corrections)

	logger.Info(ctx, "cleaned batch",
		zap.Int("totalInput", res.Summary.TotalInput),
		zap.Int("kept", res.Summary.Kept),
		zap.Int("removed", res.Summary.Removed),
		zap.Int("duplicates", res.Summary.Duplicates),
		zap.Int("corrected", res.Summary.Corrected))

	return res
}

func (c *cleaner) process(b *batch, original string) {
	b.result.Summary.TotalInput++

	candidate := Normalize(Deobfuscate(original))
	local, dom, ok := domain.SplitAddress(candidate)
	if !ok {
		b.reject(original, domain.RejectReasonNoAt)

		return
	}
	if local == "" || dom == "" {
		b.reject(original, domain.RejectReasonInvalidFormat)

		return
	}

	fixed, corrected := c.corrector.correct(dom)
	email := local + "@" + fixed
	if !IsValid(email) {
		b.reject(original, domain.RejectReasonInvalidFormat)

		return
	}

	if _, dup := b.seen[email]; dup {
		b.result.Summary.Duplicates++

		return
	}
	b.seen[email] = struct{}{}
	b.result.Cleaned = append(b.result.Cleaned, email)

	if corrected {
		if b.debug {
			logger.Debug(b.ctx, "corrected domain", zap.String("from", dom), zap.String("to", fixed))
		}
		b.result.Corrections = append(b.result.Corrections, domain.Correction{
			Original:  local + "@" + dom,
			Corrected: email,
		})
	}
}

func (b *batch) reject(original string, reason domain.RejectReason) {
	if b.debug {
		logger.Debug(b.ctx, "rejected candidate", zap.String("candidate", original), zap.String("reason", string(reason)))
	}
	b.result.Removed = append(b.result.Removed, domain.Rejection{Original: original, Reason: reason})
}

// splitToken breaks a raw token into trimmed, non-empty sub-candidates. Separator
// runs next to an '@' belong to a single mangled address and do not split it. A piece
// that still holds several '@' after deobfuscation is further split on whitespace.
func splitToken(token string) []string {
	var pieces []string
	start := 0
	for _, loc := range tokenSeparators.FindAllStringIndex(token, -1) {
		if touchesAt(token, loc[0], loc[1]) {
			continue
		}
		pieces = appendPiece(pieces, token[start:loc[0]])
		start = loc[1]
	}

	return appendPiece(pieces, token[start:])
}

// touchesAt reports whether the separator run token[from:to] sits next to an '@',
// ignoring blanks and dots in between.
func touchesAt(token string, from, to int) bool {
	before := strings.TrimRightFunc(token[:from], isBlankOrDot)
	after := strings.TrimLeftFunc(token[to:], isBlankOrDot)

	return strings.HasSuffix(before, "@") || strings.HasPrefix(after, "@")
}

func isBlankOrDot(r rune) bool {
	return r == '.' || unicode.IsSpace(r)
}

func appendPiece(pieces []string, part string) []string {
	part = strings.TrimSpace(part)
	if part == "" {
		return pieces
	}

	deobfuscated := Deobfuscate(part)
	if strings.Count(deobfuscated, "@") <= 1 || !strings.ContainsFunc(deobfuscated, unicode.IsSpace) {
		return append(pieces, part)
	}

	fields := strings.Fields(deobfuscated)
	// keep the received spelling unless deobfuscation moved a field boundary.
	if received := strings.Fields(part); len(received) == len(fields) {
		fields = received
	}

	return append(pieces, fields...)
}

// compareAddresses orders addresses by domain, then local part.
func compareAddresses(a, b string) int {
	al, ad, _ := domain.SplitAddress(a)
	bl, bd, _ := domain.SplitAddress(b)

	return cmp.Or(strings.Compare(ad, bd), strings.Compare(al, bl))
}
