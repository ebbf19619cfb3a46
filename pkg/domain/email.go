package domain

import "strings"

// RejectReason explains why a candidate was dropped from a cleaning result.
type RejectReason string

const (
	// RejectReasonNoAt indicates the candidate had no '@' left after normalization.
	RejectReasonNoAt RejectReason = "no_at"
	// RejectReasonInvalidFormat indicates the candidate had a local@domain shape but
	// failed validation even after domain correction.
	RejectReasonInvalidFormat RejectReason = "invalid_format"
)

// Rejection is an audit record of a candidate that was hard-rejected.
type Rejection struct {
	// Original is the sub-candidate as it was received (trimmed). Addresses that only
	// separate after deobfuscation ("a at x.de b at y.de") are reported in their
	// deobfuscated form.
	Original string `json:"original"`
	// Reason is the rejection category.
	Reason RejectReason `json:"reason"`
}

// Correction records a domain rewrite applied to an address that was kept.
type Correction struct {
	// Original is the address before domain correction (after normalization).
	Original string `json:"original"`
	// Corrected is the address that ended up in the cleaned list.
	Corrected string `json:"corrected"`
}

// Summary holds the counts of one cleaning run.
// TotalInput always equals Kept + Removed + Duplicates.
type Summary struct {
	// TotalInput is the number of non-empty sub-candidates considered.
	TotalInput int `json:"totalInput"`
	// Kept is the number of unique valid addresses in the result.
	Kept int `json:"kept"`
	// Removed is the number of hard rejections (duplicates excluded).
	Removed int `json:"removed"`
	// Duplicates is the number of exact repeats dropped after the first occurrence.
	Duplicates int `json:"duplicates"`
	// Corrected is the number of kept addresses whose domain was rewritten.
	Corrected int `json:"corrected"`
}

// Result is the complete output of one batch cleaning run. It is created once
// per run and must not be modified afterwards.
type Result struct {
	// Cleaned holds unique valid addresses sorted by (domain, local part).
	Cleaned []string `json:"cleaned"`
	// Removed holds hard rejections in input order.
	Removed []Rejection `json:"removed"`
	// Corrections holds domain rewrites of kept addresses in input order.
	Corrections []Correction `json:"corrections"`
	// Summary holds the run counts.
	Summary Summary `json:"summary"`
}

// Empty reports whether the run produced no cleaned address.
func (r *Result) Empty() bool {
	return r == nil || len(r.Cleaned) == 0
}

// SplitAddress splits an address on its first '@'. ok is false when there is no '@'.
func SplitAddress(email string) (local, domain string, ok bool) {
	local, domain, ok = strings.Cut(email, "@")

	return local, domain, ok
}
