package cleaner

import (
	"emailcleaner/pkg/serrors"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ReferenceTable is the read-only set of known-good domains and the typo map used
// by the domain corrector. A table is never mutated after construction, so a single
// instance can be shared by any number of concurrent cleaning runs.
type ReferenceTable struct {
	// domains is sorted ascending, which makes fuzzy tie-breaking deterministic.
	domains []string
	known   map[string]struct{}
	typos   map[string]string
}

// NewReferenceTable builds a validated table from the given domains and typo map.
// Entries are lower-cased and trimmed; duplicates are merged. It fails with a
// serrors.ErrConfiguration error when the table is empty, holds an entry that is
// not a registrable domain, or lists a known domain as a typo key.
func NewReferenceTable(domains []string, typos map[string]string) (*ReferenceTable, error) {
	t := &ReferenceTable{
		known: make(map[string]struct{}, len(domains)),
		typos: make(map[string]string, len(typos)),
	}

	var errs []error
	for _, d := range domains {
		d = canonicalDomain(d)
		if err := checkDomain(d); err != nil {
			errs = append(errs, err)

			continue
		}
		t.known[d] = struct{}{}
	}

	for typo, target := range typos {
		typo, target = canonicalDomain(typo), canonicalDomain(target)
		if typo == "" {
			errs = append(errs, errors.New("typo entry with empty key"))

			continue
		}
		if err := checkDomain(target); err != nil {
			errs = append(errs, fmt.Errorf("typo %q: %w", typo, err))

			continue
		}
		t.typos[typo] = target
	}

	for _, typo := range slices.Sorted(maps.Keys(t.typos)) {
		if _, ok := t.known[typo]; ok {
			errs = append(errs, fmt.Errorf("typo %q is also a known domain", typo))
		}
	}

	if len(errs) > 0 {
		return nil, serrors.Wrap(serrors.ErrConfiguration, errors.Join(errs...), "invalid reference table")
	}
	if len(t.known) == 0 {
		return nil, serrors.With(serrors.ErrConfiguration, "reference table has no known domains")
	}

	t.domains = slices.Sorted(maps.Keys(t.known))

	return t, nil
}

// Extend returns a new table holding the entries of t plus the given ones. Typo
// entries override existing ones with the same key. t itself is left untouched.
func (t *ReferenceTable) Extend(domains []string, typos map[string]string) (*ReferenceTable, error) {
	mergedTypos := maps.Clone(t.typos)
	maps.Copy(mergedTypos, typos)

	return NewReferenceTable(slices.Concat(t.domains, domains), mergedTypos)
}

// Known reports whether domain is in the known set.
func (t *ReferenceTable) Known(domain string) bool {
	_, ok := t.known[domain]

	return ok
}

// Typo returns the correction registered for a misspelled domain.
func (t *ReferenceTable) Typo(domain string) (string, bool) {
	target, ok := t.typos[domain]

	return target, ok
}

// Domains returns a sorted copy of the known domains.
func (t *ReferenceTable) Domains() []string {
	return slices.Clone(t.domains)
}

// Typos returns a copy of the typo map.
func (t *ReferenceTable) Typos() map[string]string {
	return maps.Clone(t.typos)
}

// Len returns the number of known domains.
func (t *ReferenceTable) Len() int {
	return len(t.domains)
}

func canonicalDomain(d string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
}

// checkDomain accepts a domain that forms a valid address and sits under an
// ICANN-managed public suffix with at least one label in front of it.
func checkDomain(d string) error {
	if d == "" {
		return errors.New("empty domain")
	}
	if !IsValid("x@" + d) {
		return fmt.Errorf("domain %q is not well formed", d)
	}

	suffix, icann := publicsuffix.PublicSuffix(d)
	if !icann {
		return fmt.Errorf("domain %q has no ICANN public suffix (%q)", d, suffix)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(d); err != nil {
		return fmt.Errorf("domain %q is not registrable: %w", d, err)
	}

	return nil
}
