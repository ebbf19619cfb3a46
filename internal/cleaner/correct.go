package cleaner

import (
	"strings"
)

// corrector applies the correction stages of a policy against a reference table.
type corrector struct {
	table   *ReferenceTable
	policy  Policy
	repairs []tldRepair
}

func newCorrector(table *ReferenceTable, policy Policy) (*corrector, error) {
	repairs, err := policy.compileRepairs()
	if err != nil {
		return nil, err
	}

	return &corrector{table: table, policy: policy, repairs: repairs}, nil
}

// correct returns the corrected domain and whether it differs from the input
// (after trimming). Known domains are returned unchanged. It never fails: a domain
// no stage can improve is returned as is.
func (c *corrector) correct(domain string) (string, bool) {
	original := strings.Trim(strings.ToLower(domain), ". ")
	if original == "" || c.table.Known(original) {
		return original, false
	}

	current := original
	for _, stage := range c.policy.Stages {
		next, done := c.apply(stage, current)
		current = next
		if done {
			break
		}
	}

	return current, current != original
}

// apply runs one stage. done is true when the stage produced a final answer.
func (c *corrector) apply(stage Stage, domain string) (string, bool) {
	switch stage {
	case StageTypoMap:
		if target, ok := c.table.Typo(domain); ok {
			return target, true
		}
	case StageMissingTLD:
		if !strings.Contains(domain, ".") {
			if guess := domain + "." + c.policy.DefaultTLD; c.table.Known(guess) {
				return guess, true
			}
		}
	case StageTLDRepair:
		for _, r := range c.repairs {
			if r.pattern.MatchString(domain) {
				repaired := r.pattern.ReplaceAllLiteralString(domain, "."+r.tld)

				return repaired, c.table.Known(repaired)
			}
		}
	case StageFuzzy:
		if match, ok := closestDomain(domain, c.table.domains, c.policy.Threshold); ok {
			return match, true
		}
	}

	return domain, c.table.Known(domain)
}
