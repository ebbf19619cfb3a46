package cleaner

import (
	"emailcleaner/internal/config"
	"emailcleaner/pkg/serrors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Stage is one step of domain correction.
type Stage string

const (
	// StageTypoMap looks the domain up in the reference typo map.
	StageTypoMap Stage = "typo_map"
	// StageMissingTLD appends the default TLD to a dot-less domain when the result is known.
	StageMissingTLD Stage = "missing_tld"
	// StageTLDRepair rewrites corrupted top-level domains (".con" -> ".com").
	StageTLDRepair Stage = "tld_repair"
	// StageFuzzy replaces the domain with the closest known domain above the threshold.
	StageFuzzy Stage = "fuzzy"
)

const (
	// DefaultThreshold is the minimum similarity for a fuzzy correction.
	DefaultThreshold = 0.75
	// DefaultTLD is appended to domains without a dot.
	DefaultTLD = "com"
)

// Policy configures domain correction. The zero value is not usable; start from
// DefaultPolicy or NewPolicy.
type Policy struct {
	// Stages lists correction stages in the order they are tried.
	Stages []Stage
	// Threshold is the minimum similarity in [0, 1] accepted by the fuzzy stage.
	Threshold float64
	// DefaultTLD is appended by the missing TLD stage.
	DefaultTLD string
	// TLDRepairs maps a correct TLD to a regexp alternation of its corruptions,
	// e.g. "com" -> "con|cim|cm|c0m".
	TLDRepairs map[string]string
}

// DefaultPolicy returns the documented default correction policy.
func DefaultPolicy() Policy {
	return Policy{
		Stages:     []Stage{StageTypoMap, StageMissingTLD, StageTLDRepair, StageFuzzy},
		Threshold:  DefaultThreshold,
		DefaultTLD: DefaultTLD,
		TLDRepairs: map[string]string{
			"com": "con|cim|cm|c0m|comm|vom",
			"de":  "deu|d",
		},
	}
}

// NewPolicy builds a policy from the application config, falling back to the
// defaults for every unset field.
func NewPolicy(cfg *config.Config) (Policy, error) {
	p := DefaultPolicy()
	c := cfg.Cleaner

	if len(c.Stages) > 0 {
		stages, err := ParseStages(c.Stages)
		if err != nil {
			return Policy{}, err
		}
		p.Stages = stages
	}
	if c.Threshold > 0 {
		p.Threshold = c.Threshold
	}
	if c.DefaultTLD != "" {
		p.DefaultTLD = c.DefaultTLD
	}
	if len(c.TLDRepairs) > 0 {
		p.TLDRepairs = maps.Clone(c.TLDRepairs)
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// ParseStages converts stage names into stages, rejecting unknown and repeated names.
func ParseStages(names []string) ([]Stage, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		s := Stage(strings.ToLower(strings.TrimSpace(name)))
		switch s {
		case StageTypoMap, StageMissingTLD, StageTLDRepair, StageFuzzy:
		default:
			return nil, serrors.With(serrors.ErrConfiguration, "unknown correction stage %q", name)
		}
		if slices.Contains(stages, s) {
			return nil, serrors.With(serrors.ErrConfiguration, "correction stage %q listed twice", name)
		}
		stages = append(stages, s)
	}

	return stages, nil
}

// Validate reports an unusable policy as a configuration error.
func (p Policy) Validate() error {
	if p.Threshold <= 0 || p.Threshold > 1 {
		return serrors.With(serrors.ErrConfiguration, "fuzzy threshold %v is outside (0, 1]", p.Threshold)
	}
	if !IsValid("x@example." + p.DefaultTLD) {
		return serrors.With(serrors.ErrConfiguration, "default TLD %q is not valid", p.DefaultTLD)
	}
	if _, err := p.compileRepairs(); err != nil {
		return err
	}

	return nil
}

type tldRepair struct {
	pattern *regexp.Regexp
	tld     string
}

// compileRepairs returns the TLD repairs ordered by target TLD so that the
// outcome does not depend on map iteration order.
func (p Policy) compileRepairs() ([]tldRepair, error) {
	repairs := make([]tldRepair, 0, len(p.TLDRepairs))
	for _, tld := range slices.Sorted(maps.Keys(p.TLDRepairs)) {
		pattern, err := regexp.Compile(`\.(?:` + p.TLDRepairs[tld] + `)$`)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrConfiguration, err, "invalid TLD repair for %q", tld)
		}
		repairs = append(repairs, tldRepair{pattern: pattern, tld: tld})
	}

	return repairs, nil
}

func (p Policy) String() string {
	names := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = string(s)
	}

	return fmt.Sprintf("stages=%s threshold=%.2f defaultTld=%s", strings.Join(names, ","), p.Threshold, p.DefaultTLD)
}
