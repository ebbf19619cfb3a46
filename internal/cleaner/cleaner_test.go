package cleaner_test

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/serrors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment, "info")
	os.Exit(m.Run())
}

func newDefaultCleaner(t *testing.T) cleaner.Cleaner {
	t.Helper()

	c, err := cleaner.New(cleaner.DefaultReferenceTable(), cleaner.DefaultPolicy())
	require.NoError(t, err)

	return c
}

func TestCleanScenarios(t *testing.T) {
	cases := []struct {
		name     string
		tokens   []string
		cleaned  []string
		removed  []domain.Rejection
		summary  domain.Summary
		corrects []domain.Correction
	}{
		{
			name:    "structural repair and deobfuscation",
			tokens:  []string{"john..doe@gmail.com", ".alice@yahoo.com", "bob[at]yahoo[dot]com"},
			cleaned: []string{"john.doe@gmail.com", "alice@yahoo.com", "bob@yahoo.com"},
			removed: []domain.Rejection{},
			summary: domain.Summary{TotalInput: 3, Kept: 3},
		},
		{
			name:    "spaced separators and case-insensitive duplicates",
			tokens:  []string{"peter @ protonmail . com", "eve@icloud.com ", "Eve@icloud.com"},
			cleaned: []string{"eve@icloud.com", "peter@protonmail.com"},
			removed: []domain.Rejection{},
			summary: domain.Summary{TotalInput: 3, Kept: 2, Duplicates: 1},
		},
		{
			name:     "typo domain and corrupted TLD",
			tokens:   []string{"frank@gnail.con"},
			cleaned:  []string{"frank@gmail.com"},
			removed:  []domain.Rejection{},
			summary:  domain.Summary{TotalInput: 1, Kept: 1, Corrected: 1},
			corrects: []domain.Correction{{Original: "frank@gnail.con", Corrected: "frank@gmail.com"}},
		},
		{
			name:    "missing at sign and blank token",
			tokens:  []string{"no_at_symbol.com", " "},
			cleaned: []string{},
			removed: []domain.Rejection{{Original: "no_at_symbol.com", Reason: domain.RejectReasonNoAt}},
			summary: domain.Summary{TotalInput: 1, Removed: 1},
		},
		{
			name:     "stray separators next to at",
			tokens:   []string{"james059@,.gmai.com"},
			cleaned:  []string{"james059@gmail.com"},
			removed:  []domain.Rejection{},
			summary:  domain.Summary{TotalInput: 1, Kept: 1, Corrected: 1},
			corrects: []domain.Correction{{Original: "james059@gmai.com", Corrected: "james059@gmail.com"}},
		},
	}

	c := newDefaultCleaner(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := c.Clean(context.Background(), tc.tokens)

			require.Equal(t, tc.cleaned, res.Cleaned)
			require.Equal(t, tc.removed, res.Removed)
			require.Equal(t, tc.summary, res.Summary)
			if tc.corrects == nil {
				tc.corrects = []domain.Correction{}
			}
			require.Equal(t, tc.corrects, res.Corrections)
		})
	}
}

func TestCleanSplitting(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), []string{
		"a@gmail.com;b@gmail.com|c@gmail.com\nd@gmail.com\te@gmail.com",
		"alice@web.de bob@web.de",
		"carol at web dot de, dave (at) web (dot) de",
	})

	require.Equal(t, []string{
		"a@gmail.com", "b@gmail.com", "c@gmail.com", "d@gmail.com", "e@gmail.com",
		"alice@web.de", "bob@web.de", "carol@web.de", "dave@web.de",
	}, res.Cleaned)
	require.Equal(t, 9, res.Summary.TotalInput)
}

func TestCleanSeparatorNextToAt(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), []string{"bob;@web.de", "carol@ ,web.de", "dave@;\ngmx.de"})

	require.Equal(t, []string{"dave@gmx.de", "bob@web.de", "carol@web.de"}, res.Cleaned)
	require.Empty(t, res.Removed)
	require.Empty(t, res.Corrections)
	require.Equal(t, domain.Summary{TotalInput: 3, Kept: 3}, res.Summary)
}

func TestCleanMultiAddressKeepsReceivedSpelling(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), []string{"Alice@Web.de BOB@", "Eve at gmx dot de Mallory (at)"})

	require.Equal(t, []string{"eve@gmx.de", "alice@web.de"}, res.Cleaned)
	require.Equal(t, []domain.Rejection{
		{Original: "BOB@", Reason: domain.RejectReasonInvalidFormat},
		{Original: "mallory@", Reason: domain.RejectReasonInvalidFormat},
	}, res.Removed)
	require.Equal(t, domain.Summary{TotalInput: 4, Kept: 2, Removed: 2}, res.Summary)
}

func TestCleanRejections(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), []string{"john@", "@gmail.com", "john@localhost", "plain words"})

	require.Empty(t, res.Cleaned)
	require.Equal(t, []domain.Rejection{
		{Original: "john@", Reason: domain.RejectReasonInvalidFormat},
		{Original: "@gmail.com", Reason: domain.RejectReasonInvalidFormat},
		{Original: "john@localhost", Reason: domain.RejectReasonInvalidFormat},
		{Original: "plain words", Reason: domain.RejectReasonNoAt},
	}, res.Removed)
	require.Equal(t, domain.Summary{TotalInput: 4, Removed: 4}, res.Summary)
	require.True(t, res.Empty())
}

func TestCleanCorrectionOfDuplicateIsNotReported(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), []string{"frank@gmail.com", "frank@gnail.con"})

	require.Equal(t, []string{"frank@gmail.com"}, res.Cleaned)
	require.Empty(t, res.Corrections)
	require.Equal(t, 1, res.Summary.Duplicates)
}

func TestCleanEmptyInput(t *testing.T) {
	c := newDefaultCleaner(t)

	res := c.Clean(context.Background(), nil)
	require.NotNil(t, res.Cleaned)
	require.NotNil(t, res.Removed)
	require.Equal(t, domain.Summary{}, res.Summary)
}

// messyInput mixes every kind of noise the pipeline handles.
var messyInput = []string{
	"John..Doe@Gmail.com", "<john.doe@gmail.com>", "zed@web.de", "amy@web.de",
	"bob[at]yahoo[dot]com", "bob@yahoo.com", "x@@y..z", "nothing here", "",
	"frank@gnail.con, frank@gmail.com", "  ", "james059@,.gmai.com", "lea@hotmai.com",
	"peter @ protonmail . com | paula@protonmail.com", "kim@company-intranet.org",
	"'quoted@web.de';", "a@b@c.com",
}

func TestCleanProperties(t *testing.T) {
	c := newDefaultCleaner(t)
	ctx := context.Background()

	res := c.Clean(ctx, messyInput)

	t.Run("count conservation", func(t *testing.T) {
		s := res.Summary
		require.Equal(t, s.TotalInput, s.Kept+s.Removed+s.Duplicates)
		require.Equal(t, len(res.Cleaned), s.Kept)
		require.Equal(t, len(res.Removed), s.Removed)
	})

	t.Run("no duplicates", func(t *testing.T) {
		require.Len(t, slices.Compact(slices.Clone(res.Cleaned)), len(res.Cleaned))
	})

	t.Run("validator soundness", func(t *testing.T) {
		for _, email := range res.Cleaned {
			require.True(t, cleaner.IsValid(email), email)
		}
	})

	t.Run("sorted by domain then local part", func(t *testing.T) {
		for i := 1; i < len(res.Cleaned); i++ {
			pl, pd, _ := strings.Cut(res.Cleaned[i-1], "@")
			cl, cd, _ := strings.Cut(res.Cleaned[i], "@")
			require.True(t, pd < cd || (pd == cd && pl < cl), "%s before %s", res.Cleaned[i-1], res.Cleaned[i])
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		for range 5 {
			require.Equal(t, res, c.Clean(ctx, messyInput))
		}
	})

	t.Run("stable under re-cleaning", func(t *testing.T) {
		again := c.Clean(ctx, res.Cleaned)
		require.Equal(t, res.Cleaned, again.Cleaned)
		require.Empty(t, again.Removed)
	})
}

func TestCorrectDomain(t *testing.T) {
	cases := []struct {
		in        string
		out       string
		corrected bool
	}{
		{in: "gmail.com", out: "gmail.com"},
		{in: " GMAIL.COM.", out: "gmail.com"},
		{in: "gnail.con", out: "gmail.com", corrected: true},
		{in: "gmail", out: "gmail.com", corrected: true},
		{in: "yahoo.cim", out: "yahoo.com", corrected: true},
		{in: "web.d", out: "web.de", corrected: true},
		{in: "gmaill.com", out: "gmail.com", corrected: true},
		{in: "hotmai.com", out: "hotmail.com", corrected: true},
		{in: "hotmail.fr", out: "hotmail.fr"},
		{in: "company-intranet.org", out: "company-intranet.org"},
		{in: "", out: ""},
	}

	c := newDefaultCleaner(t)
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			out, corrected := c.CorrectDomain(tc.in)
			require.Equal(t, tc.out, out)
			require.Equal(t, tc.corrected, corrected)
		})
	}
}

func TestCorrectDomainStageSelection(t *testing.T) {
	table := cleaner.DefaultReferenceTable()

	cases := []struct {
		name   string
		stages []cleaner.Stage
		in     string
		out    string
	}{
		{name: "typo map only ignores near misses", stages: []cleaner.Stage{cleaner.StageTypoMap}, in: "gmaill.com", out: "gmaill.com"},
		{name: "missing tld only", stages: []cleaner.Stage{cleaner.StageMissingTLD}, in: "gmail", out: "gmail.com"},
		{name: "missing tld needs a known result", stages: []cleaner.Stage{cleaner.StageMissingTLD}, in: "mycorp", out: "mycorp"},
		{name: "tld repair keeps unknown repaired domain", stages: []cleaner.Stage{cleaner.StageTLDRepair}, in: "gnail.con", out: "gnail.com"},
		{name: "repair then fuzzy", stages: []cleaner.Stage{cleaner.StageTLDRepair, cleaner.StageFuzzy}, in: "gnail.con", out: "gmail.com"},
		{name: "no stages", stages: []cleaner.Stage{}, in: "gnail.con", out: "gnail.con"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := cleaner.DefaultPolicy()
			policy.Stages = tc.stages

			c, err := cleaner.New(table, policy)
			require.NoError(t, err)

			out, _ := c.CorrectDomain(tc.in)
			require.Equal(t, tc.out, out)
		})
	}
}

func TestCorrectDomainThresholdAndTies(t *testing.T) {
	table, err := cleaner.NewReferenceTable([]string{"abd.com", "abc.com", "gmail.com"}, nil)
	require.NoError(t, err)

	policy := cleaner.DefaultPolicy()
	policy.Stages = []cleaner.Stage{cleaner.StageFuzzy}

	c, err := cleaner.New(table, policy)
	require.NoError(t, err)

	// abx.com is one edit away from both abc.com and abd.com
	out, corrected := c.CorrectDomain("abx.com")
	require.True(t, corrected)
	require.Equal(t, "abc.com", out)

	policy.Threshold = 0.95
	strict, err := cleaner.New(table, policy)
	require.NoError(t, err)

	out, corrected = strict.CorrectDomain("gmaill.com")
	require.False(t, corrected)
	require.Equal(t, "gmaill.com", out)
}

func TestPolicy(t *testing.T) {
	stages, err := cleaner.ParseStages([]string{"fuzzy", " TYPO_MAP "})
	require.NoError(t, err)
	require.Equal(t, []cleaner.Stage{cleaner.StageFuzzy, cleaner.StageTypoMap}, stages)

	_, err = cleaner.ParseStages([]string{"soundex"})
	require.ErrorIs(t, err, serrors.ErrConfiguration)

	_, err = cleaner.ParseStages([]string{"fuzzy", "fuzzy"})
	require.ErrorIs(t, err, serrors.ErrConfiguration)

	invalid := []func(p *cleaner.Policy){
		func(p *cleaner.Policy) { p.Threshold = 0 },
		func(p *cleaner.Policy) { p.Threshold = 1.5 },
		func(p *cleaner.Policy) { p.DefaultTLD = "c" },
		func(p *cleaner.Policy) { p.TLDRepairs = map[string]string{"com": "(con"} },
	}
	for i, mutate := range invalid {
		p := cleaner.DefaultPolicy()
		mutate(&p)
		require.ErrorIs(t, p.Validate(), serrors.ErrConfiguration, "case %d", i)

		_, err := cleaner.New(cleaner.DefaultReferenceTable(), p)
		require.Error(t, err, "case %d", i)
	}
}

func TestNewPolicy(t *testing.T) {
	var cfg config.Config
	p, err := cleaner.NewPolicy(&cfg)
	require.NoError(t, err)
	require.Equal(t, cleaner.DefaultPolicy(), p)

	cfg.Cleaner.Threshold = 0.9
	cfg.Cleaner.DefaultTLD = "de"
	cfg.Cleaner.Stages = []string{"missing_tld"}
	cfg.Cleaner.TLDRepairs = map[string]string{"de": "deu"}

	p, err = cleaner.NewPolicy(&cfg)
	require.NoError(t, err)
	require.InDelta(t, 0.9, p.Threshold, 1e-9)
	require.Equal(t, "de", p.DefaultTLD)
	require.Equal(t, []cleaner.Stage{cleaner.StageMissingTLD}, p.Stages)
	require.Equal(t, map[string]string{"de": "deu"}, p.TLDRepairs)

	cfg.Cleaner.Stages = []string{"unknown"}
	_, err = cleaner.NewPolicy(&cfg)
	require.ErrorIs(t, err, serrors.ErrConfiguration)
}
