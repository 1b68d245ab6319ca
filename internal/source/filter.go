package source

import (
	"strings"
	"time"
)

// Policy holds the per-run relevance and recency rules: two keyword
// vocabularies (machine learning terms and chemistry terms) and a lookback
// window. Built once from configuration and immutable for the run.
type Policy struct {
	MLTerms   []string
	ChemTerms []string
	Lookback  time.Duration
}

// NewPolicy lower-cases both vocabularies up front so matching never has
// to re-fold the terms.
func NewPolicy(mlKeywords, chemKeywords []string, lookbackHours int) Policy {
	return Policy{
		MLTerms:   lowerAll(mlKeywords),
		ChemTerms: lowerAll(chemKeywords),
		Lookback:  time.Duration(lookbackHours) * time.Hour,
	}
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

// WithinWindow reports whether t falls inside the lookback window measured
// against now. Future-dated timestamps yield a negative difference and are
// accepted; providers occasionally publish ahead-of-print dates.
func (p Policy) WithinWindow(t, now time.Time) bool {
	return now.Sub(t) <= p.Lookback
}

// Relevant reports whether text contains at least one term from each
// vocabulary. Matching is case-insensitive substring matching over the
// concatenated title+abstract text. An empty vocabulary can never be
// satisfied, so the policy then rejects everything.
func (p Policy) Relevant(text string) bool {
	t := strings.ToLower(text)
	return containsAny(t, p.MLTerms) && containsAny(t, p.ChemTerms)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
