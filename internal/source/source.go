package source

import (
	"context"
	"strings"
	"time"
)

// DisplayZone is the timezone every record timestamp is converted to at
// creation time. The digest is rendered for a Japanese audience.
var DisplayZone = time.FixedZone("JST", 9*60*60)

// Record is the uniform representation of one candidate publication after
// provider-specific parsing. Records are created by a Source, enriched in
// place by the summarizer stage, and handed off to publishers unchanged.
type Record struct {
	Source      string
	Title       string
	Abstract    string
	URL         string
	DOI         string
	PublishedAt time.Time
	Summary     string
}

// DedupKey derives the identity used to collapse records describing the
// same work: the DOI when present, else the URL, else the title, all
// lower-cased. An empty key means the record carries no usable identity
// and is never treated as a duplicate of anything.
func (r Record) DedupKey() string {
	switch {
	case r.DOI != "":
		return strings.ToLower(r.DOI)
	case r.URL != "":
		return strings.ToLower(r.URL)
	default:
		return strings.ToLower(r.Title)
	}
}

// Source fetches recent records from one upstream provider. Implementations
// normalize text, window-filter, and relevance-filter entries before
// returning them, so everything a Source emits is already digest-eligible.
// A failed provider call surfaces as an error; the caller decides how to
// degrade (the pipeline logs it and carries on with the other sources).
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}
