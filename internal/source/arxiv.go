package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Arxiv fetches recent submissions from the arXiv Atom API. The upstream
// query expresses the union of both keyword vocabularies to narrow result
// volume; relevance is re-checked locally because arXiv's full-text
// matching is broader than the policy's conjunction.
type Arxiv struct {
	client     *http.Client
	baseURL    string
	policy     Policy
	maxResults int
	now        func() time.Time
}

func NewArxiv(policy Policy, maxResults int) *Arxiv {
	return &Arxiv{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    "http://export.arxiv.org/api/query",
		policy:     policy,
		maxResults: maxResults,
		now:        time.Now,
	}
}

func (a *Arxiv) Name() string { return "arXiv" }

func (a *Arxiv) Fetch(ctx context.Context) ([]Record, error) {
	q := url.Values{}
	q.Set("search_query", a.searchQuery())
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(a.maxResults))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	feed, err := fetchFeed(ctx, a.client, a.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w", err)
	}

	now := a.now()
	var records []Record
	for _, item := range feed.Items {
		title := NormalizeText(item.Title)
		if title == "" {
			continue
		}
		abstract := NormalizeText(item.Description)

		published := itemTime(item, now)
		if !a.policy.WithinWindow(published, now) {
			continue
		}
		if !a.policy.Relevant(title + " " + abstract) {
			continue
		}

		records = append(records, Record{
			Source:      a.Name(),
			Title:       title,
			Abstract:    abstract,
			URL:         item.Link,
			PublishedAt: published.In(DisplayZone),
		})
	}
	return records, nil
}

// searchQuery builds an all-fields disjunction over both vocabularies,
// e.g. all:("machine learning" OR "polymer").
func (a *Arxiv) searchQuery() string {
	terms := make([]string, 0, len(a.policy.MLTerms)+len(a.policy.ChemTerms))
	for _, t := range a.policy.MLTerms {
		terms = append(terms, strconv.Quote(t))
	}
	for _, t := range a.policy.ChemTerms {
		terms = append(terms, strconv.Quote(t))
	}
	return fmt.Sprintf("all:(%s)", strings.Join(terms, " OR "))
}
