package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Crossref fetches recently published works from the Crossref REST API.
// Abstracts arrive as JATS XML and are stripped to plain text before
// filtering. Crossref asks polite callers to identify themselves with a
// mailto parameter.
type Crossref struct {
	client     *http.Client
	baseURL    string
	mailto     string
	policy     Policy
	maxResults int
	now        func() time.Time
}

func NewCrossref(policy Policy, maxResults int, mailto string) *Crossref {
	return &Crossref{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.crossref.org/works",
		mailto:     mailto,
		policy:     policy,
		maxResults: maxResults,
		now:        time.Now,
	}
}

type crossrefResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	Title           []string      `json:"title"`
	Abstract        string        `json:"abstract"`
	URL             string        `json:"URL"`
	DOI             string        `json:"DOI"`
	PublishedPrint  *crossrefDate `json:"published-print"`
	PublishedOnline *crossrefDate `json:"published-online"`
	Created         struct {
		DateTime string `json:"date-time"`
	} `json:"created"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (c *Crossref) Name() string { return "Crossref" }

func (c *Crossref) Fetch(ctx context.Context) ([]Record, error) {
	now := c.now()
	since := now.Add(-c.policy.Lookback).UTC().Format("2006-01-02")

	terms := append(append([]string{}, c.policy.MLTerms...), c.policy.ChemTerms...)
	q := url.Values{}
	q.Set("query", strings.Join(terms, " "))
	q.Set("filter", "from-pub-date:"+since)
	q.Set("rows", strconv.Itoa(c.maxResults))
	q.Set("sort", "published")
	q.Set("order", "desc")
	if c.mailto != "" {
		q.Set("mailto", c.mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("crossref: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crossref: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref: unexpected status %d", resp.StatusCode)
	}

	var body crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("crossref: decode response: %w", err)
	}

	var records []Record
	for _, work := range body.Message.Items {
		title := NormalizeText(strings.Join(work.Title, " "))
		if title == "" {
			continue
		}
		abstract := NormalizeText(StripHTML(work.Abstract))

		published := c.workTime(work, now)
		if !c.policy.WithinWindow(published, now) {
			continue
		}
		if !c.policy.Relevant(title + " " + abstract) {
			continue
		}

		records = append(records, Record{
			Source:      c.Name(),
			Title:       title,
			Abstract:    abstract,
			URL:         work.URL,
			DOI:         work.DOI,
			PublishedAt: published.In(DisplayZone),
		})
	}
	return records, nil
}

// workTime resolves the publication timestamp through the Crossref
// precedence chain: published-print, then published-online, then the
// deposit creation time, then now. date-parts may omit month and day.
func (c *Crossref) workTime(work crossrefWork, now time.Time) time.Time {
	if t, ok := dateFromParts(work.PublishedPrint); ok {
		return t
	}
	if t, ok := dateFromParts(work.PublishedOnline); ok {
		return t
	}
	if work.Created.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, work.Created.DateTime); err == nil {
			return t
		}
	}
	return now
}

func dateFromParts(d *crossrefDate) (time.Time, bool) {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return time.Time{}, false
	}
	parts := d.DateParts[0]
	year := parts[0]
	if year == 0 {
		return time.Time{}, false
	}
	month, day := 1, 1
	if len(parts) > 1 && parts[1] > 0 {
		month = parts[1]
	}
	if len(parts) > 2 && parts[2] > 0 {
		day = parts[2]
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
