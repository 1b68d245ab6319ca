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

// SemanticScholar fetches papers from the Semantic Scholar Graph API. The
// source is optional: without an API key Fetch reports zero records so the
// rest of the pipeline is unaffected.
type SemanticScholar struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	policy     Policy
	maxResults int
	now        func() time.Time
}

func NewSemanticScholar(policy Policy, maxResults int, apiKey string) *SemanticScholar {
	return &SemanticScholar{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.semanticscholar.org/graph/v1/paper/search",
		apiKey:     apiKey,
		policy:     policy,
		maxResults: maxResults,
		now:        time.Now,
	}
}

type semanticScholarResponse struct {
	Data []semanticScholarPaper `json:"data"`
}

type semanticScholarPaper struct {
	Title           string `json:"title"`
	Abstract        string `json:"abstract"`
	URL             string `json:"url"`
	DOI             string `json:"doi"`
	PublicationDate string `json:"publicationDate"`
}

func (s *SemanticScholar) Name() string { return "SemanticScholar" }

func (s *SemanticScholar) Fetch(ctx context.Context) ([]Record, error) {
	if s.apiKey == "" {
		return nil, nil
	}

	terms := append(append([]string{}, s.policy.MLTerms...), s.policy.ChemTerms...)
	q := url.Values{}
	q.Set("query", strings.Join(terms, " "))
	q.Set("limit", strconv.Itoa(s.maxResults))
	q.Set("fields", "title,abstract,url,doi,publicationDate")
	q.Set("sort", "publicationDate:desc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("semanticscholar: create request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semanticscholar: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semanticscholar: unexpected status %d", resp.StatusCode)
	}

	var body semanticScholarResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("semanticscholar: decode response: %w", err)
	}

	now := s.now()
	var records []Record
	for _, paper := range body.Data {
		title := NormalizeText(paper.Title)
		if title == "" {
			continue
		}
		abstract := NormalizeText(paper.Abstract)

		published := now
		if paper.PublicationDate != "" {
			if t, err := time.Parse("2006-01-02", paper.PublicationDate); err == nil {
				published = t
			}
		}
		if !s.policy.WithinWindow(published, now) {
			continue
		}
		if !s.policy.Relevant(title + " " + abstract) {
			continue
		}

		records = append(records, Record{
			Source:      s.Name(),
			Title:       title,
			Abstract:    abstract,
			URL:         paper.URL,
			DOI:         paper.DOI,
			PublishedAt: published.In(DisplayZone),
		})
	}
	return records, nil
}
