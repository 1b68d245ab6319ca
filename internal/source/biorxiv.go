package source

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Biorxiv fetches the bioRxiv subject RSS feed. The feed has no query or
// limit parameters, so the vocabulary narrowing happens entirely locally
// and the result cap is applied to the newest-first entry list.
type Biorxiv struct {
	client     *http.Client
	feedURL    string
	policy     Policy
	maxResults int
	now        func() time.Time
}

func NewBiorxiv(policy Policy, maxResults int) *Biorxiv {
	return &Biorxiv{
		client:     &http.Client{Timeout: 30 * time.Second},
		feedURL:    "https://connect.biorxiv.org/relate/feed/181",
		policy:     policy,
		maxResults: maxResults,
		now:        time.Now,
	}
}

func (b *Biorxiv) Name() string { return "bioRxiv" }

func (b *Biorxiv) Fetch(ctx context.Context) ([]Record, error) {
	feed, err := fetchFeed(ctx, b.client, b.feedURL)
	if err != nil {
		return nil, fmt.Errorf("biorxiv: %w", err)
	}

	items := feed.Items
	if len(items) > b.maxResults {
		items = items[:b.maxResults]
	}

	now := b.now()
	var records []Record
	for _, item := range items {
		title := NormalizeText(StripHTML(item.Title))
		if title == "" {
			continue
		}
		abstract := NormalizeText(StripHTML(item.Description))

		published := itemTime(item, now)
		if !b.policy.WithinWindow(published, now) {
			continue
		}
		if !b.policy.Relevant(title + " " + abstract) {
			continue
		}

		records = append(records, Record{
			Source:      b.Name(),
			Title:       title,
			Abstract:    abstract,
			URL:         item.Link,
			PublishedAt: published.In(DisplayZone),
		})
	}
	return records, nil
}
