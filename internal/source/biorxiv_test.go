package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleBiorxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>bioRxiv Subject Collection</title>
    <item>
      <title>Machine learning guides &lt;i&gt;de novo&lt;/i&gt; polymer discovery</title>
      <description>&lt;p&gt;A machine learning pipeline for polymer candidates.&lt;/p&gt;</description>
      <link>https://www.biorxiv.org/content/10.1101/2025.01.15.000001</link>
      <pubDate>Wed, 15 Jan 2025 12:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Machine learning for corrosion-resistant coatings</title>
      <description>Screening corrosion inhibitors with machine learning.</description>
      <link>https://www.biorxiv.org/content/10.1101/2025.01.15.000002</link>
      <pubDate>Wed, 15 Jan 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>A field study of coastal birds</title>
      <description>Nothing relevant here.</description>
      <link>https://www.biorxiv.org/content/10.1101/2025.01.15.000003</link>
      <pubDate>Wed, 15 Jan 2025 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func testBiorxiv(ts *httptest.Server, maxResults int) *Biorxiv {
	b := NewBiorxiv(testPolicy(), maxResults)
	b.client = ts.Client()
	b.feedURL = ts.URL
	b.now = func() time.Time { return time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC) }
	return b
}

func TestBiorxivFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleBiorxivFeed))
	}))
	defer ts.Close()

	records, err := testBiorxiv(ts, 60).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Source != "bioRxiv" {
		t.Errorf("Expected source 'bioRxiv', got %q", first.Source)
	}
	if first.Title != "Machine learning guides de novo polymer discovery" {
		t.Errorf("Expected markup stripped from title, got %q", first.Title)
	}
	if first.Abstract != "A machine learning pipeline for polymer candidates." {
		t.Errorf("Expected markup stripped from description, got %q", first.Abstract)
	}
	if !strings.HasPrefix(first.URL, "https://www.biorxiv.org/") {
		t.Errorf("Unexpected URL %q", first.URL)
	}
	wantTime := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(wantTime) {
		t.Errorf("Expected published time %v, got %v", wantTime, first.PublishedAt)
	}
}

func TestBiorxivFetchCapsEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBiorxivFeed))
	}))
	defer ts.Close()

	// Cap applies to the newest-first entry list before filtering, so only
	// the first feed item is considered.
	records, err := testBiorxiv(ts, 1).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record with cap 1, got %d", len(records))
	}
	if !strings.Contains(records[0].Title, "polymer discovery") {
		t.Errorf("Expected first feed item to survive, got %q", records[0].Title)
	}
}

func TestBiorxivFetchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := testBiorxiv(ts, 60).Fetch(context.Background())
	if err == nil {
		t.Fatal("Expected error for 500 status")
	}
	if !strings.Contains(err.Error(), "biorxiv") {
		t.Errorf("Expected biorxiv-scoped error, got: %v", err)
	}
}
