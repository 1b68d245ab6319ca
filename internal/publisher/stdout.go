package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StdoutPublisher prints the digest to stdout, mainly for -once runs.
type StdoutPublisher struct{}

func NewStdoutPublisher() *StdoutPublisher {
	return &StdoutPublisher{}
}

func (p *StdoutPublisher) Publish(_ context.Context, digest *Digest) error {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("ML×Chem Daily Digest – %s\n", digest.Date.Format("2006-01-02"))
	fmt.Println(strings.Repeat("=", 72))

	for i, r := range digest.Records {
		fmt.Printf("%d. %s\n", i+1, r.Title)
		fmt.Printf("   Source: %s / %s\n", r.Source, r.PublishedAt.Format(time.RFC3339))
		if r.Summary != "" {
			fmt.Printf("   %s\n", r.Summary)
		}
		if r.DOI != "" {
			fmt.Printf("   DOI: %s\n", r.DOI)
		}
		if r.URL != "" {
			fmt.Printf("   %s\n", r.URL)
		}
		fmt.Println()
	}

	fmt.Printf("Keywords: %s x %s\n",
		strings.Join(digest.MLKeywords, ", "),
		strings.Join(digest.ChemKeywords, ", "))
	return nil
}
