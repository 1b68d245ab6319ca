package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xiongmaoshiwo/mlchem-digest/internal/publisher"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/source"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/summarizer"
)

// Pipeline wires the fetch, merge, dedup, summarize, and publish stages
// for one run. A run is a single unit of work with no state carried over
// to the next one.
type Pipeline struct {
	sources     []source.Source
	summarizer  summarizer.Summarizer
	publishers  []publisher.Publisher
	policy      source.Policy
	minItems    int
	parallelism int
	limiter     *rate.Limiter
	now         func() time.Time
}

// New builds a pipeline. The sources slice order is the merge precedence:
// it decides which source's metadata wins a cross-source duplicate.
func New(sources []source.Source, s summarizer.Summarizer, pubs []publisher.Publisher, policy source.Policy, minItems, parallelism int) *Pipeline {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Pipeline{
		sources:     sources,
		summarizer:  s,
		publishers:  pubs,
		policy:      policy,
		minItems:    minItems,
		parallelism: parallelism,
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), parallelism),
		now:         time.Now,
	}
}

// Run executes one pass end to end. Source and summarizer failures degrade
// locally; the only error Run reports is every publisher failing.
func (p *Pipeline) Run(ctx context.Context) error {
	records := p.fetchAll(ctx)
	if len(records) == 0 {
		log.Println("No records fetched")
		return nil
	}

	records = Dedup(records)
	log.Printf("%d records after dedup", len(records))

	p.summarizeAll(ctx, records)

	if len(records) < p.minItems {
		log.Printf("Only %d records (minimum %d), skipping delivery", len(records), p.minItems)
		return nil
	}

	digest := &publisher.Digest{
		Date:         p.now().In(source.DisplayZone),
		MLKeywords:   p.policy.MLTerms,
		ChemKeywords: p.policy.ChemTerms,
		Records:      records,
	}

	var failed int
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, digest); err != nil {
			failed++
			log.Printf("WARNING: publish via %T failed: %v", pub, err)
		}
	}
	if len(p.publishers) > 0 && failed == len(p.publishers) {
		return fmt.Errorf("pipeline: all %d publishers failed", failed)
	}

	log.Printf("Delivered %d records", len(records))
	return nil
}

// fetchAll invokes every source concurrently and concatenates the results
// in source precedence order. Results land in source-indexed slots so the
// merge order never depends on completion order. A failing source is
// logged and contributes zero records.
func (p *Pipeline) fetchAll(ctx context.Context) []source.Record {
	slots := make([][]source.Record, len(p.sources))

	var g errgroup.Group
	for i, src := range p.sources {
		i, src := i, src
		g.Go(func() error {
			records, err := src.Fetch(ctx)
			if err != nil {
				log.Printf("WARNING: %s fetch failed: %v", src.Name(), err)
				return nil
			}
			log.Printf("%s: %d records", src.Name(), len(records))
			slots[i] = records
			return nil
		})
	}
	g.Wait()

	var merged []source.Record
	for _, records := range slots {
		merged = append(merged, records...)
	}
	return merged
}

// summarizeAll fills in the Summary field of every record, at most
// parallelism calls in flight and rate-limited to stay inside the
// generative service's request budget. A failed call falls back to the
// truncated abstract; one record's failure never affects the others.
func (p *Pipeline) summarizeAll(ctx context.Context, records []source.Record) {
	var g errgroup.Group
	g.SetLimit(p.parallelism)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := p.limiter.Wait(ctx); err != nil {
				records[i].Summary = summarizer.Fallback(records[i].Abstract)
				return nil
			}
			text, err := p.summarizer.Summarize(ctx, records[i].Title, records[i].Abstract)
			if err != nil {
				log.Printf("WARNING: summarize %q failed: %v", records[i].Title, err)
				text = summarizer.Fallback(records[i].Abstract)
			}
			records[i].Summary = text
			return nil
		})
	}
	g.Wait()
}
