package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/xiongmaoshiwo/mlchem-digest/internal/config"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/pipeline"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/publisher"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/source"
	"github.com/xiongmaoshiwo/mlchem-digest/internal/summarizer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run the pipeline once and exit")
	flag.Parse()

	// Optional; CI and production set real environment variables.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	policy := source.NewPolicy(cfg.MLKeywords, cfg.ChemKeywords, cfg.LookbackHours)

	// Slice order is the merge precedence: it decides which provider's
	// metadata wins a cross-source duplicate.
	sources := []source.Source{
		source.NewArxiv(policy, cfg.MaxResults),
		source.NewCrossref(policy, cfg.MaxResults, cfg.Sources.CrossrefMailto),
		source.NewBiorxiv(policy, cfg.MaxResults),
		source.NewSemanticScholar(policy, cfg.MaxResults, cfg.Sources.SemanticScholarAPIKey),
	}

	var sum summarizer.Summarizer
	switch cfg.Summarizer.Type {
	case "openai":
		sum = summarizer.NewOpenAISummarizer(cfg.Summarizer.APIKey, cfg.Summarizer.Model)
	default:
		log.Fatalf("Unknown summarizer type: %s", cfg.Summarizer.Type)
	}

	var pubs []publisher.Publisher
	switch cfg.Publisher.Type {
	case "stdout":
		pubs = append(pubs, publisher.NewStdoutPublisher())
	case "email":
		pubs = append(pubs, publisher.NewEmailPublisher(
			cfg.Publisher.Email.SMTPHost,
			cfg.Publisher.Email.SMTPPort,
			cfg.Publisher.Email.Username,
			cfg.Publisher.Email.Password,
			cfg.Publisher.Email.From,
			cfg.Publisher.Email.To,
		))
	default:
		log.Fatalf("Unknown publisher type: %s", cfg.Publisher.Type)
	}

	p := pipeline.New(sources, sum, pubs, policy, cfg.MinItems, cfg.Summarizer.Parallelism)

	if *once {
		log.Println("Running digest (once mode)...")
		if err := p.Run(context.Background()); err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		log.Println("Done")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Println("Running initial digest...")
		if err := p.Run(ctx); err != nil {
			log.Printf("Initial run failed: %v", err)
		}
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Println("Cron triggered, running digest...")
		if err := p.Run(ctx); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	log.Printf("Scheduled digest with cron expression: %s", cfg.Schedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	cancel()
	c.Stop()
	log.Println("Shutdown complete")
}
