package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MLKeywords    []string         `yaml:"ml_keywords"`
	ChemKeywords  []string         `yaml:"chem_keywords"`
	MaxResults    int              `yaml:"max_results"`
	LookbackHours int              `yaml:"lookback_hours"`
	MinItems      int              `yaml:"min_items"`
	Schedule      string           `yaml:"schedule"`
	RunOnStart    bool             `yaml:"run_on_start"`
	Sources       SourcesConfig    `yaml:"sources"`
	Summarizer    SummarizerConfig `yaml:"summarizer"`
	Publisher     PublisherConfig  `yaml:"publisher"`
}

type SourcesConfig struct {
	SemanticScholarAPIKey string `yaml:"semantic_scholar_api_key"`
	CrossrefMailto        string `yaml:"crossref_mailto"`
}

type SummarizerConfig struct {
	Type        string `yaml:"type"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	Parallelism int    `yaml:"parallelism"`
}

type PublisherConfig struct {
	Type  string      `yaml:"type"`
	Email EmailConfig `yaml:"email"`
}

type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 60
	}
	if cfg.LookbackHours == 0 {
		cfg.LookbackHours = 30
	}
	if cfg.MinItems == 0 {
		cfg.MinItems = 1
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 7 * * *"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "openai"
	}
	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = "gpt-4o-mini"
	}
	if cfg.Summarizer.Parallelism == 0 {
		cfg.Summarizer.Parallelism = 3
	}
	if cfg.Publisher.Type == "" {
		cfg.Publisher.Type = "stdout"
	}
	if cfg.Publisher.Email.SMTPPort == 0 {
		cfg.Publisher.Email.SMTPPort = 465
	}
}

func validate(cfg *Config) error {
	if cfg.Summarizer.Type != "openai" {
		return fmt.Errorf("config: unsupported summarizer type %q (supported: openai)", cfg.Summarizer.Type)
	}
	if cfg.Summarizer.APIKey == "" {
		return fmt.Errorf("config: summarizer.api_key is required (set OPENAI_API_KEY env var)")
	}
	switch cfg.Publisher.Type {
	case "stdout", "email":
	default:
		return fmt.Errorf("config: unsupported publisher type %q (supported: stdout, email)", cfg.Publisher.Type)
	}
	if cfg.Publisher.Type == "email" {
		if cfg.Publisher.Email.SMTPHost == "" {
			return fmt.Errorf("config: publisher.email.smtp_host is required for email publisher")
		}
		if cfg.Publisher.Email.From == "" {
			return fmt.Errorf("config: publisher.email.from is required for email publisher")
		}
		if len(cfg.Publisher.Email.To) == 0 {
			return fmt.Errorf("config: publisher.email.to is required for email publisher")
		}
	}
	return nil
}

// Load reads the config file, expands environment variables, applies
// defaults, and validates the configuration. Empty keyword lists are left
// alone on purpose: the relevance filter treats an empty vocabulary as
// unsatisfiable, which is the configured behavior, not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
