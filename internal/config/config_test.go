package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
ml_keywords:
  - machine learning
  - deep learning
chem_keywords:
  - polymer
  - catalysis
max_results: 40
lookback_hours: 48
min_items: 3
schedule: "30 6 * * *"
run_on_start: true
sources:
  semantic_scholar_api_key: s2-key
  crossref_mailto: digest@example.com
summarizer:
  type: openai
  model: gpt-4o
  api_key: sk-test
  parallelism: 5
publisher:
  type: email
  email:
    smtp_host: smtp.example.com
    smtp_port: 587
    username: user
    password: pass
    from: digest@example.com
    to:
      - reader@example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(cfg.MLKeywords) != 2 || cfg.MLKeywords[0] != "machine learning" {
		t.Errorf("Unexpected ml_keywords: %v", cfg.MLKeywords)
	}
	if len(cfg.ChemKeywords) != 2 || cfg.ChemKeywords[1] != "catalysis" {
		t.Errorf("Unexpected chem_keywords: %v", cfg.ChemKeywords)
	}
	if cfg.MaxResults != 40 {
		t.Errorf("Expected max_results 40, got %d", cfg.MaxResults)
	}
	if cfg.LookbackHours != 48 {
		t.Errorf("Expected lookback_hours 48, got %d", cfg.LookbackHours)
	}
	if cfg.MinItems != 3 {
		t.Errorf("Expected min_items 3, got %d", cfg.MinItems)
	}
	if cfg.Schedule != "30 6 * * *" {
		t.Errorf("Expected schedule preserved, got %q", cfg.Schedule)
	}
	if !cfg.RunOnStart {
		t.Error("Expected run_on_start true")
	}
	if cfg.Sources.SemanticScholarAPIKey != "s2-key" {
		t.Errorf("Unexpected semantic scholar key: %q", cfg.Sources.SemanticScholarAPIKey)
	}
	if cfg.Summarizer.Model != "gpt-4o" || cfg.Summarizer.Parallelism != 5 {
		t.Errorf("Unexpected summarizer config: %+v", cfg.Summarizer)
	}
	if cfg.Publisher.Email.SMTPPort != 587 {
		t.Errorf("Expected smtp_port 587, got %d", cfg.Publisher.Email.SMTPPort)
	}
	if len(cfg.Publisher.Email.To) != 1 || cfg.Publisher.Email.To[0] != "reader@example.com" {
		t.Errorf("Unexpected recipients: %v", cfg.Publisher.Email.To)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
ml_keywords: [llm]
chem_keywords: [polymer]
summarizer:
  api_key: sk-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.MaxResults != 60 {
		t.Errorf("Expected default max_results 60, got %d", cfg.MaxResults)
	}
	if cfg.LookbackHours != 30 {
		t.Errorf("Expected default lookback_hours 30, got %d", cfg.LookbackHours)
	}
	if cfg.MinItems != 1 {
		t.Errorf("Expected default min_items 1, got %d", cfg.MinItems)
	}
	if cfg.Schedule != "0 7 * * *" {
		t.Errorf("Expected default schedule, got %q", cfg.Schedule)
	}
	if cfg.Summarizer.Type != "openai" || cfg.Summarizer.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected summarizer defaults: %+v", cfg.Summarizer)
	}
	if cfg.Summarizer.Parallelism != 3 {
		t.Errorf("Expected default parallelism 3, got %d", cfg.Summarizer.Parallelism)
	}
	if cfg.Publisher.Type != "stdout" {
		t.Errorf("Expected default publisher stdout, got %q", cfg.Publisher.Type)
	}
	if cfg.Publisher.Email.SMTPPort != 465 {
		t.Errorf("Expected default smtp_port 465, got %d", cfg.Publisher.Email.SMTPPort)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	path := writeConfig(t, `
ml_keywords: [llm]
chem_keywords: [polymer]
summarizer:
  api_key: ${TEST_OPENAI_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Summarizer.APIKey != "sk-from-env" {
		t.Errorf("Expected env-expanded api key, got %q", cfg.Summarizer.APIKey)
	}
}

func TestLoadUnsetEnvVarLeftAsIs(t *testing.T) {
	path := writeConfig(t, `
summarizer:
  api_key: ${DEFINITELY_NOT_SET_12345}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Summarizer.APIKey != "${DEFINITELY_NOT_SET_12345}" {
		t.Errorf("Expected unset variable preserved, got %q", cfg.Summarizer.APIKey)
	}
}

func TestLoadEmptyKeywordsAccepted(t *testing.T) {
	path := writeConfig(t, `
summarizer:
  api_key: sk-test
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected empty keyword lists to pass validation, got: %v", err)
	}
	if len(cfg.MLKeywords) != 0 || len(cfg.ChemKeywords) != 0 {
		t.Errorf("Expected empty keyword lists, got %v and %v", cfg.MLKeywords, cfg.ChemKeywords)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing api key",
			`
ml_keywords: [llm]
chem_keywords: [polymer]
`,
			"api_key is required",
		},
		{
			"unsupported summarizer",
			`
summarizer:
  type: gemini
  api_key: sk-test
`,
			"unsupported summarizer type",
		},
		{
			"unsupported publisher",
			`
summarizer:
  api_key: sk-test
publisher:
  type: carrier_pigeon
`,
			"unsupported publisher type",
		},
		{
			"email without host",
			`
summarizer:
  api_key: sk-test
publisher:
  type: email
  email:
    from: digest@example.com
    to: [reader@example.com]
`,
			"smtp_host is required",
		},
		{
			"email without sender",
			`
summarizer:
  api_key: sk-test
publisher:
  type: email
  email:
    smtp_host: smtp.example.com
    to: [reader@example.com]
`,
			"from is required",
		},
		{
			"email without recipients",
			`
summarizer:
  api_key: sk-test
publisher:
  type: email
  email:
    smtp_host: smtp.example.com
    from: digest@example.com
`,
			"to is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "ml_keywords: [unclosed"))
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("Unexpected error: %v", err)
	}
}
