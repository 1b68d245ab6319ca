package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xiongmaoshiwo/mlchem-digest/internal/source"
)

// systemPrompt asks for a 3-4 sentence Japanese synopsis structured as
// purpose, method, data, key result, implication.
const systemPrompt = "あなたは学術論文要約の専門家です。" +
	"入力のタイトルと要旨から、日本語で3〜4文の要約を作成してください。" +
	"構成は『目的→手法→データ/対象→主結果→示唆』の順に、可能な範囲で端的にまとめてください。" +
	"専門用語は簡潔に、過度な推測は避けてください。"

// OpenAISummarizer calls the OpenAI chat completions API with a fixed
// instruction prompt and low-randomness generation settings.
type OpenAISummarizer struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	return &OpenAISummarizer{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: "https://api.openai.com/v1/chat/completions",
	}
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Error   *openaiError   `json:"error,omitempty"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, title, abstract string) (string, error) {
	reqBody := openaiRequest{
		Model:       s.model,
		Temperature: 0.2,
		Messages: []openaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("タイトル: %s\n要旨: %s", title, abstract)},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("openai: parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("openai: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return source.NormalizeText(apiResp.Choices[0].Message.Content), nil
}
