package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codexplain/codexplain/providers/contracts"
)

const defaultBaseURL = "http://localhost:11434"

// Config holds everything the Ollama chat adapter needs. Ollama is a local
// provider: no API key is required.
type Config struct {
	BaseURL     string
	Model       string
	Temperature *float32
}

// OllamaProvider implements contracts.ChatProvider against a local Ollama
// server's chat API.
type OllamaProvider struct {
	config     Config
	httpClient *http.Client
}

// NewOllamaChatProvider initializes a new Ollama provider.
func NewOllamaChatProvider(config Config) *OllamaProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &OllamaProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []contracts.Message `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  *ollamaOptions      `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

func (p *OllamaProvider) Complete(ctx context.Context, messages []contracts.Message) (*contracts.Completion, error) {
	reqBody := ollamaChatRequest{
		Model:    p.config.Model,
		Messages: messages,
		Stream:   false,
	}
	if p.config.Temperature != nil {
		reqBody.Options = &ollamaOptions{Temperature: p.config.Temperature}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, string(body))
	}

	var response ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	completion := &contracts.Completion{Content: response.Message.Content}
	if response.PromptEvalCount > 0 || response.EvalCount > 0 {
		completion.Usage = &contracts.Usage{
			PromptTokens:     response.PromptEvalCount,
			CompletionTokens: response.EvalCount,
			TotalTokens:      response.PromptEvalCount + response.EvalCount,
		}
	}
	return completion, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Model() string {
	return p.config.Model
}
