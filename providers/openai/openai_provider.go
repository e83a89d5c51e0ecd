package openai

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

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds everything the OpenAI chat adapter needs.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature *float32
	MaxTokens   int
}

// OpenAIProvider implements contracts.ChatProvider against the OpenAI
// chat completions API (and any compatible endpoint via BaseURL).
type OpenAIProvider struct {
	config     Config
	httpClient *http.Client
}

// NewOpenAIChatProvider initializes a new OpenAI provider.
func NewOpenAIChatProvider(config Config) *OpenAIProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &OpenAIProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []contracts.Message `json:"messages"`
	Temperature *float32            `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, messages []contracts.Message) (*contracts.Completion, error) {
	reqBody := chatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API request failed with status code '%d' - %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API request failed with status code '%d'", resp.StatusCode)
	}

	var response chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("API response contained no choices")
	}

	completion := &contracts.Completion{Content: response.Choices[0].Message.Content}
	if response.Usage != nil {
		completion.Usage = &contracts.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		}
	}
	return completion, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Model() string {
	return p.config.Model
}
