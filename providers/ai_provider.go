package providers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codexplain/codexplain/providers/contracts"
	"github.com/codexplain/codexplain/providers/ollama"
	"github.com/codexplain/codexplain/providers/openai"
)

// Construction errors. Both are fail-fast: they surface before any file
// is processed.
var (
	ErrUnknownProvider = errors.New("unknown AI provider")
	ErrMissingAPIKey   = errors.New("missing API key")
)

// AIProviderConfig is the provider section of the application config.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	Model       string   `mapstructure:"model"`
	ApiKey      string   `mapstructure:"api_key"`
	Temperature *float32 `mapstructure:"temperature"`
	MaxTokens   int      `mapstructure:"max_tokens"`
}

// NewChatProvider constructs the configured chat provider. Remote providers
// without a credential and unrecognized provider names are rejected here,
// before any file is processed.
func NewChatProvider(config *AIProviderConfig) (contracts.ChatProvider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		if config.ApiKey == "" {
			return nil, fmt.Errorf("%w: provider 'openai' requires api_key", ErrMissingAPIKey)
		}
		return openai.NewOpenAIChatProvider(openai.Config{
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			APIKey:      config.ApiKey,
			Temperature: config.Temperature,
			MaxTokens:   config.MaxTokens,
		}), nil
	case "ollama":
		return ollama.NewOllamaChatProvider(ollama.Config{
			BaseURL:     config.BaseURL,
			Model:       config.Model,
			Temperature: config.Temperature,
		}), nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownProvider, config.Provider)
	}
}
