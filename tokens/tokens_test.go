package tokens

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codexplain/codexplain/providers/contracts"
)

type plainProvider struct{}

func (plainProvider) Complete(ctx context.Context, messages []contracts.Message) (*contracts.Completion, error) {
	return nil, nil
}
func (plainProvider) Name() string  { return "plain" }
func (plainProvider) Model() string { return "plain-model" }

type tokenizingProvider struct{ plainProvider }

// CountTokens counts words, deliberately different from the character
// heuristic so tests can tell which path was taken.
func (tokenizingProvider) CountTokens(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("a"))
	assert.Equal(t, 1, Estimate("abcd"))
	assert.Equal(t, 2, Estimate("abcde"))
	assert.Equal(t, 25, Estimate(string(make([]byte, 100))))
}

func TestResolveCounts_ProviderReportsBoth(t *testing.T) {
	completion := &contracts.Completion{
		Content: "result",
		Usage:   &contracts.Usage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
	}

	input, output, total := ResolveCounts(completion, plainProvider{}, "prompt")
	assert.Equal(t, 100, input)
	assert.Equal(t, 40, output)
	assert.Equal(t, 140, total)
}

func TestResolveCounts_ProviderReportsTotalOnly(t *testing.T) {
	completion := &contracts.Completion{
		Content: "result",
		Usage:   &contracts.Usage{TotalTokens: 50},
	}

	prompt := string(make([]byte, 80)) // estimates to 20
	input, output, total := ResolveCounts(completion, plainProvider{}, prompt)
	assert.Equal(t, 20, input)
	assert.Equal(t, 30, output)
	assert.Equal(t, 50, total)
}

// The estimated input is clamped so output can never go negative.
func TestResolveCounts_TotalOnlyClampsInput(t *testing.T) {
	completion := &contracts.Completion{
		Content: "result",
		Usage:   &contracts.Usage{TotalTokens: 5},
	}

	prompt := string(make([]byte, 400)) // estimates to 100, above the total
	input, output, total := ResolveCounts(completion, plainProvider{}, prompt)
	assert.Equal(t, 5, input)
	assert.Equal(t, 0, output)
	assert.Equal(t, 5, total)
}

func TestResolveCounts_PrefersTokenizerOverHeuristic(t *testing.T) {
	completion := &contracts.Completion{Content: "one two three"}

	input, output, total := ResolveCounts(completion, tokenizingProvider{}, "four five")
	assert.Equal(t, 2, input)
	assert.Equal(t, 3, output)
	assert.Equal(t, 5, total)
}

func TestResolveCounts_HeuristicFallback(t *testing.T) {
	completion := &contracts.Completion{Content: "12345678"} // 2 tokens

	input, output, total := ResolveCounts(completion, plainProvider{}, "1234") // 1 token
	assert.Equal(t, 1, input)
	assert.Equal(t, 2, output)
	assert.Equal(t, 3, total)
}

func TestAccountant_Aggregation(t *testing.T) {
	accountant := NewAccountant()
	accountant.RecordCompletion(10, 5, 15)
	accountant.RecordCompletion(20, 10, 30)
	accountant.RecordCacheHit()

	usage := accountant.Snapshot()
	assert.Equal(t, 30, usage.InputTokens)
	assert.Equal(t, 15, usage.OutputTokens)
	assert.Equal(t, 45, usage.TotalTokens)
	assert.Equal(t, 2, usage.ProcessedFiles)
	assert.Equal(t, 1, usage.CachedFiles)
}

func TestAccountant_ConcurrentRecording(t *testing.T) {
	accountant := NewAccountant()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accountant.RecordCompletion(1, 1, 2)
		}()
	}
	wg.Wait()

	usage := accountant.Snapshot()
	assert.Equal(t, 100, usage.ProcessedFiles)
	assert.Equal(t, 200, usage.TotalTokens)
}

// Separate accountants must never share state across runs.
func TestAccountant_PerRunIsolation(t *testing.T) {
	first := NewAccountant()
	first.RecordCompletion(10, 5, 15)

	second := NewAccountant()
	assert.Equal(t, RunUsage{}, second.Snapshot())
	assert.Equal(t, 15, first.Snapshot().TotalTokens)
}

func TestCost_KnownModel(t *testing.T) {
	usage := RunUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	cost := Cost("openai", "gpt-4o-mini", usage)
	assert.Greater(t, cost, 0.0)
}

func TestCost_UnknownModelIsFree(t *testing.T) {
	usage := RunUsage{InputTokens: 1000, OutputTokens: 1000}
	assert.Equal(t, 0.0, Cost("ollama", "some-local-model", usage))
}

func TestCost_CaseInsensitiveModelName(t *testing.T) {
	usage := RunUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.Equal(t, Cost("openai", "GPT-4o-Mini", usage), Cost("openai", "gpt-4o-mini", usage))
}
