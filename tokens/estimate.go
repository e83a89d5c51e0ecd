package tokens

import (
	"github.com/codexplain/codexplain/providers/contracts"
)

// Estimate is the rough fallback estimator: one token per four characters,
// rounded up.
func Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// ResolveCounts turns a completion into (input, output, total) token counts.
// Priority order:
//
//  1. explicit prompt/completion counts from the provider
//  2. a provider-reported total only
//  3. an exact tokenizer, when the provider implements one
//  4. the character-length heuristic
//
// promptText is the concatenated text of the messages that were sent.
func ResolveCounts(completion *contracts.Completion, provider contracts.ChatProvider, promptText string) (input, output, total int) {
	usage := completion.Usage

	switch {
	case usage != nil && (usage.PromptTokens > 0 || usage.CompletionTokens > 0):
		input = usage.PromptTokens
		output = usage.CompletionTokens
		total = input + output
	case usage != nil && usage.TotalTokens > 0:
		total = usage.TotalTokens
		input = Estimate(promptText)
		if input > total {
			input = total
		}
		output = total - input
	default:
		if tokenizer, ok := provider.(contracts.Tokenizer); ok {
			input = tokenizer.CountTokens(promptText)
			output = tokenizer.CountTokens(completion.Content)
		} else {
			input = Estimate(promptText)
			output = Estimate(completion.Content)
		}
		total = input + output
	}
	return input, output, total
}
