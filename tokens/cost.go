package tokens

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codexplain/codexplain/embed_data"
)

type modelDetails struct {
	MaxTokens                  int     `json:"max_tokens"`
	MaxInputTokens             int     `json:"max_input_tokens"`
	MaxOutputTokens            int     `json:"max_output_tokens"`
	InputCostPerMillionTokens  float64 `json:"input_cost_per_million_tokens,omitempty"`
	OutputCostPerMillionTokens float64 `json:"output_cost_per_million_tokens,omitempty"`
	Mode                       string  `json:"mode"`
}

type modelCatalog struct {
	ModelDetails map[string]modelDetails `json:"models"`
}

// Cost estimates the dollar cost of a run from the embedded pricing table.
// Unknown models (local models included) cost zero.
func Cost(providerName, modelName string, usage RunUsage) float64 {
	details, err := getModelDetails(providerName, modelName)
	if err != nil {
		return 0
	}

	inputCost := float64(usage.InputTokens) * details.InputCostPerMillionTokens / 1_000_000.0
	outputCost := float64(usage.OutputTokens) * details.OutputCostPerMillionTokens / 1_000_000.0
	return inputCost + outputCost
}

func getModelDetails(providerName, modelName string) (modelDetails, error) {
	modelName = strings.ToLower(modelName)

	catalog := modelCatalog{ModelDetails: make(map[string]modelDetails)}
	if err := json.Unmarshal(embed_data.ModelDetails, &catalog); err != nil {
		return modelDetails{}, err
	}

	details, exists := catalog.ModelDetails[modelName]
	if !exists {
		return modelDetails{}, fmt.Errorf("model details with name '%s' not found for provider '%s'", modelName, providerName)
	}
	return details, nil
}
