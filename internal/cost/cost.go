// Package cost prices LLM API calls and builds the per-run token report.
package cost

import (
	"fmt"
	"strings"
)

// Pricing is USD per 1M tokens.
type Pricing struct {
	Input  float64
	Output float64
}

// Prices by model name. Embedding models have no output tokens.
var modelPricing = map[string]Pricing{
	"openai/gpt-4o-mini":            {Input: 0.15, Output: 0.60},
	"gpt-4o-mini":                   {Input: 0.15, Output: 0.60},
	"openai/gpt-5":                  {Input: 15.00, Output: 60.00},
	"gpt-5":                         {Input: 15.00, Output: 60.00},
	"openai/gpt-5-mini":             {Input: 0.15, Output: 0.60},
	"gpt-5-mini":                    {Input: 0.15, Output: 0.60},
	"claude-sonnet-4":               {Input: 3.00, Output: 15.00},
	"claude-haiku-4-5":              {Input: 0.80, Output: 4.00},
	"openai/text-embedding-3-small": {Input: 0.02, Output: 0},
	"text-embedding-3-small":        {Input: 0.02, Output: 0},
}

var defaultPricing = Pricing{Input: 1.00, Output: 1.00}

// GetPricing looks up the pricing for a model, trying an exact match first
// and then a substring match either way, so provider-prefixed names like
// "bedrock/claude-sonnet-4" still resolve. Unknown models fall back to
// default pricing; ok reports whether a real entry matched.
func GetPricing(model string) (pricing Pricing, ok bool) {
	if p, found := modelPricing[model]; found {
		return p, true
	}
	for key, p := range modelPricing {
		if strings.Contains(model, key) || strings.Contains(key, model) {
			return p, true
		}
	}
	return defaultPricing, false
}

// Calculate returns the USD cost of one call.
func Calculate(model string, promptTokens, completionTokens int) float64 {
	pricing, _ := GetPricing(model)
	inputCost := float64(promptTokens) * pricing.Input / 1_000_000
	outputCost := float64(completionTokens) * pricing.Output / 1_000_000
	return inputCost + outputCost
}

// FormatCost renders a cost with precision scaled to its magnitude, so
// sub-cent runs still show meaningful digits.
func FormatCost(cost float64) string {
	switch {
	case cost < 0.001:
		return fmt.Sprintf("$%.6f", cost)
	case cost < 0.01:
		return fmt.Sprintf("$%.5f", cost)
	default:
		return fmt.Sprintf("$%.4f", cost)
	}
}
