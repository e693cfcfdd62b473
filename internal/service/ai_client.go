package service

import (
	"context"
)

// AIClient is the interface for AI deal-analysis providers. It is injected
// into the classifier so tests can substitute a double for the endpoint.
type AIClient interface {
	// AnalyzeDeal sends the system instruction and user prompt to the
	// text-generation endpoint and returns its structured verdict.
	AnalyzeDeal(ctx context.Context, systemPrompt, userPrompt string) (*AIRatingResponse, error)

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// AIRatingResponse is the structured verdict the model is asked to return.
// Category uses the endpoint's own vocabulary
// (excellent_prix|bon_prix|prix_correct|prix_eleve) and is mapped to the
// canonical rating categories by the classifier.
type AIRatingResponse struct {
	Category          string `json:"category"`
	SavingsPercentage int    `json:"savingsPercentage"`
	Explanation       string `json:"explanation"`
	Recommendation    string `json:"recommendation"`
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
