// Package intake suggests a service type from a customer's free-text
// complaint description. The suggestion is advisory only; triage priority
// always comes from the deterministic keyword classifier.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// Suggestion is the parsed model output
type Suggestion struct {
	ServiceType string `json:"service_type"`
	Reasoning   string `json:"reasoning"`
}

// Service wraps the Gemini client for complaint intake assistance.
type Service struct{}

// NewService creates the intake suggestion service.
func NewService() *Service {
	return &Service{}
}

// SuggestServiceType asks Gemini to categorize the complaint description into
// one of the platform's service type labels.
func (s *Service) SuggestServiceType(ctx context.Context, description string) (*Suggestion, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := `You are the intake assistant of a vehicle service center. Read the customer complaint below and suggest a short service type label for it. Return ONLY valid JSON.

			Required JSON format:
			{
			"service_type": string,   // short label, e.g. "Emergency towing", "Engine repair", "Scheduled maintenance", "Car wash"
			"reasoning": string       // one sentence explaining the choice
			}

			Customer complaint:
			` + description

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	// The model sometimes wraps the JSON in a markdown code fence
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
	}
	if suggestion.ServiceType == "" {
		return nil, fmt.Errorf("model returned an empty service type")
	}

	return &suggestion, nil
}
