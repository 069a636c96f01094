package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// SystemPrompt instructs the model to write a travel order itinerary
const SystemPrompt = `You write the "itinerary of travel" section of Philippine government travel orders.

Instructions:
- Use only the legs provided. Never invent stops, dates or distances.
- Write plainly and formally, in the third person.
- Legs marked direct are straight-line estimates (air or sea travel); say so.
- A leg marked return brings the traveler back to the official station.

Return valid JSON object with these exact fields:
- title (string) – short title, e.g. "Quezon City to Cebu City"
- narrative (string) – one paragraph, at most 80 words`

// openAISummarizer implements Summarizer using the OpenAI chat API
type openAISummarizer struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

type modelOutput struct {
	Title     string `json:"title"`
	Narrative string `json:"narrative"`
}

// NewOpenAISummarizer creates a model-backed summarizer. baseURL may be empty
// for the public API.
func NewOpenAISummarizer(apiKey, model, baseURL string) Summarizer {
	if apiKey == "" {
		return &openAISummarizer{model: model, now: time.Now}
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAISummarizer{
		client: openai.NewClientWithConfig(config),
		model:  model,
		now:    time.Now,
	}
}

func (o *openAISummarizer) Summarize(ctx context.Context, req Request) (Itinerary, error) {
	if o.client == nil {
		return Itinerary{}, errors.New("OpenAI client not initialized - missing API key")
	}

	it := baseItinerary(req)
	userPrompt := fmt.Sprintf("Traveler: %s\nPurpose: %s\nTotal distance: %.1f km\nLegs:\n- %s",
		fallbackText(req.Traveler, "not given"),
		fallbackText(req.Purpose, "not given"),
		it.TotalDistanceKm,
		strings.Join(it.Lines, "\n- "))

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
		MaxTokens:   400,
	})
	if err != nil {
		return Itinerary{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Itinerary{}, errors.New("no response from OpenAI API")
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return Itinerary{}, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}
	if strings.TrimSpace(out.Narrative) == "" {
		return Itinerary{}, errors.New("OpenAI response has no narrative")
	}

	it.Title = strings.TrimSpace(out.Title)
	it.Narrative = strings.TrimSpace(out.Narrative)
	it.GeneratedBy = "openai"
	it.GeneratedAt = o.now()
	return it, nil
}

// HealthCheck makes a minimal completion call
func (o *openAISummarizer) HealthCheck(ctx context.Context) error {
	if o.client == nil {
		return errors.New("OpenAI client not initialized")
	}

	_, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Test"},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("OpenAI health check failed: %w", err)
	}
	return nil
}

func fallbackText(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
