package itinerary

import (
	"context"

	"github.com/dpup/prefab/logging"
)

// fallbackSummarizer tries the primary summarizer and falls back on error
type fallbackSummarizer struct {
	primary  Summarizer
	fallback Summarizer
}

// NewSummarizer returns the model-backed summarizer when apiKey is set,
// falling back to the template on model errors, or the template alone
func NewSummarizer(apiKey, model, baseURL string) Summarizer {
	template := NewTemplateSummarizer()
	if apiKey == "" {
		return template
	}
	return WithFallback(NewOpenAISummarizer(apiKey, model, baseURL), template)
}

// WithFallback combines two summarizers
func WithFallback(primary, fallback Summarizer) Summarizer {
	return &fallbackSummarizer{primary: primary, fallback: fallback}
}

func (f *fallbackSummarizer) Summarize(ctx context.Context, req Request) (Itinerary, error) {
	it, err := f.primary.Summarize(ctx, req)
	if err == nil {
		return it, nil
	}
	logging.Warnw(ctx, "Itinerary model failed, using template", "error", err)
	return f.fallback.Summarize(ctx, req)
}

func (f *fallbackSummarizer) HealthCheck(ctx context.Context) error {
	return f.primary.HealthCheck(ctx)
}
