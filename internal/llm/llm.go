// Package llm talks to the generative text service that writes forecasts,
// recommendations and scenario reports.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means no model is configured.
	ErrUnavailable = errors.New("ai service temporarily unavailable")
	// ErrGeneration wraps failures returned by the model provider.
	ErrGeneration = errors.New("llm generation failed")
)

// Client generates free-form text from a system prompt and a user prompt.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f ClientFunc) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}

type unavailable struct{}

// Unavailable returns a Client whose every call fails with ErrUnavailable.
func Unavailable() Client {
	return unavailable{}
}

func (unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrUnavailable
}
