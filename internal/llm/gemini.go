package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

// Gemini is a Client backed by the Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New returns a Gemini client when credentials are configured, and the
// Unavailable client otherwise.
func New(ctx context.Context, cfg config.LLMConfig) (Client, func() error, error) {
	opts, err := clientOptions(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(opts) == 0 {
		log.Warn().Msg("GEMINI_API_KEY not set, AI endpoints will answer 503")
		return Unavailable(), func() error { return nil }, nil
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}

	log.Info().Str("model", cfg.Model).Msg("gemini client initialized")
	return &Gemini{client: client, model: cfg.Model, timeout: timeout}, client.Close, nil
}

func clientOptions(ctx context.Context, cfg config.LLMConfig) ([]option.ClientOption, error) {
	if cfg.APIKey != "" {
		return []option.ClientOption{option.WithAPIKey(cfg.APIKey)}, nil
	}
	if cfg.CredentialsFile == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, generativeLanguageScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gemini credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}

func (g *Gemini) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	text := responseText(resp)
	log.Debug().
		Str("model", g.model).
		Dur("elapsed", time.Since(start)).
		Int("chars", len(text)).
		Msg("gemini response received")

	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	// Only the first candidate is used.
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}
