package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutCredentialsIsUnavailable(t *testing.T) {
	client, closeFn, err := New(context.Background(), config.LLMConfig{Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	_, err = client.Generate(context.Background(), "sys", "user")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestNewWithMissingCredentialsFile(t *testing.T) {
	_, _, err := New(context.Background(), config.LLMConfig{CredentialsFile: "/does/not/exist.json"})
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("  Actionable Recommendation: "), genai.Text("order 60 units\n")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}

	assert.Equal(t, "Actionable Recommendation: order 60 units", responseText(resp))
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(_ context.Context, sys, user string) (string, error) {
		return sys + "|" + user, nil
	})

	out, err := c.Generate(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a|b", out)
}
