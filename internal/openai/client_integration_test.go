//go:build integration

package openai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GenerateEmbedding_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client := NewClient(apiKey)
	embedding, err := client.GenerateEmbedding(context.Background(), "当社グループは持続的な成長を目指します。")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
}

func TestIntegration_Complete_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client := NewClient(apiKey)
	text, err := client.Complete(context.Background(),
		`Return JSON only: {"sentiment": "Positive" | "Negative" | "Neutral", "score": <number>}.`,
		"売上高は前年を大きく上回りました。")

	require.NoError(t, err)
	assert.Contains(t, text, "sentiment")
}
