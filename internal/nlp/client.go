// Package nlp implements the language service on top of a chat model, with an
// optional embedding model for similarity.
package nlp

import (
	"context"
	"fmt"
	"math"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// Completer sends one system and user prompt to a chat model and returns its text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder returns the embedding vector of a text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Client answers language-service requests. Every failure is returned as an error so
// callers treat the chunk as unavailable.
type Client struct {
	completer Completer
	embedder  Embedder
}

// NewClient creates a Client. embedder may be nil, in which case similarity is
// asked of the chat model.
func NewClient(completer Completer, embedder Embedder) *Client {
	return &Client{completer: completer, embedder: embedder}
}

// Similarity scores how alike two texts are, in [0,1].
func (c *Client) Similarity(ctx context.Context, textA, textB string) (*domain.SimilarityResult, error) {
	if c.embedder != nil {
		return c.embeddingSimilarity(ctx, textA, textB)
	}
	resp, err := c.completer.Complete(ctx, similaritySystemPrompt, similarityUserPrompt(textA, textB))
	if err != nil {
		return nil, err
	}
	return parseSimilarity(resp)
}

func (c *Client) embeddingSimilarity(ctx context.Context, textA, textB string) (*domain.SimilarityResult, error) {
	a, err := c.embedder.GenerateEmbedding(ctx, textA)
	if err != nil {
		return nil, fmt.Errorf("failed to embed first text: %w", err)
	}
	b, err := c.embedder.GenerateEmbedding(ctx, textB)
	if err != nil {
		return nil, fmt.Errorf("failed to embed second text: %w", err)
	}
	score, ok := cosine(a, b)
	if !ok {
		return nil, unavailable("embeddings not comparable")
	}
	return &domain.SimilarityResult{Score: clamp01(score)}, nil
}

// Summary summarizes text to roughly targetRatio of its length.
func (c *Client) Summary(ctx context.Context, text string, targetRatio float64) (*domain.SummaryResult, error) {
	resp, err := c.completer.Complete(ctx, summarySystemPrompt, summaryUserPrompt(text, targetRatio))
	if err != nil {
		return nil, err
	}
	return parseSummary(resp)
}

// Sentiment classifies the dominant sentiment of text.
func (c *Client) Sentiment(ctx context.Context, text string) (*domain.SentimentResult, error) {
	resp, err := c.completer.Complete(ctx, sentimentSystemPrompt, text)
	if err != nil {
		return nil, err
	}
	return parseSentiment(resp)
}

// NamedEntities extracts entity mentions from text.
func (c *Client) NamedEntities(ctx context.Context, text string) (*domain.NamedEntityResult, error) {
	resp, err := c.completer.Complete(ctx, namedEntitySystemPrompt, text)
	if err != nil {
		return nil, err
	}
	return parseNamedEntities(resp)
}

// UserAttributes infers reader attributes from text.
func (c *Client) UserAttributes(ctx context.Context, text string) (*domain.UserAttributeResult, error) {
	resp, err := c.completer.Complete(ctx, userAttributeSystemPrompt(), text)
	if err != nil {
		return nil, err
	}
	return parseUserAttributes(resp)
}

func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
