package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel answers the language-service prompts
	DefaultChatModel = openai.GPT4oMini
	// DefaultEmbeddingModel is the OpenAI model used for similarity embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultEmbeddingDimensions is the dimension of text-embedding-3-small vectors
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrNoChoices is returned when a completion has no message
	ErrNoChoices = errors.New("no choices in completion response")
)

// ChatAPI defines the interface for chat completions
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores embeddings by content key.
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Put(ctx context.Context, key, model string, embedding []float32) error
}

// Client wraps the OpenAI API client
type Client struct {
	chat           ChatAPI
	api            EmbeddingAPI
	cache          EmbeddingCache
	embeddingModel openai.EmbeddingModel
	dimensions     int
}

// ModelDimensions returns the native vector size of a known embedding model, or 0.
func ModelDimensions(model openai.EmbeddingModel) int {
	switch model {
	case openai.SmallEmbedding3, openai.AdaEmbeddingV2:
		return 1536
	case openai.LargeEmbedding3:
		return 3072
	}
	return 0
}

type OpenAIAdapter struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	// dimensions is sent with embedding requests when set; only the
	// text-embedding-3 models accept it.
	dimensions int
}

func NewOpenAIAdapter(apiKey, chatModel string, embeddingModel openai.EmbeddingModel) *OpenAIAdapter {
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// CreateChatCompletion asks the chat model for a JSON object answer
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	log.Printf("openai: completion size=%d tokens_in=%d tokens_out=%d",
		len(resp.Choices[0].Message.Content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      a.embeddingModel,
		Dimensions: a.dimensions,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// Config configures a Client. EmbeddingDimensions shortens text-embedding-3 vectors
// when set; otherwise the model's native size is expected.
type Config struct {
	APIKey              string
	ChatModel           string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
	Cache               EmbeddingCache
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	adapter := NewOpenAIAdapter(cfg.APIKey, cfg.ChatModel, embeddingModel)

	dimensions := ModelDimensions(embeddingModel)
	if cfg.EmbeddingDimensions > 0 {
		dimensions = cfg.EmbeddingDimensions
		adapter.dimensions = cfg.EmbeddingDimensions
	}
	if dimensions == 0 {
		log.Printf("openai: unknown embedding model %q, vector size not checked", embeddingModel)
	}
	return &Client{
		chat:           adapter,
		api:            adapter,
		cache:          cfg.Cache,
		embeddingModel: embeddingModel,
		dimensions:     dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// Complete sends a system and user prompt and returns the model's answer
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", ErrEmptyText
	}
	text, err := c.chat.CreateChatCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	return text, nil
}

// GenerateEmbedding generates an embedding for the given text, reading and filling
// the cache when one is configured
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	key := c.cacheKey(text)
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("openai: embedding cache read failed: %v", err)
		} else if ok && c.validLength(cached) {
			return cached, nil
		}
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if !c.validLength(embedding) {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrWrongDimensions, len(embedding), c.dimensions)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, string(c.embeddingModel), embedding); err != nil {
			log.Printf("openai: embedding cache write failed: %v", err)
		}
	}

	return embedding, nil
}

// validLength checks a vector against the expected size; 0 accepts any non-empty one.
func (c *Client) validLength(embedding []float32) bool {
	if c.dimensions == 0 {
		return len(embedding) > 0
	}
	return len(embedding) == c.dimensions
}

func (c *Client) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", c.embeddingModel, c.dimensions, text)))
	return hex.EncodeToString(sum[:])
}
