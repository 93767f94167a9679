// Package anthropic provides a chat completer backed by the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel answers the language-service prompts.
const DefaultModel = "claude-3-5-haiku-latest"

const maxTokens = 4096

var (
	// ErrNoAPIKey is returned when no API key is configured
	ErrNoAPIKey = errors.New("anthropic API key not set")
	// ErrEmptyText is returned when the user prompt is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoTextContent is returned when a response has no text block
	ErrNoTextContent = errors.New("no text content in Anthropic response")
)

// MessagesAPI sends one system and user prompt and returns the text of the reply.
type MessagesAPI interface {
	CreateMessage(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SDKAdapter implements MessagesAPI with the Anthropic SDK.
type SDKAdapter struct {
	client sdk.Client
	model  string
}

// NewSDKAdapter creates an adapter for the given key and model.
func NewSDKAdapter(apiKey, model string) *SDKAdapter {
	if model == "" {
		model = DefaultModel
	}
	return &SDKAdapter{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// CreateMessage calls Messages.New with a cached system prompt.
func (a *SDKAdapter) CreateMessage(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt, CacheControl: sdk.NewCacheControlEphemeralParam()},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("anthropic: response size=%d tokens_in=%d tokens_out=%d cache_read=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens, message.Usage.CacheReadInputTokens)
			return block.Text, nil
		}
	}
	return "", ErrNoTextContent
}

// Client is a chat completer over the Messages API.
type Client struct {
	api MessagesAPI
}

// NewClient creates a Client.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Client{api: NewSDKAdapter(apiKey, model)}, nil
}

// Complete sends a system and user prompt and returns the model's answer.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", ErrEmptyText
	}
	text, err := c.api.CreateMessage(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	return text, nil
}
