package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds the model provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Provider implements LLMService on the OpenAI-compatible chat API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new model provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Validate checks the provider configuration.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("API key is required, set APARATUS_AI_API_KEY")
	}
	return nil
}

// Chat performs a plain chat completion.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model:    p.config.ChatModel,
			Messages: toOpenAIMessages(messages),
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}

	return result, nil
}

// ChatWithTools performs a chat completion with tools available.
func (p *Provider) ChatWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor) (*ChatResponse, error) {
	var result *ChatResponse
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model:    p.config.ChatModel,
			Messages: toOpenAIMessages(messages),
			Tools:    toOpenAITools(tools),
		}

		resp, err := p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}

		choice := resp.Choices[0]
		result = &ChatResponse{Content: choice.Message.Content}
		for _, call := range choice.Message.ToolCalls {
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete chat: %w", err)
	}

	return result, nil
}

// ChatStreamWithTools streams a chat completion with tools available.
// Content tokens are forwarded to onDelta as they arrive; tool call deltas
// are accumulated by index and returned in the final response.
func (p *Provider) ChatStreamWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor, onDelta func(token string) error) (*ChatResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:    p.config.ChatModel,
		Messages: toOpenAIMessages(messages),
		Tools:    toOpenAITools(tools),
		Stream:   true,
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat stream: %w", markUnavailable(err))
	}
	defer stream.Close()

	result := &ChatResponse{}
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chat stream failed: %w", markUnavailable(err))
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			result.Content += delta.Content
			if onDelta != nil {
				if err := onDelta(delta.Content); err != nil {
					return nil, err
				}
			}
		}
		for _, call := range delta.ToolCalls {
			index := 0
			if call.Index != nil {
				index = *call.Index
			}
			for len(result.ToolCalls) <= index {
				result.ToolCalls = append(result.ToolCalls, ToolCall{})
			}
			accumulated := &result.ToolCalls[index]
			if call.ID != "" {
				accumulated.ID = call.ID
			}
			if call.Function.Name != "" {
				accumulated.Name = call.Function.Name
			}
			accumulated.Arguments += call.Function.Arguments
		}
	}

	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("model request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return markUnavailable(lastErr)
}

// markUnavailable tags provider transport failures with ErrUnavailable.
// Context cancellation is the caller's doing and passes through untouched.
func markUnavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		converted[i] = openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}
		for _, call := range msg.ToolCalls {
			converted[i].ToolCalls = append(converted[i].ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
	}
	return converted
}

func toOpenAITools(tools []ToolDescriptor) []openai.Tool {
	converted := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		converted[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return converted
}
