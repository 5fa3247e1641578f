package llm

import (
	"context"

	"github.com/openai/openai-go"

	"github.com/sozercan/dealer-assistant/internal/session"
)

type Provider interface {
	// Chat sends the system instruction and conversation history and returns
	// either text or the tool calls the model wants made.
	Chat(ctx context.Context, system string, history []session.Message, opts ...Option) (*Response, error)
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

type Option func(*Options)

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Tools       []openai.ChatCompletionToolParam
}

// WithTools advertises tools the model may call.
func WithTools(tools ...openai.ChatCompletionToolParam) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// ToolCall is one request from the model to invoke a named tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Response carries either Content or ToolCalls.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}
