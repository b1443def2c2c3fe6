package ai

import (
	"context"
	"time"
)

// ChatMessage represents a single message in a chat conversation sent to the
// entity oracle.
//
// Role must be one of:
//   - "system"    → an instruction message
//   - "user"      → a user-provided message
//   - "assistant" → a message from the AI assistant
type ChatMessage struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

// GenerateOptions holds configuration for oracle generation requests.
type GenerateOptions struct {
	Model         string        // Model identifier to use for generation
	SystemPrompts []string      // System prompts prepended to the request
	Temperature   float64       // Sampling temperature (0.0-2.0)
	MaxTokens     int           // Maximum number of output tokens, 0 = provider default
	Timeout       time.Duration // Per-request deadline, 0 = no explicit deadline
	SessionID     string        // Session/trace id attached to the request
}

// GenerateOption is a functional option for configuring oracle requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens returns a GenerateOption that caps the number of output tokens.
func WithMaxTokens(tokens int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = tokens
	}
}

// WithTimeout returns a GenerateOption that sets a per-request deadline.
// The deadline applies to the single underlying API call, not to retries.
func WithTimeout(timeout time.Duration) GenerateOption {
	return func(o *GenerateOptions) {
		o.Timeout = timeout
	}
}

// WithSessionID returns a GenerateOption that attaches a session/trace id
// to the request for correlation in provider-side logs.
func WithSessionID(id string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SessionID = id
	}
}

// ModelMetrics contains accumulated usage metrics from oracle calls.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// EntityAIClient defines the interface to the entity oracle: an external
// chat model that proposes candidate entity strings for a chunk of document
// text. Implementations handle transport, timeouts and usage accounting.
//
// Failures (timeout, auth, malformed response) surface as errors to the
// caller; the extraction pipeline treats them as an empty result for the
// affected chunk.
type EntityAIClient interface {
	GenerateChat(
		ctx context.Context,
		messages []ChatMessage,
		opts ...GenerateOption,
	) (string, error)
	GenerateChatWithFormat(
		ctx context.Context,
		name string,
		description string,
		messages []ChatMessage,
		out any,
		opts ...GenerateOption,
	) error

	ResetMetrics()
	GetMetrics() ModelMetrics
}
