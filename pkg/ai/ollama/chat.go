package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"kgraph/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

// GenerateChat sends a multi-turn conversation and returns assistant text.
func (c *EntityOllamaClient) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.0,
	}
	for _, o := range opts {
		o(&options)
	}

	req, err := c.buildRequest(messages, options)
	if err != nil {
		return "", err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	final, err := c.chat(ctx, req)
	if err != nil {
		return "", err
	}

	return final.Message.Content, nil
}

// GenerateChatWithFormat enforces a JSON schema on the reply and unmarshals
// it into out. Used for the strict-JSON oracle mode.
func (c *EntityOllamaClient) GenerateChatWithFormat(
	ctx context.Context,
	name string,
	description string,
	messages []ai.ChatMessage,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.0,
	}
	for _, o := range opts {
		o(&options)
	}

	req, err := c.buildRequest(messages, options)
	if err != nil {
		return err
	}

	schemaObj := ai.GenerateSchema(out)
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return err
	}
	req.Format = formatBytes

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	final, err := c.chat(ctx, req)
	if err != nil {
		return err
	}

	return ai.UnmarshalFlexible(final.Message.Content, out)
}

func (c *EntityOllamaClient) buildRequest(
	messages []ai.ChatMessage,
	options ai.GenerateOptions,
) (*api.ChatRequest, error) {
	msgs := make([]api.Message, 0, len(options.SystemPrompts)+len(messages))
	for _, sys := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sys})
	}
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		msgs = append(msgs, api.Message{Role: role, Content: m.Message})
	}

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}

	// Locally-hosted models default to a small context window; widen it when
	// the conversation would not fit.
	tokens := 200
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, err
	}
	var chatString strings.Builder
	for _, m := range msgs {
		chatString.WriteString(m.Content)
	}
	tokens += len(enc.Encode(chatString.String(), nil, nil))
	if tokens > 4096 {
		req.Options["num_ctx"] = tokens
	}

	return req, nil
}

func (c *EntityOllamaClient) chat(
	ctx context.Context,
	req *api.ChatRequest,
) (*api.ChatResponse, error) {
	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return nil, err
	}

	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	}
	c.modifyMetrics(metrics)

	return &final, nil
}
