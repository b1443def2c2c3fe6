package openai

import (
	"context"
	"fmt"
	"time"

	"kgraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// GenerateChat sends a multi-turn conversation to the chat model and returns
// the assistant's reply as plain text.
//
// Example:
//
//	resp, err := client.GenerateChat(ctx, []ai.ChatMessage{
//		{Role: "user", Message: "Extract the terms from this text..."},
//	}, ai.WithSystemPrompts(ai.ExtractEntitiesPrompt))
func (c *EntityOpenAIClient) GenerateChat(
	ctx context.Context,
	messages []ai.ChatMessage,
	opts ...ai.GenerateOption,
) (string, error) {
	if c.ChatClient == nil {
		return "", fmt.Errorf("chat client is not configured, missing API key")
	}

	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.0,
	}
	for _, o := range opts {
		o(&options)
	}

	body := c.buildRequest(messages, options)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", options.Model)
	}

	return response.Choices[0].Message.Content, nil
}

// GenerateChatWithFormat sends a conversation to the chat model and
// unmarshals the response into the provided output struct, using a JSON
// schema to enforce structure.
//
// This is used for the strict-JSON oracle mode, where the provider enforces
// the array shape instead of the lenient response parser.
func (c *EntityOpenAIClient) GenerateChatWithFormat(
	ctx context.Context,
	name string,
	description string,
	messages []ai.ChatMessage,
	out any,
	opts ...ai.GenerateOption,
) error {
	if c.ChatClient == nil {
		return fmt.Errorf("chat client is not configured, missing API key")
	}

	schema := ai.GenerateSchema(out)
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        name,
		Description: openai.String(description),
		Schema:      schema,
		Strict:      openai.Bool(true),
	}

	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.0,
	}
	for _, o := range opts {
		o(&options)
	}

	body := c.buildRequest(messages, options)
	body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: schemaParam,
		},
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := c.ChatClient.Chat.Completions.New(ctx, body)
	if err != nil {
		return err
	}
	duration := time.Since(start).Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   duration,
	}
	c.modifyMetrics(metrics)

	if len(response.Choices) == 0 {
		return fmt.Errorf("empty response from model %s", options.Model)
	}

	return ai.UnmarshalFlexible(response.Choices[0].Message.Content, out)
}

func (c *EntityOpenAIClient) buildRequest(
	messages []ai.ChatMessage,
	options ai.GenerateOptions,
) openai.ChatCompletionNewParams {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, openai.SystemMessage(sp))
	}

	for _, m := range messages {
		switch m.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(m.Message))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(m.Message))
		default:
			msgs = append(msgs, openai.UserMessage(m.Message))
		}
	}

	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(options.Model),
		Messages:    msgs,
		Temperature: openai.Float(options.Temperature),
	}

	if options.MaxTokens > 0 {
		body.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.SessionID != "" {
		body.Metadata = shared.Metadata{"session_id": options.SessionID}
	}

	return body
}
