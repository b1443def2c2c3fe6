package openai

import (
	"sync"

	"kgraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// EntityOpenAIClient implements ai.EntityAIClient against any
// OpenAI-compatible chat completion endpoint.
//
// An EntityOpenAIClient should be created using NewEntityOpenAIClient.
type EntityOpenAIClient struct {
	extractionModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewEntityOpenAIClientParams defines the configuration parameters for
// creating a new EntityOpenAIClient.
//
// ExtractionModel is the default model used when a request does not override
// it. ChatURL and ChatKey configure the chat completion endpoint; an empty
// ChatURL targets the OpenAI platform.
type NewEntityOpenAIClientParams struct {
	ExtractionModel string

	ChatURL string
	ChatKey string
}

// NewEntityOpenAIClient creates and returns a new EntityOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	client := openai.NewEntityOpenAIClient(openai.NewEntityOpenAIClientParams{
//		ExtractionModel: "gpt-4o-mini",
//		ChatKey:         os.Getenv("AI_CHAT_KEY"),
//	})
func NewEntityOpenAIClient(
	params NewEntityOpenAIClientParams,
) *EntityOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)

	return &EntityOpenAIClient{
		extractionModel: params.ExtractionModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: chatClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *EntityOpenAIClient) modifyMetrics(metrics ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += metrics.InputTokens
	c.metrics.OutputTokens += metrics.OutputTokens
	c.metrics.TotalTokens += metrics.TotalTokens
	c.metrics.DurationMs += metrics.DurationMs
}

// ResetMetrics clears the accumulated usage metrics.
func (c *EntityOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the usage metrics accumulated since the last reset.
func (c *EntityOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}
