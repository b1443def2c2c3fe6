package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"kgraph/pkg/ai"

	"github.com/ollama/ollama/api"
)

const defaultBaseURL = "http://127.0.0.1:11434"

// EntityOllamaClient implements the ai.EntityAIClient interface using Ollama
// as the backend, for locally-hosted oracle models.
type EntityOllamaClient struct {
	extractionModel string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client

	Client *api.Client
}

// NewEntityOllamaClientParams contains configuration options for creating a
// new EntityOllamaClient.
type NewEntityOllamaClientParams struct {
	ExtractionModel string

	BaseURL string
	ApiKey  string
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		// don't overwrite if already set
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewEntityOllamaClient creates a new Ollama-based oracle client. It connects
// to the Ollama server at the given BaseURL (or the local default if empty)
// and uses the configured model for entity extraction.
func NewEntityOllamaClient(
	params NewEntityOllamaClientParams,
) (*EntityOllamaClient, error) {
	base := params.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	httpClient := http.DefaultClient
	if params.ApiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + params.ApiKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	cli := api.NewClient(u, httpClient)

	return &EntityOllamaClient{
		extractionModel: params.ExtractionModel,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		baseURL:    u,
		apiKey:     params.ApiKey,
		httpClient: httpClient,

		Client: cli,
	}, nil
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (c *EntityOllamaClient) ResetMetrics() {
	c.metricsLock.Lock()
	c.metrics = ai.ModelMetrics{}
	c.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since
// the last reset.
func (c *EntityOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}

func (c *EntityOllamaClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += m.InputTokens
	c.metrics.OutputTokens += m.OutputTokens
	c.metrics.TotalTokens += m.TotalTokens
	c.metrics.DurationMs += m.DurationMs
}
