package extract

import (
	"time"

	"kgraph/pkg/ai"
)

// ExtractorClient drives entity extraction over a corpus of plain-text
// documents. It manages chunking, oracle parallelism, retries and the
// per-document normalize/deduplicate post-processing.
//
// An ExtractorClient should be created using NewExtractorClient.
type ExtractorClient struct {
	chunkSize          int
	tokenEncoder       string
	maxChunkTokens     int
	parallelDocs       int
	parallelAiRequests int
	maxRetries         int
	model              string
	maxTokens          int
	temperature        float64
	timeout            time.Duration
	strictJSON         bool
	systemPrompt       string
	deduper            *Deduplicator
}

// NewExtractorClientParams defines the configuration parameters for creating
// a new ExtractorClient.
//
// ChunkSize is the maximum chunk length in runes; it is ignored when
// TokenEncoder is set, in which case chunks are sized by token count under
// that tiktoken encoding instead.
// ParallelDocs controls how many documents are processed in parallel.
// ParallelAiRequests controls how many oracle requests are in flight per
// document.
// StrictJSON switches the oracle call to schema-constrained JSON output
// instead of lenient array scraping.
type NewExtractorClientParams struct {
	ChunkSize          int
	TokenEncoder       string
	MaxChunkTokens     int
	ParallelDocs       int
	ParallelAiRequests int
	MaxRetries         int
	Model              string
	MaxTokens          int
	Temperature        float64
	Timeout            time.Duration
	StrictJSON         bool
	SystemPrompt       string
	Dedupe             NewDeduplicatorParams
}

// NewExtractorClient creates and returns a new ExtractorClient configured
// with the provided parameters. Zero values fall back to defaults suitable
// for a local oracle.
func NewExtractorClient(params NewExtractorClientParams) (*ExtractorClient, error) {
	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	maxChunkTokens := params.MaxChunkTokens
	if maxChunkTokens <= 0 {
		maxChunkTokens = 2000
	}
	parallelDocs := params.ParallelDocs
	if parallelDocs <= 0 {
		parallelDocs = 4
	}
	parallelAiRequests := params.ParallelAiRequests
	if parallelAiRequests <= 0 {
		parallelAiRequests = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	systemPrompt := params.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = ai.ExtractEntitiesPrompt
	}

	e := &ExtractorClient{
		chunkSize:          chunkSize,
		tokenEncoder:       params.TokenEncoder,
		maxChunkTokens:     maxChunkTokens,
		parallelDocs:       parallelDocs,
		parallelAiRequests: parallelAiRequests,
		maxRetries:         maxRetries,
		model:              params.Model,
		maxTokens:          maxTokens,
		temperature:        params.Temperature,
		timeout:            timeout,
		strictJSON:         params.StrictJSON,
		systemPrompt:       systemPrompt,
		deduper:            NewDeduplicator(params.Dedupe),
	}

	return e, nil
}

// chunk splits a document body according to the configured chunking mode.
func (e *ExtractorClient) chunk(body string) ([]string, error) {
	if e.tokenEncoder != "" {
		return chunkByTokens(body, e.tokenEncoder, e.maxChunkTokens)
	}
	return chunkByRunes(body, e.chunkSize), nil
}
