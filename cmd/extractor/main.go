package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"kgraph/internal/util"
	"kgraph/pkg/ai"
	oai "kgraph/pkg/ai/ollama"
	gai "kgraph/pkg/ai/openai"
	"kgraph/pkg/extract"
	"kgraph/pkg/logger"
	"kgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	// EntityAIClient
	adapter := util.GetEnv("AI_ADAPTER")
	var aiClient ai.EntityAIClient

	switch adapter {
	case "ollama":
		client, err := oai.NewEntityOllamaClient(oai.NewEntityOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		aiClient = client
	default:
		if util.GetEnv("AI_CHAT_KEY") == "" {
			logger.Fatal("AI_CHAT_KEY must be set for the OpenAI adapter")
		}
		aiClient = gai.NewEntityOpenAIClient(gai.NewEntityOpenAIClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	}

	extractor, err := extract.NewExtractorClient(extract.NewExtractorClientParams{
		ChunkSize:          util.GetEnvInt("CHUNK_SIZE", extract.DefaultChunkSize),
		TokenEncoder:       util.GetEnvString("TOKEN_ENCODER", ""),
		MaxChunkTokens:     util.GetEnvInt("MAX_CHUNK_TOKENS", 0),
		ParallelDocs:       util.GetEnvInt("PARALLEL_DOCS", 4),
		ParallelAiRequests: util.GetEnvInt("PARALLEL_AI_REQUESTS", 4),
		MaxRetries:         util.GetEnvInt("MAX_RETRIES", 3),
		Model:              util.GetEnv("AI_EXTRACT_MODEL"),
		MaxTokens:          util.GetEnvInt("AI_MAX_TOKENS", 800),
		Temperature:        util.GetEnvFloat("AI_TEMPERATURE", 0.0),
		Timeout:            time.Duration(util.GetEnvInt("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		StrictJSON:         util.GetEnvBool("AI_STRICT_JSON", false),
		Dedupe: extract.NewDeduplicatorParams{
			Threshold: util.GetEnvFloat("SIMILARITY_THRESHOLD", 0),
		},
	})
	if err != nil {
		logger.Fatal("Could not create extractor client", "err", err)
	}

	corpusDir := util.GetEnvString("CORPUS_DIR", "data/corpus")
	outputDir := util.GetEnvString("OUTPUT_DIR", "data/processed")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logger.Fatal("Could not create output directory", "dir", outputDir, "err", err)
	}
	outputPath := filepath.Join(outputDir, "doc_entities.json")

	start := time.Now()
	result, err := extractor.Run(ctx, corpusDir, outputPath, aiClient)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Run cancelled, partial results flushed", "documents", len(result))
			os.Exit(1)
		}
		logger.Fatal("Extraction failed", "err", err)
	}

	metrics := aiClient.GetMetrics()
	logger.Info(
		"Extraction finished",
		"documents", len(result),
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"duration", time.Since(start).Round(time.Second).String(),
	)
}
