package extract

import (
	"context"
	"fmt"

	"kgraph/internal/util"
	"kgraph/pkg/ai"
	"kgraph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// processDocument extracts the final entity list for one corpus document.
// Oracle failures are contained per chunk: a chunk whose extraction keeps
// failing after retries contributes zero entities and a warning, never an
// error. Chunk results are merged in chunk order so the deduplicator's
// first-seen preference is deterministic.
func (e *ExtractorClient) processDocument(
	ctx context.Context,
	name string,
	content string,
	sessionID string,
	client ai.EntityAIClient,
) (string, []string, error) {
	docID, body, err := parseDocument(content)
	if err != nil {
		return "", nil, err
	}

	chunks, err := e.chunk(body)
	if err != nil {
		return "", nil, fmt.Errorf("chunking document %s: %w", name, err)
	}

	results := make([][]string, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelAiRequests)
	for i, chunk := range chunks {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				entities, err := util.RetryWithContext(gCtx, e.maxRetries, func(ctx context.Context) ([]string, error) {
					return e.extractFromChunk(ctx, chunk, sessionID, client)
				})
				if err != nil {
					logger.Warn("[Extract] Chunk yielded no entities", "document", name, "chunk", i, "error", err)
					return nil
				}
				results[i] = entities
				return nil
			}
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, err
	}

	normalized := make([]string, 0, len(chunks)*8)
	for _, chunkEntities := range results {
		for _, raw := range chunkEntities {
			normalized = append(normalized, Normalize(raw))
		}
	}

	return docID, e.deduper.Deduplicate(normalized), nil
}
