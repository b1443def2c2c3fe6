package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kgraph/internal/util"
	"kgraph/pkg/ai"
	"kgraph/pkg/common"
	"kgraph/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// Run processes every *.txt document under corpusDir, extracts entities via
// the given oracle client and writes the resulting document-to-entities
// mapping to outputPath as JSON. Documents are processed in parallel up to
// the configured limit; a document that cannot be read or parsed is skipped
// with a warning and the run continues.
//
// When ctx is cancelled mid-run, the entities collected so far are still
// flushed to outputPath and the context error is returned alongside the
// partial mapping. The artifact write is atomic, so a previous output file
// is never left half-overwritten.
func (e *ExtractorClient) Run(
	ctx context.Context,
	corpusDir string,
	outputPath string,
	client ai.EntityAIClient,
) (common.DocEntities, error) {
	if _, err := os.Stat(corpusDir); err != nil {
		return nil, fmt.Errorf("%w: corpus directory %s: %v", ErrMissingInput, corpusDir, err)
	}

	paths, err := filepath.Glob(filepath.Join(corpusDir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing corpus directory %s: %w", corpusDir, err)
	}
	if len(paths) == 0 {
		logger.Warn("[Extract] No documents found", "dir", corpusDir)
		return common.DocEntities{}, nil
	}

	traceID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate trace ID: %w", err)
	}

	logger.Info("[Extract] Processing corpus", "total_documents", len(paths), "trace_id", traceID)

	result := make(common.DocEntities, len(paths))
	mutex := sync.Mutex{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelDocs)
	for _, path := range paths {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				name := filepath.Base(path)
				content, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("[Extract] Skipping unreadable document", "document", name, "error", err)
					return nil
				}

				docID, entities, err := e.processDocument(gCtx, name, string(content), traceID, client)
				if err != nil {
					logger.Warn("[Extract] Skipping document", "document", name, "error", err)
					return nil
				}
				if len(entities) == 0 {
					logger.Debug("[Extract] Document yielded no entities", "document", name)
					return nil
				}

				mutex.Lock()
				result[docID] = entities
				mutex.Unlock()

				logger.Info("[Extract] Document processed", "document", name, "doc_id", docID, "entities", len(entities))
				return nil
			}
		})
	}

	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	if len(result) == 0 {
		logger.Warn("[Extract] No document produced entities, nothing written")
		return result, waitErr
	}

	if err := writeEntitiesArtifact(outputPath, result); err != nil {
		return result, err
	}
	logger.Info("[Extract] Entities written", "path", outputPath, "documents", len(result))

	return result, waitErr
}

func writeEntitiesArtifact(path string, entities common.DocEntities) error {
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding entities: %w", err)
	}
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing entities artifact %s: %w", path, err)
	}
	return nil
}
