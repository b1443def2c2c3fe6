package kg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"kgraph/pkg/common"
	"kgraph/pkg/logger"
)

const (
	// DocEntitiesFileName is the extraction pipeline's output artifact.
	DocEntitiesFileName = "doc_entities.json"
	// TriplesFileName is the upstream triple source artifact.
	TriplesFileName = "triples.json"
)

// ErrMissingArtifact marks a required input artifact that does not exist.
var ErrMissingArtifact = errors.New("missing artifact")

// CheckRequiredFiles verifies that both input artifacts exist under dir. The
// returned error names the first missing file. Called before any node is
// created so a missing input never leaves a partial graph behind.
func CheckRequiredFiles(dir string) error {
	for _, name := range []string{DocEntitiesFileName, TriplesFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
	}
	return nil
}

// LoadSources reads and decodes both input artifacts from dir. Triple entries
// that are not exactly three strings are skipped with a warning.
func LoadSources(dir string) (common.DocEntities, []common.Triple, error) {
	if err := CheckRequiredFiles(dir); err != nil {
		return nil, nil, err
	}

	entitiesData, err := os.ReadFile(filepath.Join(dir, DocEntitiesFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", DocEntitiesFileName, err)
	}
	var docEntities common.DocEntities
	if err := json.Unmarshal(entitiesData, &docEntities); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", DocEntitiesFileName, err)
	}

	triplesData, err := os.ReadFile(filepath.Join(dir, TriplesFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", TriplesFileName, err)
	}
	var rawTriples [][]string
	if err := json.Unmarshal(triplesData, &rawTriples); err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", TriplesFileName, err)
	}

	triples := make([]common.Triple, 0, len(rawTriples))
	for _, entry := range rawTriples {
		if len(entry) != 3 {
			logger.Warn("[Graph] Skipping malformed triple entry", "entry", entry)
			continue
		}
		triples = append(triples, common.Triple{Head: entry[0], Relation: entry[1], Tail: entry[2]})
	}

	return docEntities, triples, nil
}

// Assemble builds the knowledge graph from a per-document entity mapping and
// a raw triple list. Triples are validated first, then added as entity-to-
// entity edges; afterwards every document gets its document node and one
// mentions edge per extracted entity. Assembly from the same inputs always
// yields the same node and edge sets.
func Assemble(docEntities common.DocEntities, triples []common.Triple) *Graph {
	g := NewGraph()

	for _, t := range ValidateTriples(triples) {
		g.AddEntityNode(t.Head)
		g.AddEntityNode(t.Tail)
		g.AddEdge(t.Head, t.Tail, Relation(t.Relation))
	}

	docIDs := make([]string, 0, len(docEntities))
	for docID := range docEntities {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	for _, key := range docIDs {
		docID, err := strconv.Atoi(key)
		if err != nil {
			logger.Warn("[Graph] Skipping document with non-integer id", "doc_id", key)
			continue
		}
		docNode := g.AddDocumentNode(docID)
		for _, entity := range docEntities[key] {
			g.AddEntityNode(entity)
			g.AddEdge(entity, docNode, RelationMentions)
		}
	}

	return g
}
