package extract

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kgraph/pkg/ai"
	"kgraph/pkg/common"
)

// fakeOracle returns a canned response per user message and records the
// chunks it was asked about.
type fakeOracle struct {
	respond func(chunk string) (string, error)
}

func (f *fakeOracle) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages")
	}
	return f.respond(messages[len(messages)-1].Message)
}

func (f *fakeOracle) GenerateChatWithFormat(ctx context.Context, name string, description string, messages []ai.ChatMessage, out any, opts ...ai.GenerateOption) error {
	if len(messages) == 0 {
		return errors.New("no messages")
	}
	raw, err := f.respond(messages[len(messages)-1].Message)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeOracle) ResetMetrics() {}

func (f *fakeOracle) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func newTestClient(t *testing.T) *ExtractorClient {
	t.Helper()
	client, err := NewExtractorClient(NewExtractorClientParams{
		ChunkSize:  64,
		MaxRetries: 1,
	})
	if err != nil {
		t.Fatalf("NewExtractorClient: %v", err)
	}
	return client
}

func writeDoc(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing test document: %v", err)
	}
}

func TestProcessDocument(t *testing.T) {
	client := newTestClient(t)
	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		return `Found these: ["machine learning", "machine learning", "API", "ml"]`, nil
	}}

	docID, entities, err := client.processDocument(
		context.Background(), "doc.txt", "doc_id: 9\nshort body", "trace", oracle,
	)
	if err != nil {
		t.Fatalf("processDocument: %v", err)
	}
	if docID != "9" {
		t.Errorf("docID = %q, want %q", docID, "9")
	}
	// "ml" normalizes to "Ml" and is dropped for length.
	want := []string{"Api", "MachineLearning"}
	if !reflect.DeepEqual(entities, want) {
		t.Errorf("entities = %v, want %v", entities, want)
	}
}

func TestProcessDocumentOracleFailureIsContained(t *testing.T) {
	client := newTestClient(t)
	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		return "", errors.New("oracle down")
	}}

	docID, entities, err := client.processDocument(
		context.Background(), "doc.txt", "doc_id: 1\nbody", "trace", oracle,
	)
	if err != nil {
		t.Fatalf("processDocument should contain oracle failures, got: %v", err)
	}
	if docID != "1" {
		t.Errorf("docID = %q, want %q", docID, "1")
	}
	if len(entities) != 0 {
		t.Errorf("entities = %v, want none", entities)
	}
}

func TestProcessDocumentMissingHeader(t *testing.T) {
	client := newTestClient(t)
	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		return `[]`, nil
	}}

	_, _, err := client.processDocument(context.Background(), "doc.txt", "no header here", "trace", oracle)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("error = %v, want ErrMalformedDocument", err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "doc_id: 1\nfirst document body")
	writeDoc(t, dir, "b.txt", "doc_id: 2\nsecond document body")
	writeDoc(t, dir, "broken.txt", "missing header")
	writeDoc(t, dir, "notes.md", "doc_id: 3\nignored, wrong extension")

	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		return `["graph database", "entity resolution"]`, nil
	}}

	outputPath := filepath.Join(dir, "out", "doc_entities.json")
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	client := newTestClient(t)
	result, err := client.Run(context.Background(), dir, outputPath, oracle)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := common.DocEntities{
		"1": {"EntityResolution", "GraphDatabase"},
		"2": {"EntityResolution", "GraphDatabase"},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("result = %v, want %v", result, want)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	var fromDisk common.DocEntities
	if err := json.Unmarshal(data, &fromDisk); err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}
	if !reflect.DeepEqual(fromDisk, want) {
		t.Errorf("artifact = %v, want %v", fromDisk, want)
	}
}

func TestRunMissingCorpusDir(t *testing.T) {
	client := newTestClient(t)
	oracle := &fakeOracle{respond: func(chunk string) (string, error) { return `[]`, nil }}

	_, err := client.Run(context.Background(), "/does/not/exist", "out.json", oracle)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "doc_entities.json")

	client := newTestClient(t)
	oracle := &fakeOracle{respond: func(chunk string) (string, error) { return `[]`, nil }}

	result, err := client.Run(context.Background(), dir, outputPath, oracle)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("result = %v, want empty", result)
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("no artifact should be written for an empty corpus")
	}
}

func TestRunCancellationFlushesPartialResults(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "doc_id: 1\nfirst document body")
	writeDoc(t, dir, "b.txt", "doc_id: 2\nsecond document body")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first document succeeds; the second call cancels the run.
	calls := 0
	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		calls++
		if calls > 1 {
			cancel()
			return "", errors.New("connection reset")
		}
		return `["graph database"]`, nil
	}}

	client, err := NewExtractorClient(NewExtractorClientParams{
		ParallelDocs:       1,
		ParallelAiRequests: 1,
		MaxRetries:         1,
	})
	if err != nil {
		t.Fatalf("NewExtractorClient: %v", err)
	}

	outputPath := filepath.Join(dir, "doc_entities.json")
	result, err := client.Run(ctx, dir, outputPath, oracle)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	want := common.DocEntities{"1": {"GraphDatabase"}}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("partial result = %v, want %v", result, want)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("completed results must still be flushed: %v", err)
	}
	var fromDisk common.DocEntities
	if err := json.Unmarshal(data, &fromDisk); err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}
	if !reflect.DeepEqual(fromDisk, want) {
		t.Errorf("artifact = %v, want %v", fromDisk, want)
	}
}

func TestRunStrictJSONMode(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "doc_id: 1\nbody")

	oracle := &fakeOracle{respond: func(chunk string) (string, error) {
		return `{"entities": ["vector index"]}`, nil
	}}

	client, err := NewExtractorClient(NewExtractorClientParams{StrictJSON: true, MaxRetries: 1})
	if err != nil {
		t.Fatalf("NewExtractorClient: %v", err)
	}

	outputPath := filepath.Join(dir, "doc_entities.json")
	result, err := client.Run(context.Background(), dir, outputPath, oracle)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := common.DocEntities{"1": {"VectorIndex"}}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("result = %v, want %v", result, want)
	}
}
