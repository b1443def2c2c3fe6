package kg

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"kgraph/pkg/common"
)

func TestAssembleTriples(t *testing.T) {
	triples := []common.Triple{
		{Head: "X", Relation: "defines", Tail: "Y"},
		{Head: "X", Relation: "defines", Tail: "Y"},
		{Head: "X", Relation: "bogus_rel", Tail: "Y"},
	}

	g := Assemble(common.DocEntities{}, triples)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	want := []Edge{{Source: "X", Target: "Y", Relation: RelationDefines}}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %v, want %v", got, want)
	}
}

func TestAssembleMentions(t *testing.T) {
	docEntities := common.DocEntities{
		"1": {"Kernel", "Scheduler"},
	}

	g := Assemble(docEntities, nil)

	for _, id := range []string{"Kernel", "Scheduler", "DOC_1"} {
		if _, ok := g.Node(id); !ok {
			t.Errorf("node %q missing", id)
		}
	}
	doc, _ := g.Node("DOC_1")
	if doc.Kind != NodeKindDocument || doc.DocID != 1 {
		t.Errorf("DOC_1 = %+v, want kind document with doc_id 1", doc)
	}

	want := []Edge{
		{Source: "Kernel", Target: "DOC_1", Relation: RelationMentions},
		{Source: "Scheduler", Target: "DOC_1", Relation: RelationMentions},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %v, want %v", got, want)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	docEntities := common.DocEntities{
		"1": {"Kernel", "Scheduler"},
		"2": {"Kernel"},
	}
	triples := []common.Triple{
		{Head: "Scheduler", Relation: "part_of", Tail: "Kernel"},
		{Head: "Kernel", Relation: "uses", Tail: "Scheduler"},
	}

	first := Assemble(docEntities, triples)
	second := Assemble(docEntities, triples)

	if !reflect.DeepEqual(first.Nodes(), second.Nodes()) {
		t.Error("node sets differ between identical assemblies")
	}
	if !reflect.DeepEqual(first.Edges(), second.Edges()) {
		t.Error("edge sets differ between identical assemblies")
	}
}

func TestAssembleSkipsNonIntegerDocID(t *testing.T) {
	g := Assemble(common.DocEntities{"not-a-number": {"Kernel"}}, nil)
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
}

func writeArtifact(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, DocEntitiesFileName, `{"1": ["Kernel"]}`)
	writeArtifact(t, dir, TriplesFileName,
		`[["X","defines","Y"], ["short","pair"], ["A","uses","B"]]`)

	docEntities, triples, err := LoadSources(dir)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}

	wantEntities := common.DocEntities{"1": {"Kernel"}}
	if !reflect.DeepEqual(docEntities, wantEntities) {
		t.Errorf("docEntities = %v, want %v", docEntities, wantEntities)
	}
	wantTriples := []common.Triple{
		{Head: "X", Relation: "defines", Tail: "Y"},
		{Head: "A", Relation: "uses", Tail: "B"},
	}
	if !reflect.DeepEqual(triples, wantTriples) {
		t.Errorf("triples = %v, want %v", triples, wantTriples)
	}
}

func TestLoadSourcesMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, DocEntitiesFileName, `{}`)

	_, _, err := LoadSources(dir)
	if !errors.Is(err, ErrMissingArtifact) {
		t.Fatalf("error = %v, want ErrMissingArtifact", err)
	}
	if !strings.Contains(err.Error(), TriplesFileName) {
		t.Errorf("error %q should name the missing file", err)
	}
}
