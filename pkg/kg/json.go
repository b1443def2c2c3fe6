package kg

import (
	"encoding/json"
	"fmt"
	"os"

	"kgraph/internal/util"
)

// graphDocument is the native serialization shape. It carries every node
// with its kind and doc_id and every edge with its relation, so a save/load
// cycle reproduces the graph exactly.
type graphDocument struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// SaveJSON writes the graph to path in its native JSON form. The write is
// atomic.
func (g *Graph) SaveJSON(path string) error {
	doc := graphDocument{Nodes: g.Nodes(), Edges: g.Edges()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing graph %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a graph previously written by SaveJSON.
func LoadJSON(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph %s: %w", path, err)
	}
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding graph %s: %w", path, err)
	}

	g := NewGraph()
	for _, n := range doc.Nodes {
		g.addNode(n)
	}
	for _, e := range doc.Edges {
		g.AddEdge(e.Source, e.Target, e.Relation)
	}
	return g, nil
}
