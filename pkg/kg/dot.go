package kg

import (
	"bytes"
	"context"
	"fmt"

	"kgraph/internal/util"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// SaveDOT renders the graph through Graphviz and writes the layouted DOT
// output to path. Relations become edge labels, document nodes get a box
// shape so they stand out from entities. The write is atomic.
func (g *Graph) SaveDOT(ctx context.Context, path string) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("initializing graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("creating graphviz graph: %w", err)
	}

	gvNodes := make(map[string]*graphviz.Node, g.NodeCount())
	for _, n := range g.Nodes() {
		gvNode, err := graph.CreateNodeByName(n.ID)
		if err != nil {
			return fmt.Errorf("creating node %s: %w", n.ID, err)
		}
		gvNode.SetLabel(n.ID)
		if n.Kind == NodeKindDocument {
			gvNode.SetShape(cgraph.Shape("box"))
		}
		gvNodes[n.ID] = gvNode
	}
	for i, e := range g.Edges() {
		gvEdge, err := graph.CreateEdgeByName(fmt.Sprintf("e%d", i), gvNodes[e.Source], gvNodes[e.Target])
		if err != nil {
			return fmt.Errorf("creating edge %s -> %s: %w", e.Source, e.Target, err)
		}
		gvEdge.SetLabel(string(e.Relation))
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, "dot", &buf); err != nil {
		return fmt.Errorf("rendering graph: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing DOT %s: %w", path, err)
	}
	return nil
}
