package kg

import "fmt"

// NodeKind distinguishes entity nodes from document nodes.
type NodeKind string

const (
	NodeKindEntity   NodeKind = "entity"
	NodeKindDocument NodeKind = "document"
)

// Node is a graph vertex. DocID is only meaningful for document nodes.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	DocID int      `json:"doc_id,omitempty"`
}

// Edge is a directed, relation-tagged connection between two nodes. Edges are
// value types; two edges are the same edge exactly when source, target and
// relation all match.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
}

// Graph is a directed multigraph: multiple edges may connect the same ordered
// node pair as long as their relations differ. Node insertion order is
// preserved for deterministic serialization. Graph is not safe for concurrent
// mutation.
//
// A Graph should be created using NewGraph.
type Graph struct {
	nodes   map[string]Node
	order   []string
	edges   []Edge
	edgeSet map[Edge]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]Node),
		order:   make([]string, 0),
		edges:   make([]Edge, 0),
		edgeSet: make(map[Edge]struct{}),
	}
}

// AddEntityNode ensures an entity node with the given id exists. Adding a
// node that is already present leaves its attributes untouched.
func (g *Graph) AddEntityNode(id string) {
	g.addNode(Node{ID: id, Kind: NodeKindEntity})
}

// AddDocumentNode ensures the document node for docID exists and returns its
// node id.
func (g *Graph) AddDocumentNode(docID int) string {
	id := DocumentNodeID(docID)
	g.addNode(Node{ID: id, Kind: NodeKindDocument, DocID: docID})
	return id
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

// AddEdge adds a directed relation-tagged edge. Re-adding an identical edge
// is a no-op; the return value reports whether the edge was new.
func (g *Graph) AddEdge(source string, target string, relation Relation) bool {
	e := Edge{Source: source, Target: target, Relation: relation}
	if _, ok := g.edgeSet[e]; ok {
		return false
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	return true
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The slice is a copy.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order. The slice is a copy.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// OutEdges returns the edges leaving the given node, in insertion order.
func (g *Graph) OutEdges(id string) []Edge {
	out := make([]Edge, 0)
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// DocumentNodeID derives the node id for a document.
func DocumentNodeID(docID int) string {
	return fmt.Sprintf("DOC_%d", docID)
}
