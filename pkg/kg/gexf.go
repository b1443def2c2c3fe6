package kg

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"kgraph/internal/util"
)

// GEXF 1.2 interchange export. The node kind and document id travel as
// declared node attributes, the relation as the edge label, so external
// tools (Gephi and friends) can read the graph without the native format.

type gexfFile struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	DefaultEdgeType string         `xml:"defaultedgetype,attr"`
	Attributes      gexfAttributes `xml:"attributes"`
	Nodes           []gexfNode     `xml:"nodes>node"`
	Edges           []gexfEdge     `xml:"edges>edge"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNode struct {
	ID        string         `xml:"id,attr"`
	Label     string         `xml:"label,attr"`
	AttValues []gexfAttValue `xml:"attvalues>attvalue"`
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdge struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
	Label  string `xml:"label,attr"`
}

const (
	gexfAttrKind  = "0"
	gexfAttrDocID = "1"
)

// SaveGEXF writes the graph to path in GEXF 1.2 form. The write is atomic.
func (g *Graph) SaveGEXF(path string) error {
	file := gexfFile{
		XMLNS:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			Attributes: gexfAttributes{
				Class: "node",
				Attributes: []gexfAttribute{
					{ID: gexfAttrKind, Title: "kind", Type: "string"},
					{ID: gexfAttrDocID, Title: "doc_id", Type: "integer"},
				},
			},
		},
	}

	for _, n := range g.Nodes() {
		attvalues := []gexfAttValue{{For: gexfAttrKind, Value: string(n.Kind)}}
		if n.Kind == NodeKindDocument {
			attvalues = append(attvalues, gexfAttValue{For: gexfAttrDocID, Value: strconv.Itoa(n.DocID)})
		}
		file.Graph.Nodes = append(file.Graph.Nodes, gexfNode{
			ID:        n.ID,
			Label:     n.ID,
			AttValues: attvalues,
		})
	}
	for i, e := range g.Edges() {
		file.Graph.Edges = append(file.Graph.Edges, gexfEdge{
			ID:     strconv.Itoa(i),
			Source: e.Source,
			Target: e.Target,
			Label:  string(e.Relation),
		})
	}

	data, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding GEXF: %w", err)
	}
	data = append([]byte(xml.Header), data...)
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("writing GEXF %s: %w", path, err)
	}
	return nil
}
