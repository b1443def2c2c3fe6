package common

// Triple is a directed semantic statement between two entities: the head
// entity relates to the tail entity via the named relation.
//
// Triples arrive from an upstream extraction step as JSON arrays of exactly
// three strings ([head, relation, tail]) and are validated against the
// relation vocabulary before they reach the graph.
type Triple struct {
	Head     string `json:"head"`
	Relation string `json:"relation"`
	Tail     string `json:"tail"`
}

// DocEntities maps a document id (decimal string) to the sorted list of
// canonical entity labels extracted from that document. It is the shape of
// the doc_entities.json artifact produced by the extraction pipeline and
// consumed by the graph assembler.
type DocEntities map[string][]string
