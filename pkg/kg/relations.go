package kg

import (
	"kgraph/pkg/common"
	"kgraph/pkg/logger"
)

// Relation is the kind tag carried by every graph edge.
type Relation string

const (
	RelationDefines    Relation = "defines"
	RelationUses       Relation = "uses"
	RelationDependsOn  Relation = "depends_on"
	RelationImplements Relation = "implements"
	RelationPartOf     Relation = "part_of"
	RelationTypeOf     Relation = "type_of"
	RelationRunsOn     Relation = "runs_on"
	RelationOppositeOf Relation = "opposite_of"

	// RelationMentions links an entity to the document it was extracted
	// from. It is structural and never accepted from external triple input.
	RelationMentions Relation = "mentions"
)

// SemanticRelations is the closed vocabulary accepted from triple sources.
var SemanticRelations = map[Relation]struct{}{
	RelationDefines:    {},
	RelationUses:       {},
	RelationDependsOn:  {},
	RelationImplements: {},
	RelationPartOf:     {},
	RelationTypeOf:     {},
	RelationRunsOn:     {},
	RelationOppositeOf: {},
}

// ValidateTriples filters raw triples down to the accepted set. Triples whose
// relation is outside the semantic vocabulary, including the structural
// mentions relation, are dropped with a warning. Exact duplicates are
// collapsed to their first occurrence. Accepted triples keep their head,
// relation and tail untouched and their relative order.
func ValidateTriples(triples []common.Triple) []common.Triple {
	seen := make(map[common.Triple]struct{}, len(triples))
	valid := make([]common.Triple, 0, len(triples))
	for _, t := range triples {
		if _, ok := SemanticRelations[Relation(t.Relation)]; !ok {
			logger.Warn("[Graph] Dropping triple with invalid relation",
				"head", t.Head, "relation", t.Relation, "tail", t.Tail)
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		valid = append(valid, t)
	}
	return valid
}
