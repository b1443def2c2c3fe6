package kg

import (
	"reflect"
	"testing"

	"kgraph/pkg/common"
)

func TestValidateTriples(t *testing.T) {
	tests := []struct {
		name    string
		triples []common.Triple
		want    []common.Triple
	}{
		{
			name:    "empty input",
			triples: []common.Triple{},
			want:    []common.Triple{},
		},
		{
			name: "valid relations pass through untouched",
			triples: []common.Triple{
				{Head: "Kernel", Relation: "defines", Tail: "Syscall"},
				{Head: "Scheduler", Relation: "part_of", Tail: "Kernel"},
			},
			want: []common.Triple{
				{Head: "Kernel", Relation: "defines", Tail: "Syscall"},
				{Head: "Scheduler", Relation: "part_of", Tail: "Kernel"},
			},
		},
		{
			name: "unknown relation dropped",
			triples: []common.Triple{
				{Head: "X", Relation: "bogus_rel", Tail: "Y"},
				{Head: "X", Relation: "uses", Tail: "Y"},
			},
			want: []common.Triple{
				{Head: "X", Relation: "uses", Tail: "Y"},
			},
		},
		{
			name: "mentions is rejected from external input",
			triples: []common.Triple{
				{Head: "X", Relation: "mentions", Tail: "DOC_1"},
			},
			want: []common.Triple{},
		},
		{
			name: "duplicates collapse to first occurrence",
			triples: []common.Triple{
				{Head: "X", Relation: "defines", Tail: "Y"},
				{Head: "X", Relation: "defines", Tail: "Y"},
				{Head: "X", Relation: "uses", Tail: "Y"},
			},
			want: []common.Triple{
				{Head: "X", Relation: "defines", Tail: "Y"},
				{Head: "X", Relation: "uses", Tail: "Y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTriples(tt.triples)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateTriples(%v) = %v, want %v", tt.triples, got, tt.want)
			}
		})
	}
}
