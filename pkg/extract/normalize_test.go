package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple phrase",
			input: "machine learning",
			want:  "MachineLearning",
		},
		{
			name:  "acronym is folded",
			input: "API",
			want:  "Api",
		},
		{
			name:  "mixed case tokens",
			input: "gRPC gateway",
			want:  "GrpcGateway",
		},
		{
			name:  "punctuation stripped",
			input: "user-facing (v2) module!",
			want:  "UserfacingV2Module",
		},
		{
			name:  "underscore kept",
			input: "snake_case name",
			want:  "Snake_caseName",
		},
		{
			name:  "extra whitespace collapsed",
			input: "  data \t pipeline \n  ",
			want:  "DataPipeline",
		},
		{
			name:  "cyrillic",
			input: "база данных",
			want:  "БазаДанных",
		},
		{
			name:  "digits preserved",
			input: "http 2",
			want:  "Http2",
		},
		{
			name:  "only punctuation",
			input: "!!! ???",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"machine learning", "API", "база данных", "Already Normal"}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
