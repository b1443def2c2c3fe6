package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultChunkSize is the maximum chunk length in runes when rune-based
// chunking is active.
const DefaultChunkSize = 8000

var docIDPattern = regexp.MustCompile(`^doc_id:\s*(\d+)\s*$`)

// parseDocument splits a raw corpus file into its document id and body. The
// first line must match "doc_id: <integer>"; everything after it is the body.
func parseDocument(content string) (docID string, body string, err error) {
	header, rest, _ := strings.Cut(content, "\n")
	match := docIDPattern.FindStringSubmatch(strings.TrimRight(header, "\r"))
	if match == nil {
		return "", "", fmt.Errorf("%w: first line %q does not declare a doc_id", ErrMalformedDocument, header)
	}
	return match[1], rest, nil
}

// chunkByRunes slices text into consecutive chunks of at most size runes.
// There is no overlap. Empty text yields no chunks.
func chunkByRunes(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// chunkByTokens slices text into consecutive windows of at most maxTokens
// tokens under the given tiktoken encoding, decoding each window back to the
// original text. Like chunkByRunes there is no overlap.
func chunkByTokens(text string, encoding string, maxTokens int) ([]string, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading token encoding %q: %w", encoding, err)
	}
	tokens := enc.Encode(text, nil, nil)
	chunks := make([]string, 0, len(tokens)/maxTokens+1)
	for start := 0; start < len(tokens); start += maxTokens {
		end := min(start+maxTokens, len(tokens))
		chunks = append(chunks, enc.Decode(tokens[start:end]))
	}
	return chunks, nil
}
