package extract

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// DefaultSimilarityThreshold is the Jaro-Winkler score above which two
// normalized entities are considered the same concept.
const DefaultSimilarityThreshold = 0.85

// DefaultStopwords lists generic terms that carry no graph value. Matching is
// case sensitive on the normalized form, so "APP" survives while "App" does
// not.
var DefaultStopwords = []string{
	"App", "Application", "Data", "File", "System",
	"Приложение", "Данные", "Система", "Файл",
}

// Deduplicator collapses near-duplicate entities from a single document.
type Deduplicator struct {
	threshold float64
	stopwords map[string]struct{}
}

type NewDeduplicatorParams struct {
	// Threshold overrides DefaultSimilarityThreshold when > 0.
	Threshold float64
	// Stopwords overrides DefaultStopwords when non-nil. Pass an empty
	// non-nil slice to disable stop-word filtering entirely.
	Stopwords []string
}

func NewDeduplicator(params NewDeduplicatorParams) *Deduplicator {
	threshold := params.Threshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	words := params.Stopwords
	if words == nil {
		words = DefaultStopwords
	}
	stopwords := make(map[string]struct{}, len(words))
	for _, w := range words {
		stopwords[w] = struct{}{}
	}
	return &Deduplicator{threshold: threshold, stopwords: stopwords}
}

// Deduplicate filters a slice of normalized entities down to the surviving
// set. Each entity is trimmed of surrounding whitespace first, then entities
// of length two or less and stop-words are dropped, then each
// remaining candidate is compared case-insensitively against every already
// kept entity; a Jaro-Winkler similarity strictly greater than the threshold
// drops the candidate. Earlier entries win, so input order decides which
// variant of a near-duplicate pair survives. The result is sorted.
func (d *Deduplicator) Deduplicate(entities []string) []string {
	kept := make([]string, 0, len(entities))
	for _, entity := range entities {
		entity = strings.TrimSpace(entity)
		if len([]rune(entity)) <= 2 {
			continue
		}
		if _, ok := d.stopwords[entity]; ok {
			continue
		}
		lower := strings.ToLower(entity)
		duplicate := false
		for _, existing := range kept {
			if smetrics.JaroWinkler(lower, strings.ToLower(existing), 0.7, 4) > d.threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, entity)
		}
	}
	sort.Strings(kept)
	return kept
}
