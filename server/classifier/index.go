package classifier

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/teligen-kh/aicounsel/store"
)

// Tokenize lower-cases text and splits it into letter/digit runs. Hangul,
// Latin, and digits survive; punctuation and whitespace separate tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ngrams returns the 1-, 2- and 3-grams of tokens, joined by a space. Word
// n-grams catch short phrase combinations the way the pattern corpus is
// written (2-6 word fragments).
func ngrams(tokens []string) []string {
	grams := make([]string, 0, len(tokens)*3)
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// termWeight is one component of a query vector, kept in sorted-term order
// so similarity sums are evaluated deterministically.
type termWeight struct {
	term   string
	weight float64
}

// Snapshot is an immutable, point-in-time build of the search index. It is
// never mutated after construction; rebuilds produce a fresh snapshot that
// is swapped in wholesale.
type Snapshot struct {
	patterns []*store.Pattern
	// vectors[i] is the L2-normalized n-gram TF-IDF vector of patterns[i].
	vectors []map[string]float64
	// inverted maps a token to the indices of patterns containing it.
	inverted map[string][]int
	// idf carries the corpus IDF weights; query vectors reuse them so no
	// per-query retraining is needed.
	idf     map[string]float64
	builtAt time.Time
}

// BuildSnapshot derives the index from the given pattern list. Given the
// same list the result is identical every time: iteration follows slice
// order and there is no randomness.
func BuildSnapshot(patterns []*store.Pattern) *Snapshot {
	snapshot := &Snapshot{
		patterns: patterns,
		vectors:  make([]map[string]float64, len(patterns)),
		inverted: make(map[string][]int),
		idf:      make(map[string]float64),
		builtAt:  time.Now(),
	}

	// Term frequencies per pattern and document frequencies per n-gram.
	termFreqs := make([]map[string]float64, len(patterns))
	docFreq := make(map[string]int)
	for i, pattern := range patterns {
		tokens := Tokenize(pattern.Text)

		for _, token := range tokens {
			ids := snapshot.inverted[token]
			if len(ids) == 0 || ids[len(ids)-1] != i {
				snapshot.inverted[token] = append(ids, i)
			}
		}

		tf := make(map[string]float64)
		for _, gram := range ngrams(tokens) {
			tf[gram]++
		}
		termFreqs[i] = tf
		for gram := range tf {
			docFreq[gram]++
		}
	}

	// Smoothed IDF over the active corpus.
	total := float64(len(patterns))
	for gram, df := range docFreq {
		snapshot.idf[gram] = math.Log((1+total)/(1+float64(df))) + 1
	}

	// TF-IDF weights, L2-normalized so cosine similarity is a dot product.
	for i, tf := range termFreqs {
		vector := make(map[string]float64, len(tf))
		var norm float64
		for gram, freq := range tf {
			w := freq * snapshot.idf[gram]
			vector[gram] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for gram := range vector {
				vector[gram] /= norm
			}
		}
		snapshot.vectors[i] = vector
	}

	return snapshot
}

// Size returns the number of indexed patterns.
func (s *Snapshot) Size() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// BuiltAt returns when the snapshot was constructed.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Vectorize maps text into the snapshot's n-gram space. Out-of-vocabulary
// n-grams contribute zero weight and are dropped; the remainder is
// L2-normalized. The result is sorted by term for deterministic summation.
func (s *Snapshot) Vectorize(text string) []termWeight {
	tf := make(map[string]float64)
	for _, gram := range ngrams(Tokenize(text)) {
		if _, ok := s.idf[gram]; ok {
			tf[gram]++
		}
	}
	if len(tf) == 0 {
		return nil
	}

	query := make([]termWeight, 0, len(tf))
	var norm float64
	for gram, freq := range tf {
		w := freq * s.idf[gram]
		query = append(query, termWeight{term: gram, weight: w})
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range query {
		query[i].weight /= norm
	}
	sort.Slice(query, func(i, j int) bool { return query[i].term < query[j].term })
	return query
}

// cosine computes the similarity between a query vector and the pattern at
// index i. Both sides are unit-length, so this is a plain dot product.
func (s *Snapshot) cosine(i int, query []termWeight) float64 {
	vector := s.vectors[i]
	var sum float64
	for _, tw := range query {
		sum += tw.weight * vector[tw.term]
	}
	return sum
}

// candidate is a phase-1 lexical retrieval hit.
type candidate struct {
	index   int
	overlap int
}

// lexicalCandidates returns the patterns sharing at least one token with the
// input, ranked by term overlap, capped at limit. Ties break on index order
// so results are reproducible.
func (s *Snapshot) lexicalCandidates(tokens []string, limit int) []candidate {
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tokens))
	overlap := make(map[int]int)
	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		for _, idx := range s.inverted[token] {
			overlap[idx]++
		}
	}
	if len(overlap) == 0 {
		return nil
	}

	candidates := make([]candidate, 0, len(overlap))
	for idx, count := range overlap {
		candidates = append(candidates, candidate{index: idx, overlap: count})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].index < candidates[j].index
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
