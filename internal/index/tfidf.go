// Package index implements the catalog similarity index: a sparse
// TF-IDF vector space with cosine scoring. The index is built once per
// catalog snapshot and is immutable afterwards, so concurrent queries
// need no locking. Row positions align exactly with catalog row order;
// callers join scores back to items by original row index.
package index

import (
	"math"
	"strings"
	"unicode"

	"github.com/scentlab/fragrec/internal/domain"
)

// posting is one (row, weight) entry of a term's inverted list.
type posting struct {
	row    int
	weight float64
}

// Index is an immutable TF-IDF model over a fixed catalog snapshot.
type Index struct {
	vocab    map[string]int // term -> term id
	idf      []float64      // per term id
	postings [][]posting    // per term id, row-ascending, L2-normalized weights
	rows     int
}

// Build constructs the index from the items' descriptive text. Returns
// nil when the catalog is empty; callers treat that as "no index".
func Build(items []domain.Item) *Index {
	if len(items) == 0 {
		return nil
	}

	ix := &Index{
		vocab: make(map[string]int),
		rows:  len(items),
	}

	// First pass: per-document term counts and document frequencies.
	docTerms := make([]map[string]int, len(items))
	df := make(map[string]int)
	for i := range items {
		counts := termCounts(items[i].SearchText())
		docTerms[i] = counts
		for term := range counts {
			df[term]++
		}
	}

	for term := range df {
		ix.vocab[term] = len(ix.vocab)
	}

	// Smoothed IDF, as if one extra document contained every term.
	n := float64(len(items))
	ix.idf = make([]float64, len(ix.vocab))
	for term, id := range ix.vocab {
		ix.idf[id] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	// Second pass: weight, normalize, and invert.
	ix.postings = make([][]posting, len(ix.vocab))
	for row, counts := range docTerms {
		norm := 0.0
		for term, tf := range counts {
			w := float64(tf) * ix.idf[ix.vocab[term]]
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term, tf := range counts {
			id := ix.vocab[term]
			w := float64(tf) * ix.idf[id] / norm
			ix.postings[id] = append(ix.postings[id], posting{row: row, weight: w})
		}
	}

	return ix
}

// Rows returns the number of indexed catalog rows.
func (ix *Index) Rows() int { return ix.rows }

// Terms returns the vocabulary size.
func (ix *Index) Terms() int { return len(ix.vocab) }

// Query scores free text against every catalog row and returns one
// cosine similarity per row, in catalog row order. Out-of-vocabulary
// terms contribute nothing; an empty or fully unknown query yields all
// zeros. Both sides are unit vectors, so cosine reduces to a dot product.
func (ix *Index) Query(text string) []float64 {
	scores := make([]float64, ix.rows)

	counts := termCounts(strings.ToLower(text))
	if len(counts) == 0 {
		return scores
	}

	type qterm struct {
		id     int
		weight float64
	}
	qterms := make([]qterm, 0, len(counts))
	norm := 0.0
	for term, tf := range counts {
		id, ok := ix.vocab[term]
		if !ok {
			continue
		}
		w := float64(tf) * ix.idf[id]
		qterms = append(qterms, qterm{id: id, weight: w})
		norm += w * w
	}
	if norm == 0 {
		return scores
	}
	norm = math.Sqrt(norm)

	for _, qt := range qterms {
		qw := qt.weight / norm
		for _, p := range ix.postings[qt.id] {
			scores[p.row] += qw * p.weight
		}
	}
	return scores
}

// termCounts tokenizes text and counts unigrams and bigrams. Tokens are
// runs of letters, digits, or underscore at least two runes long.
func termCounts(text string) map[string]int {
	tokens := tokenize(text)
	counts := make(map[string]int, len(tokens)*2)
	for i, tok := range tokens {
		counts[tok]++
		if i+1 < len(tokens) {
			counts[tok+" "+tokens[i+1]]++
		}
	}
	return counts
}

func tokenize(text string) []string {
	var tokens []string
	start := -1
	runes := []rune(text)
	for i, r := range runes {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= 2 {
			tokens = append(tokens, string(runes[start:i]))
		}
		start = -1
	}
	if start >= 0 && len(runes)-start >= 2 {
		tokens = append(tokens, string(runes[start:]))
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
