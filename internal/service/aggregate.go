package service

import (
	"strings"

	"github.com/cloo-solutions/yuholens/internal/domain"
)

// Per-chunk results are passed aligned with the chunk sequence: results[i] belongs
// to chunks[i]. A nil entry, or a missing trailing entry, is an absent result.

// MergeSimilarity combines chunk-pair scores of two documents into one score. Only the
// first min(len(chunksA), len(chunksB)) pairs are compared. Each pair is weighted by
// the length of its chunk from docA over the longer of the two documents.
func MergeSimilarity(docA, docB domain.Document, chunksA, chunksB []domain.Chunk, results []*domain.SimilarityResult) float64 {
	norm := docA.Length
	if docB.Length > norm {
		norm = docB.Length
	}
	if norm == 0 {
		return 0
	}

	pairs := len(chunksA)
	if len(chunksB) < pairs {
		pairs = len(chunksB)
	}

	var total float64
	for i := 0; i < pairs && i < len(results); i++ {
		r := results[i]
		if r == nil {
			continue
		}
		total += r.Score * float64(chunksA[i].Length) / float64(norm)
	}
	return total
}

// MergeSummaries concatenates chunk summaries in order. Absent summaries contribute
// nothing.
func MergeSummaries(results []*domain.SummaryResult) string {
	var b strings.Builder
	for _, r := range results {
		if r == nil {
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// MergeSentiment adds score times chunk weight to each chunk's reported label.
func MergeSentiment(doc domain.Document, chunks []domain.Chunk, results []*domain.SentimentResult) domain.SentimentTotals {
	var totals domain.SentimentTotals
	if doc.Length == 0 {
		return totals
	}
	for i, c := range chunks {
		if i >= len(results) || results[i] == nil {
			continue
		}
		r := results[i]
		totals.Add(r.Label, r.Score, chunkWeight(c, doc))
	}
	return totals
}

// MergeNamedEntities keeps artifact, person and location mentions, dropping repeats
// of a form already kept.
func MergeNamedEntities(results []*domain.NamedEntityResult) []domain.NamedEntity {
	seen := make(map[string]struct{})
	var out []domain.NamedEntity
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, e := range r.Entities {
			if !e.Class.IsAccepted() {
				continue
			}
			if _, ok := seen[e.Form]; ok {
				continue
			}
			seen[e.Form] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

func chunkWeight(c domain.Chunk, doc domain.Document) float64 {
	if doc.Length == 0 {
		return 0
	}
	return float64(c.Length) / float64(doc.Length)
}
