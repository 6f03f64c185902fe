package docstore

import (
	"sort"
	"strings"

	"github.com/ledgerline/riskline/internal/model"
)

// RetrieveRelevant returns the topK chunks most relevant to the query,
// most relevant first. Relevance is the size of the lowercase word-set
// intersection between query and chunk text; chunks with zero overlap are
// excluded. Ties keep extraction order, but callers must not rely on tie
// ordering.
func (s *Store) RetrieveRelevant(query string, topK int) []model.Chunk {
	if topK <= 0 {
		return nil
	}

	queryTerms := wordSet(query)
	if len(queryTerms) == 0 {
		return nil
	}

	type scored struct {
		chunk   model.Chunk
		overlap int
	}

	s.mu.RLock()
	var candidates []scored
	for _, docID := range s.docOrder {
		for _, chunkID := range s.docChunks[docID] {
			chunk := s.chunks[chunkID]
			overlap := overlapCount(queryTerms, chunk.Text)
			if overlap > 0 {
				candidates = append(candidates, scored{chunk: chunk, overlap: overlap})
			}
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]model.Chunk, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.chunk)
	}
	return out
}

// AllChunksText concatenates every chunk grouped by owning document, for
// use as last-resort context when query retrieval finds nothing.
func (s *Store) AllChunksText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docTexts []string
	for _, docID := range s.docOrder {
		chunkIDs := s.docChunks[docID]
		if len(chunkIDs) == 0 {
			continue
		}

		name := "Unknown Document"
		if doc, ok := s.documents[docID]; ok {
			name = doc.Filename
		}

		texts := make([]string, 0, len(chunkIDs))
		for _, id := range chunkIDs {
			texts = append(texts, s.chunks[id].Text)
		}
		docTexts = append(docTexts, "=== "+name+" ===\n"+strings.Join(texts, "\n\n"))
	}

	return strings.Join(docTexts, "\n\n---\n\n")
}

// wordSet tokenizes text into a set of lowercase words.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlapCount counts how many distinct words of the query set occur in text.
func overlapCount(queryTerms map[string]struct{}, text string) int {
	count := 0
	for w := range wordSet(text) {
		if _, ok := queryTerms[w]; ok {
			count++
		}
	}
	return count
}
