package search

import (
	"math"
	"unicode/utf16"

	"github.com/RoaringBitmap/roaring"

	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
)

// phraseScoreScale is divided by the matched document's content length in UTF-16
// code units, so shorter documents rank higher.
const phraseScoreScale = 1_000_000.0

// booleanSearch returns the documents containing every term. A document scores the
// sum of its frequencies over the query term sequence.
func (s *Service) booleanSearch(terms []string) ([]candidateHit, error) {
	distinct, _ := distinctTerms(terms)
	bitmaps := make([]*roaring.Bitmap, 0, len(distinct))
	for _, term := range distinct {
		bitmap := s.invertedIndex.DocIDs(term)
		if bitmap == nil || bitmap.IsEmpty() {
			return []candidateHit{}, nil
		}
		bitmaps = append(bitmaps, bitmap)
	}

	matches := index.IntersectBitmaps(bitmaps)
	if matches == nil {
		return []candidateHit{}, nil
	}

	candidates := make([]candidateHit, 0, matches.GetCardinality())
	it := matches.Iterator()
	for it.HasNext() {
		ordinal := it.Next()
		docID, ok := s.invertedIndex.DocIDForOrdinal(ordinal)
		if !ok {
			return nil, internalErrors.NewCorruptIndexError(terms[0], "")
		}

		score := 0.0
		for _, term := range terms {
			posting, ok := s.invertedIndex.Posting(term, docID)
			if !ok {
				return nil, internalErrors.NewCorruptIndexError(term, docID)
			}
			score += float64(posting.Frequency)
		}
		candidates = append(candidates, candidateHit{docID: docID, ordinal: ordinal, score: score})
	}
	return candidates, nil
}

// phraseSearch returns the documents containing terms contiguously and in order.
func (s *Service) phraseSearch(terms []string) ([]candidateHit, error) {
	docIDs := s.invertedIndex.PhraseSearch(terms)

	candidates := make([]candidateHit, 0, len(docIDs))
	for _, docID := range docIDs {
		doc, ok := s.documentStore.Get(docID)
		if !ok {
			return nil, internalErrors.NewCorruptIndexError(terms[0], docID)
		}
		ordinal, _ := s.invertedIndex.Ordinal(docID)
		score := phraseScoreScale / float64(utf16Len(doc.Content)+1)
		candidates = append(candidates, candidateHit{docID: docID, ordinal: ordinal, score: score})
	}
	return candidates, nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// vectorSearch ranks documents by TF-IDF cosine similarity. Only documents sharing at
// least one term with the query are visited. A document's vector holds the weights of
// its shared terms; a document whose shared terms all weigh zero scores zero.
func (s *Service) vectorSearch(terms []string) ([]candidateHit, error) {
	distinct, queryFrequencies := distinctTerms(terms)

	queryWeights := make(map[string]float64, len(distinct))
	queryMagnitude := 0.0
	for _, term := range distinct {
		weight := tfWeight(queryFrequencies[term]) * s.invertedIndex.IDF(term)
		queryWeights[term] = weight
		queryMagnitude += weight * weight
	}
	queryMagnitude = math.Sqrt(queryMagnitude)
	if queryMagnitude == 0 {
		return []candidateHit{}, nil
	}

	type documentVector struct {
		ordinal   uint32
		weights   map[string]float64
		magnitude float64
	}
	vectors := make(map[string]*documentVector)
	order := make([]string, 0)

	for _, term := range distinct {
		idf := s.invertedIndex.IDF(term)
		for _, posting := range s.invertedIndex.PostingsList(term) {
			vector, ok := vectors[posting.DocID]
			if !ok {
				ordinal, known := s.invertedIndex.Ordinal(posting.DocID)
				if !known {
					return nil, internalErrors.NewCorruptIndexError(term, posting.DocID)
				}
				vector = &documentVector{ordinal: ordinal, weights: make(map[string]float64)}
				vectors[posting.DocID] = vector
				order = append(order, posting.DocID)
			}
			weight := tfWeight(posting.Frequency) * idf
			vector.weights[term] = weight
			vector.magnitude += weight * weight
		}
	}

	candidates := make([]candidateHit, 0, len(order))
	for _, docID := range order {
		vector := vectors[docID]
		magnitude := math.Sqrt(vector.magnitude)

		score := 0.0
		for _, term := range distinct {
			weight := vector.weights[term]
			if weight == 0 {
				continue
			}
			score += (queryWeights[term] / queryMagnitude) * (weight / magnitude)
		}
		candidates = append(candidates, candidateHit{docID: docID, ordinal: vector.ordinal, score: score})
	}
	return candidates, nil
}

// tfWeight is the sublinear term frequency 1 + ln(f), or 0 when f is 0.
func tfWeight(frequency int) float64 {
	if frequency <= 0 {
		return 0
	}
	return 1 + math.Log(float64(frequency))
}

// topTermsForQuery aggregates the terms of every document containing at least one
// query term, drops the query terms themselves and keeps the most frequent.
func (s *Service) topTermsForQuery(terms []string) ([]index.TermFrequency, error) {
	distinct, queryTerms := distinctTerms(terms)

	bitmaps := make([]*roaring.Bitmap, 0, len(distinct))
	for _, term := range distinct {
		if bitmap := s.invertedIndex.DocIDs(term); bitmap != nil {
			bitmaps = append(bitmaps, bitmap)
		}
	}
	if len(bitmaps) == 0 {
		return []index.TermFrequency{}, nil
	}
	relevant := roaring.FastOr(bitmaps...)

	counts := make(map[string]int)
	it := relevant.Iterator()
	for it.HasNext() {
		docID, ok := s.invertedIndex.DocIDForOrdinal(it.Next())
		if !ok {
			return nil, internalErrors.NewCorruptIndexError(distinct[0], "")
		}
		for _, tf := range s.invertedIndex.TermVector(docID) {
			counts[tf.Term] += tf.Frequency
		}
	}

	aggregated := make([]index.TermFrequency, 0, len(counts))
	for term, frequency := range counts {
		if queryTerms[term] > 0 {
			continue
		}
		aggregated = append(aggregated, index.TermFrequency{Term: term, Frequency: frequency})
	}
	index.SortTermFrequencies(aggregated)

	if limit := s.settings.TopTermsCount; len(aggregated) > limit {
		aggregated = aggregated[:limit]
	}
	return aggregated, nil
}
