package search

import "sort"

// candidateHit is a matched document before materialization.
type candidateHit struct {
	docID   string
	ordinal uint32 // ingest position, used to break score ties
	score   float64
}

// rankCandidates orders candidates by score descending, then by ingest order.
func rankCandidates(candidates []candidateHit) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].ordinal < candidates[j].ordinal
	})
}

// distinctTerms returns terms without repeats, keeping first-occurrence order,
// along with the number of occurrences of each.
func distinctTerms(terms []string) ([]string, map[string]int) {
	counts := make(map[string]int, len(terms))
	distinct := make([]string, 0, len(terms))
	for _, term := range terms {
		if counts[term] == 0 {
			distinct = append(distinct, term)
		}
		counts[term]++
	}
	return distinct, counts
}
