// Package typoutil measures edit distance between terms.
package typoutil

// Candidate is a vocabulary term together with its edit distance from a probe term.
type Candidate struct {
	Term     string
	Distance int
}

// LevenshteinDistance computes the minimum number of single-character edits
// (insertions, deletions or substitutions) needed to turn a into b.
// Characters are compared as runes.
func LevenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	if len(runesA) == 0 {
		return len(runesB)
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	prevRow := make([]int, len(runesB)+1)
	currRow := make([]int, len(runesB)+1)
	for j := range prevRow {
		prevRow[j] = j
	}

	for i := 1; i <= len(runesA); i++ {
		currRow[0] = i
		for j := 1; j <= len(runesB); j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			currRow[j] = min3(prevRow[j]+1, currRow[j-1]+1, prevRow[j-1]+cost)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[len(runesB)]
}

// LevenshteinDistanceWithLimit is LevenshteinDistance with early termination.
// It returns maxDistance + 1 as soon as the distance is known to exceed maxDistance.
func LevenshteinDistanceWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	if absDiff(len(runesA), len(runesB)) > maxDistance {
		return maxDistance + 1
	}
	if len(runesA) == 0 {
		return len(runesB)
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	prevRow := make([]int, len(runesB)+1)
	currRow := make([]int, len(runesB)+1)
	for j := range prevRow {
		prevRow[j] = j
	}

	for i := 1; i <= len(runesA); i++ {
		currRow[0] = i
		minInRow := i
		for j := 1; j <= len(runesB); j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			currRow[j] = min3(prevRow[j]+1, currRow[j-1]+1, prevRow[j-1]+cost)
			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}
		// Row minimums never decrease, so the final distance is at least minInRow.
		if minInRow > maxDistance {
			return maxDistance + 1
		}
		prevRow, currRow = currRow, prevRow
	}

	if prevRow[len(runesB)] > maxDistance {
		return maxDistance + 1
	}
	return prevRow[len(runesB)]
}

// FindWithinDistance returns the terms whose rune length differs from term by at most
// maxDistance and whose edit distance to term is between 1 and maxDistance.
// Candidates keep the order of terms.
func FindWithinDistance(term string, terms []string, maxDistance int) []Candidate {
	candidates := make([]Candidate, 0)
	if maxDistance <= 0 || term == "" || len(terms) == 0 {
		return candidates
	}

	termLen := len([]rune(term))
	for _, indexedTerm := range terms {
		if indexedTerm == term {
			continue
		}
		// Cheap length filter before the distance matrix.
		if absDiff(len([]rune(indexedTerm)), termLen) > maxDistance {
			continue
		}
		if dist := LevenshteinDistanceWithLimit(term, indexedTerm, maxDistance); dist <= maxDistance {
			candidates = append(candidates, Candidate{Term: indexedTerm, Distance: dist})
		}
	}
	return candidates
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
