package typoutil

import (
	"reflect"
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"simple substitution", "kitten", "sitten", 1},
		{"simple insertion", "apple", "applye", 1},
		{"simple deletion", "banana", "banna", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"classic example", "kitten", "sitting", 3},
		{"transposition costs two", "vecotr", "vector", 2},
		{"longer strings", "algorithm", "altruistic", 6},
		{"unicode chars (same len)", "cliché", "cliche", 1},
		{"unicode chars (diff len)", "résumé", "resume", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := LevenshteinDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistanceWithLimit(t *testing.T) {
	tests := []struct {
		name        string
		a           string
		b           string
		maxDistance int
		want        int
	}{
		{"within limit", "retrival", "retrieval", 2, 1},
		{"at limit", "vecotr", "vector", 2, 2},
		{"length gap exceeds limit", "cat", "category", 2, 3},
		{"distance exceeds limit", "boolean", "cosine", 2, 3},
		{"empty against short", "", "ab", 2, 2},
		{"zero limit identical", "same", "same", 0, 0},
		{"zero limit different", "same", "sane", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevenshteinDistanceWithLimit(tt.a, tt.b, tt.maxDistance); got != tt.want {
				t.Errorf("LevenshteinDistanceWithLimit(%q, %q, %d) = %d, want %d", tt.a, tt.b, tt.maxDistance, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistanceWithLimit_AgreesWithFullDistance(t *testing.T) {
	words := []string{"search", "serch", "seach", "research", "sear", "engine", "engines", "vector", "victor"}
	for _, a := range words {
		for _, b := range words {
			full := LevenshteinDistance(a, b)
			limited := LevenshteinDistanceWithLimit(a, b, 2)
			if full <= 2 && limited != full {
				t.Errorf("(%q, %q): limited = %d, full = %d", a, b, limited, full)
			}
			if full > 2 && limited != 3 {
				t.Errorf("(%q, %q): limited = %d, want 3 for full distance %d", a, b, limited, full)
			}
		}
	}
}

func TestFindWithinDistance(t *testing.T) {
	vocabulary := []string{"apple", "apply", "apricot", "banana", "bandana", "orange", "search", "serch", "seech"}

	tests := []struct {
		name        string
		term        string
		maxDistance int
		want        []Candidate
	}{
		{"exact match is skipped", "apple", 1, []Candidate{{"apply", 1}}},
		{"single edit", "serch", 1, []Candidate{{"search", 1}, {"seech", 1}}},
		{"deletion", "aple", 1, []Candidate{{"apple", 1}}},
		{"two edits keep vocabulary order", "serc", 2, []Candidate{{"search", 2}, {"serch", 1}, {"seech", 2}}},
		{"nothing close", "kiwi", 2, []Candidate{}},
		{"empty term", "", 1, []Candidate{}},
		{"zero distance", "apple", 0, []Candidate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindWithinDistance(tt.term, vocabulary, tt.maxDistance)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindWithinDistance(%q, ..., %d) = %v, want %v", tt.term, tt.maxDistance, got, tt.want)
			}
		})
	}
}

func BenchmarkFindWithinDistance(b *testing.B) {
	vocabulary := []string{
		"boolean", "retrieval", "model", "operator", "vector", "space", "cosine", "similarity",
		"phrase", "position", "index", "inverted", "posting", "stem", "token", "query",
		"document", "corpus", "frequency", "weight", "score", "rank", "term", "dictionary",
	}
	probes := []string{"retrival", "vectr", "simlarity", "postion", "dokument"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, probe := range probes {
			_ = FindWithinDistance(probe, vocabulary, 2)
		}
	}
}
