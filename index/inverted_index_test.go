package index

import (
	"errors"
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

func scenarioDocuments() []model.Document {
	return []model.Document{
		{ID: "1", Title: "Boolean Retrieval Model", Content: "boolean retrieval uses AND operators"},
		{ID: "2", Title: "Vector Space Model", Content: "vector space uses cosine similarity"},
	}
}

func buildTestIndex(t *testing.T, docs []model.Document) *InvertedIndex {
	t.Helper()
	ii := NewInvertedIndex()
	require.NoError(t, ii.Build(docs))
	return ii
}

func TestBuild_Postings(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	assert.Equal(t, 2, ii.DocumentCount())
	assert.Equal(t, 7, ii.DocumentLength("1"))
	assert.Equal(t, 8, ii.DocumentLength("2"))

	booleanPostings := ii.PostingsList("boolean")
	require.Len(t, booleanPostings, 1)
	assert.Equal(t, PostingEntry{DocID: "1", Frequency: 2, Positions: []int{0, 3}}, booleanPostings[0])

	modelPostings := ii.PostingsList("model")
	require.Len(t, modelPostings, 2)
	assert.Equal(t, "1", modelPostings[0].DocID, "posting lists follow ingest order")
	assert.Equal(t, "2", modelPostings[1].DocID)
	assert.Equal(t, []int{2}, modelPostings[1].Positions)

	assert.Equal(t, 2, ii.GlobalTermFrequency("use"))
	assert.Equal(t, 1, ii.GlobalTermFrequency("cosine"))
	assert.Equal(t, 0, ii.GlobalTermFrequency("and"), "stop words are not indexed")
}

func TestBuild_DocumentFrequencyMatchesPostings(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	for _, term := range ii.AllTerms() {
		distinct := make(map[string]struct{})
		for _, entry := range ii.PostingsList(term) {
			distinct[entry.DocID] = struct{}{}
		}
		assert.Equal(t, len(distinct), ii.DocumentFrequency(term), "term %q", term)
		assert.NotEmpty(t, ii.PostingsList(term), "indexed terms always have postings")
	}
}

func TestBuild_PositionsStrictlyIncreasing(t *testing.T) {
	ii := buildTestIndex(t, []model.Document{
		{ID: "a", Title: "search search", Content: "search engines search the web for search terms"},
	})

	for _, term := range ii.AllTerms() {
		for _, entry := range ii.PostingsList(term) {
			assert.Equal(t, len(entry.Positions), entry.Frequency)
			for i := 1; i < len(entry.Positions); i++ {
				assert.Less(t, entry.Positions[i-1], entry.Positions[i])
			}
		}
	}
}

func TestBuild_ReplacesPreviousState(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	require.NoError(t, ii.Build([]model.Document{{ID: "9", Title: "Phrase", Content: "positional index"}}))

	assert.Equal(t, 1, ii.DocumentCount())
	assert.Equal(t, 0, ii.DocumentFrequency("boolean"))
	assert.Equal(t, 0, ii.DocumentLength("1"))
	assert.Equal(t, []string{"index", "phrase", "positional"}, ii.AllTerms())
}

func TestBuild_RejectsDuplicateIDs(t *testing.T) {
	ii := NewInvertedIndex()
	err := ii.Build([]model.Document{
		{ID: "1", Title: "first"},
		{ID: "2", Title: "second"},
		{ID: "1", Title: "again"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, internalErrors.ErrDuplicateDocument))

	var dup *internalErrors.DuplicateDocumentError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 2, dup.Position)
	assert.Equal(t, 0, ii.DocumentCount(), "a rejected build leaves the index empty")
}

func TestBuild_DocumentWithoutIndexableTerms(t *testing.T) {
	ii := buildTestIndex(t, []model.Document{
		{ID: "empty", Title: "The", Content: "and of to"},
		{ID: "full", Title: "Stemming", Content: "suffix stripping"},
	})

	assert.Equal(t, 2, ii.DocumentCount())
	assert.Equal(t, 0, ii.DocumentLength("empty"))
	assert.Empty(t, ii.TermVector("empty"))
	assert.Equal(t, []string{"empty", "full"}, ii.DocumentIDs())
}

func TestIDF(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	assert.Equal(t, 0.0, ii.IDF("model"), "term in every document")
	assert.Equal(t, 0.0, ii.IDF("missing"), "unknown term")
	assert.InDelta(t, math.Log(2), ii.IDF("boolean"), 1e-12)

	for _, term := range ii.AllTerms() {
		df := ii.DocumentFrequency(term)
		if df == ii.DocumentCount() {
			assert.Equal(t, 0.0, ii.IDF(term), "term %q", term)
		} else {
			assert.Greater(t, ii.IDF(term), 0.0, "term %q", term)
		}
	}
}

func TestMostFrequentTerms(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	top := ii.MostFrequentTerms(3)
	assert.Equal(t, []TermFrequency{
		{Term: "boolean", Frequency: 2},
		{Term: "model", Frequency: 2},
		{Term: "retrieval", Frequency: 2},
	}, top, "equal counts are ordered lexicographically")

	all := ii.MostFrequentTerms(100)
	assert.Len(t, all, ii.TermCount())
	assert.Equal(t, TermFrequency{Term: "similarity", Frequency: 1}, all[len(all)-1])

	assert.Empty(t, ii.MostFrequentTerms(0))
}

func TestTermVector(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	assert.Equal(t, []TermFrequency{
		{Term: "boolean", Frequency: 2},
		{Term: "model", Frequency: 1},
		{Term: "operator", Frequency: 1},
		{Term: "retrieval", Frequency: 2},
		{Term: "use", Frequency: 1},
	}, ii.TermVector("1"))
	assert.Nil(t, ii.TermVector("unknown"))
}

func TestPosting(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	entry, ok := ii.Posting("space", "2")
	require.True(t, ok)
	assert.Equal(t, []int{1, 4}, entry.Positions)

	_, ok = ii.Posting("space", "1")
	assert.False(t, ok)
	_, ok = ii.Posting("missing", "1")
	assert.False(t, ok)
}

func TestPhraseSearch(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	tests := []struct {
		name  string
		terms []string
		want  []string
	}{
		{"adjacent in order", []string{"cosine", "similarity"}, []string{"2"}},
		{"reversed order", []string{"similarity", "cosine"}, []string{}},
		{"second occurrence matches", []string{"retrieval", "use"}, []string{"1"}},
		{"crosses title and content", []string{"model", "vector"}, []string{"2"}},
		{"single term matches all containing docs", []string{"model"}, []string{"1", "2"}},
		{"unknown term", []string{"cosine", "missing"}, []string{}},
		{"not adjacent", []string{"boolean", "model"}, []string{}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ii.PhraseSearch(tt.terms))
		})
	}
}

func TestPhraseSearch_RepeatedTerm(t *testing.T) {
	ii := buildTestIndex(t, []model.Document{
		{ID: "x", Title: "echo", Content: "echo chamber"},
		{ID: "y", Title: "echo", Content: "chamber echo"},
	})

	assert.Equal(t, []string{"x"}, ii.PhraseSearch([]string{"echo", "echo"}))
}

func TestIntersectBitmaps(t *testing.T) {
	a := roaring.BitmapOf(1, 2, 3, 4)
	b := roaring.BitmapOf(2, 4, 6)
	c := roaring.BitmapOf(4, 5)

	result := IntersectBitmaps([]*roaring.Bitmap{a, b, c})
	require.NotNil(t, result)
	assert.Equal(t, []uint32{4}, result.ToArray())
	assert.Equal(t, uint64(4), a.GetCardinality(), "inputs are not modified")

	assert.Nil(t, IntersectBitmaps([]*roaring.Bitmap{a, roaring.BitmapOf(9)}))
	assert.Nil(t, IntersectBitmaps(nil))
}

func TestEmptyIndex(t *testing.T) {
	ii := NewInvertedIndex()

	assert.Equal(t, 0, ii.DocumentCount())
	assert.Equal(t, 0, ii.DocumentFrequency("anything"))
	assert.NotNil(t, ii.PostingsList("anything"))
	assert.Empty(t, ii.PostingsList("anything"))
	assert.Equal(t, 0.0, ii.IDF("anything"))
	assert.Empty(t, ii.AllTerms())
	assert.Empty(t, ii.MostFrequentTerms(5))
	assert.Empty(t, ii.PhraseSearch([]string{"a", "b"}))
	assert.Nil(t, ii.DocIDs("anything"))
}

func TestSerializeRoundTrip(t *testing.T) {
	original := buildTestIndex(t, append(scenarioDocuments(),
		model.Document{ID: "3", Title: "Stop", Content: "the of and"},
		model.Document{ID: "4", Title: "Phrase Search", Content: "positional phrase search uses positions"},
	))

	data, err := original.Serialize()
	require.NoError(t, err)

	restored := NewInvertedIndex()
	require.NoError(t, restored.Deserialize(data))

	assert.Equal(t, original.DocumentCount(), restored.DocumentCount())
	assert.Equal(t, original.DocumentIDs(), restored.DocumentIDs())
	assert.Equal(t, original.AllTerms(), restored.AllTerms())
	assert.Equal(t, original.MostFrequentTerms(50), restored.MostFrequentTerms(50))

	for _, term := range original.AllTerms() {
		assert.Equal(t, original.PostingsList(term), restored.PostingsList(term), "term %q", term)
		assert.Equal(t, original.IDF(term), restored.IDF(term), "term %q", term)
		assert.Equal(t, original.DocIDs(term).ToArray(), restored.DocIDs(term).ToArray(), "term %q", term)
	}
	for _, docID := range original.DocumentIDs() {
		assert.Equal(t, original.DocumentLength(docID), restored.DocumentLength(docID))
		assert.Equal(t, original.TermVector(docID), restored.TermVector(docID))
		ordinal, ok := restored.Ordinal(docID)
		require.True(t, ok)
		expected, _ := original.Ordinal(docID)
		assert.Equal(t, expected, ordinal)
	}

	phrases := [][]string{{"cosine", "similarity"}, {"phrase", "search"}, {"model"}, {"use"}}
	for _, phrase := range phrases {
		assert.Equal(t, original.PhraseSearch(phrase), restored.PhraseSearch(phrase), "phrase %v", phrase)
	}
}

func TestSerializeRoundTrip_EmptyIndex(t *testing.T) {
	data, err := NewInvertedIndex().Serialize()
	require.NoError(t, err)

	restored := NewInvertedIndex()
	require.NoError(t, restored.Deserialize(data))
	assert.Equal(t, 0, restored.DocumentCount())
	assert.Empty(t, restored.AllTerms())
}

func TestDeserialize_InvalidDataLeavesIndexUnchanged(t *testing.T) {
	ii := buildTestIndex(t, scenarioDocuments())

	err := ii.Deserialize([]byte("not a gob stream"))
	require.Error(t, err)

	assert.Equal(t, 2, ii.DocumentCount())
	assert.Equal(t, []string{"2"}, ii.PhraseSearch([]string{"cosine", "similarity"}))
}
