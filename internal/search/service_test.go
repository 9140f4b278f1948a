package search

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-retrieval-engine/config"
	"github.com/gcbaptista/go-retrieval-engine/index"
	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/spelling"
	testutil "github.com/gcbaptista/go-retrieval-engine/internal/testing"
	"github.com/gcbaptista/go-retrieval-engine/model"
	"github.com/gcbaptista/go-retrieval-engine/services"
	"github.com/gcbaptista/go-retrieval-engine/store"
)

// --- Test Helpers ---

func newTestSettings() *config.EngineSettings {
	settings := &config.EngineSettings{}
	settings.ApplyDefaults()
	return settings
}

// setupTestSearchService indexes docs and wires a search service over them.
func setupTestSearchService(t *testing.T, docs []model.Document) *Service {
	t.Helper()

	docStore, err := store.NewDocumentStore(docs)
	require.NoError(t, err)

	invIdx := index.NewInvertedIndex()
	require.NoError(t, invIdx.Build(docStore.Documents()))

	corrector := spelling.NewCorrector()
	corrector.InitDictionary(invIdx)

	service, err := NewService(invIdx, docStore, corrector, newTestSettings())
	require.NoError(t, err)
	return service
}

func boolean() services.SearchOptions { return services.SearchOptions{Model: services.ModelBoolean} }
func vector() services.SearchOptions  { return services.SearchOptions{Model: services.ModelVector} }
func phrase() services.SearchOptions  { return services.SearchOptions{Model: services.ModelPhrase} }

// --- Test Cases ---

func TestNewService_RejectsNilDependencies(t *testing.T) {
	invIdx := index.NewInvertedIndex()
	docStore, _ := store.NewDocumentStore(nil)
	corrector := spelling.NewCorrector()
	settings := newTestSettings()

	_, err := NewService(nil, docStore, corrector, settings)
	assert.Error(t, err)
	_, err = NewService(invIdx, nil, corrector, settings)
	assert.Error(t, err)
	_, err = NewService(invIdx, docStore, nil, settings)
	assert.Error(t, err)
	_, err = NewService(invIdx, docStore, corrector, nil)
	assert.Error(t, err)
}

func TestSearch_ScenarioBoolean(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "boolean", boolean())

	testutil.AssertRankedIDs(t, response.Hits, "1")
	assert.Equal(t, 2.0, response.Hits[0].Score, "boolean occurs twice in document 1")
	assert.Equal(t, services.ModelBoolean, response.Model)
	assert.Equal(t, []string{"boolean"}, response.ProcessedQuery)
	assert.NotEmpty(t, response.QueryID)
}

func TestSearch_ScenarioVector(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "vector model", vector())

	testutil.AssertRankedIDs(t, response.Hits, "2", "1")
	assert.InDelta(t, 1.0, response.Hits[0].Score, 1e-9)
	assert.Equal(t, 0.0, response.Hits[1].Score, "model appears everywhere and carries no weight")
	assert.Greater(t, response.Hits[0].Score, response.Hits[1].Score)
	assert.Equal(t, 2, response.Total)
}

func TestSearch_ScenarioPhrase(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "cosine similarity", phrase())

	testutil.AssertRankedIDs(t, response.Hits, "2")
	content := "vector space uses cosine similarity"
	assert.InDelta(t, 1_000_000.0/float64(len(content)+1), response.Hits[0].Score, 1e-9)

	reversed := testutil.RequireSearch(t, service, "similarity cosine", phrase())
	assert.Empty(t, reversed.Hits)
}

func TestSearch_PhraseLengthCountsUTF16Units(t *testing.T) {
	content := "\U0001F642 vector search"
	service := setupTestSearchService(t, []model.Document{{ID: "emoji", Title: "Emoji", Content: content}})

	response := testutil.RequireSearch(t, service, "vector search", phrase())

	require.Len(t, response.Hits, 1)
	// The emoji is a surrogate pair; the rest of the content is ASCII.
	assert.InDelta(t, 1_000_000.0/float64(2+len(" vector search")+1), response.Hits[0].Score, 1e-9)
}

func TestSearch_DefaultModelIsVector(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "vector model", services.SearchOptions{})
	assert.Equal(t, services.ModelVector, response.Model)
	testutil.AssertRankedIDs(t, response.Hits, "2", "1")
}

func TestSearch_UnknownModel(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	_, err := service.Search("boolean", services.SearchOptions{Model: "bm25"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalErrors.ErrInvalidInput))
}

func TestSearch_ModelNamesAreCaseInsensitive(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "boolean", services.SearchOptions{Model: "Boolean"})
	assert.Equal(t, services.ModelBoolean, response.Model)
}

func TestSearch_BlankQuery(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	for _, query := range []string{"", "   ", "the and", "?!"} {
		for _, model := range []services.RetrievalModel{services.ModelBoolean, services.ModelVector, services.ModelPhrase} {
			for _, spelling := range []bool{true, false} {
				opts := services.SearchOptions{Model: model, UseSpellingCorrection: spelling}
				response := testutil.RequireSearch(t, service, query, opts)

				assert.Empty(t, response.Hits, "query %q model %s", query, model)
				assert.Equal(t, 0, response.Total)
				assert.Empty(t, response.ProcessedQuery)
				assert.Equal(t, []index.TermFrequency{
					{Term: "boolean", Frequency: 2},
					{Term: "model", Frequency: 2},
					{Term: "retrieval", Frequency: 2},
					{Term: "space", Frequency: 2},
					{Term: "use", Frequency: 2},
				}, response.TopTerms, "corpus-wide top terms are reported for empty queries")
			}
		}
	}
}

func TestSearch_SpellingCorrection(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	corrected := testutil.RequireSearch(t, service, "retreival", services.SearchOptions{
		Model:                 services.ModelBoolean,
		UseSpellingCorrection: true,
	})
	require.NotNil(t, corrected.SpellingCorrection)
	assert.True(t, corrected.SpellingCorrection.HadCorrections)
	assert.Equal(t, "retrieval", corrected.SpellingCorrection.Corrected)
	assert.Equal(t, []string{"retrieval"}, corrected.ProcessedQuery)
	testutil.AssertRankedIDs(t, corrected.Hits, "1")

	uncorrected := testutil.RequireSearch(t, service, "retreival", boolean())
	assert.Nil(t, uncorrected.SpellingCorrection, "correction did not run")
	assert.Empty(t, uncorrected.Hits)

	valid := testutil.RequireSearch(t, service, "vector", services.SearchOptions{UseSpellingCorrection: true})
	require.NotNil(t, valid.SpellingCorrection)
	assert.False(t, valid.SpellingCorrection.HadCorrections)
}

func TestSearch_LimitAndTies(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	all := testutil.RequireSearch(t, service, "model", boolean())
	testutil.AssertRankedIDs(t, all.Hits, "1", "2")
	assert.Equal(t, all.Hits[0].Score, all.Hits[1].Score, "equal scores fall back to ingest order")

	limited := testutil.RequireSearch(t, service, "model", services.SearchOptions{Model: services.ModelBoolean, Limit: 1})
	testutil.AssertRankedIDs(t, limited.Hits, "1")
	assert.Equal(t, 2, limited.Total, "total counts matches before truncation")

	uncapped := testutil.RequireSearch(t, service, "model", services.SearchOptions{Model: services.ModelBoolean, Limit: -1})
	assert.Len(t, uncapped.Hits, 2)
}

func TestSearch_BooleanRequiresEveryTerm(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	assert.Empty(t, testutil.RequireSearch(t, service, "boolean cosine", boolean()).Hits)
	assert.Empty(t, testutil.RequireSearch(t, service, "boolean unknown", boolean()).Hits)
	testutil.AssertRankedIDs(t, testutil.RequireSearch(t, service, "boolean model", boolean()).Hits, "1")
}

func TestSearch_BooleanScoresRepeatedQueryTerms(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "boolean boolean", boolean())
	require.Len(t, response.Hits, 1)
	assert.Equal(t, 4.0, response.Hits[0].Score)
}

func TestSearch_BooleanIsOrderIndependent(t *testing.T) {
	service := setupTestSearchService(t, testutil.SampleCorpus())

	permutations := []string{
		"inverted index document",
		"index document inverted",
		"document inverted index",
	}
	reference := testutil.RequireSearch(t, service, permutations[0], boolean())
	require.NotEmpty(t, reference.Hits)

	for _, query := range permutations[1:] {
		response := testutil.RequireSearch(t, service, query, boolean())
		assert.Equal(t, reference.Hits, response.Hits, "query %q", query)
	}
}

func TestSearch_PhraseMatchesAreBooleanMatches(t *testing.T) {
	service := setupTestSearchService(t, testutil.SampleCorpus())

	phrases := []string{"inverted index", "query term", "cosine similarity", "stop words", "index inverted", "relevant documents"}
	for _, query := range phrases {
		phraseIDs := testutil.HitIDs(testutil.RequireSearch(t, service, query, services.SearchOptions{Model: services.ModelPhrase, Limit: -1}).Hits)
		booleanIDs := testutil.HitIDs(testutil.RequireSearch(t, service, query, services.SearchOptions{Model: services.ModelBoolean, Limit: -1}).Hits)
		assert.Subset(t, booleanIDs, phraseIDs, "phrase %q", query)
	}

	assert.NotEmpty(t, testutil.RequireSearch(t, service, "inverted index", phrase()).Hits)
}

func TestSearch_VectorScoresAreCosines(t *testing.T) {
	service := setupTestSearchService(t, testutil.SampleCorpus())

	response := testutil.RequireSearch(t, service, "inverted index query documents", services.SearchOptions{Model: services.ModelVector, Limit: -1})
	require.NotEmpty(t, response.Hits)
	testutil.AssertDescendingScores(t, response.Hits)
	for _, hit := range response.Hits {
		assert.GreaterOrEqual(t, hit.Score, 0.0)
		assert.LessOrEqual(t, hit.Score, 1.0+1e-9)
		assert.False(t, math.IsNaN(hit.Score))
	}
}

func TestSearch_VectorIgnoresQueryTermRepetition(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "vector vector model", vector())
	testutil.AssertRankedIDs(t, response.Hits, "2", "1")
	assert.InDelta(t, 1.0, response.Hits[0].Score, 1e-9)
}

func TestSearch_VectorWithoutWeightedTerms(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	assert.Empty(t, testutil.RequireSearch(t, service, "model", vector()).Hits, "only zero-idf terms")
	assert.Empty(t, testutil.RequireSearch(t, service, "unknown", vector()).Hits)
}

func TestSearch_TopTerms(t *testing.T) {
	service := setupTestSearchService(t, testutil.ScenarioDocuments())

	response := testutil.RequireSearch(t, service, "boolean", boolean())
	assert.Equal(t, []index.TermFrequency{
		{Term: "retrieval", Frequency: 2},
		{Term: "model", Frequency: 1},
		{Term: "operator", Frequency: 1},
		{Term: "use", Frequency: 1},
	}, response.TopTerms)

	wide := testutil.RequireSearch(t, service, "use", vector())
	assert.Len(t, wide.TopTerms, 5)
	for _, tf := range wide.TopTerms {
		assert.NotEqual(t, "use", tf.Term, "query terms are excluded")
	}

	none := testutil.RequireSearch(t, service, "unknown", boolean())
	assert.Empty(t, none.TopTerms)
}

func TestSearch_CorruptIndexIsFatal(t *testing.T) {
	docs := testutil.ScenarioDocuments()

	docStore, err := store.NewDocumentStore(docs[:1])
	require.NoError(t, err)
	invIdx := index.NewInvertedIndex()
	require.NoError(t, invIdx.Build(docs))

	service, err := NewService(invIdx, docStore, spelling.NewCorrector(), newTestSettings())
	require.NoError(t, err)

	for _, opts := range []services.SearchOptions{boolean(), vector(), phrase()} {
		_, err := service.Search("vector space", opts)
		require.Error(t, err, "model %s", opts.Model)
		assert.True(t, errors.Is(err, internalErrors.ErrCorruptIndex), "model %s: %v", opts.Model, err)
	}

	// A bitmap ordinal with no document behind it fails diagnostics too.
	dangling := index.NewInvertedIndex()
	require.NoError(t, dangling.Build(docs))
	dangling.DocIDs("cosine").Add(99)
	fullStore, err := store.NewDocumentStore(docs)
	require.NoError(t, err)
	drifted, err := NewService(dangling, fullStore, spelling.NewCorrector(), newTestSettings())
	require.NoError(t, err)
	_, err = drifted.Search("cosine similarity", phrase())
	assert.True(t, errors.Is(err, internalErrors.ErrCorruptIndex), "phrase: %v", err)

	// Documents present in both stay searchable.
	response := testutil.RequireSearch(t, service, "operators", boolean())
	testutil.AssertRankedIDs(t, response.Hits, "1")
}
