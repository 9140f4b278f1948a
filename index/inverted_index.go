package index

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/internal/tokenizer"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// InvertedIndex maps a term to the documents containing it, with per-document
// frequency and token positions.
//
// An index is built once by Build (or restored by Deserialize) and is read-only
// afterwards, so it can be shared by concurrent readers without locking.
// Rebuilding replaces every field; nothing carries over from a previous build.
type InvertedIndex struct {
	index           map[string]PostingList
	documentCount   int
	documentLengths map[string]int // docID -> preprocessed token count
	termFrequencies map[string]int // term -> occurrences across all documents
	documentOrder   []string       // docIDs in ingest order

	// Derived from the fields above; rebuilt on Deserialize, never encoded.
	ordinals     map[string]uint32          // docID -> position in documentOrder
	docBitmaps   map[string]*roaring.Bitmap // term -> ordinals of documents containing it
	postingIndex map[string]map[string]int  // term -> docID -> offset in the posting list
	termVectors  map[string][]TermFrequency // docID -> distinct terms with in-document counts
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding InvertedIndex data.
// It carries only the authoritative state; lookup structures are rebuilt after decoding.
type gobInvertedIndexData struct {
	Index           map[string]PostingList
	DocumentCount   int
	DocumentLengths map[string]int
	TermFrequencies map[string]int
	DocumentOrder   []string
}

// NewInvertedIndex returns an empty index.
func NewInvertedIndex() *InvertedIndex {
	ii := &InvertedIndex{}
	ii.reset()
	return ii
}

func (ii *InvertedIndex) reset() {
	ii.index = make(map[string]PostingList)
	ii.documentCount = 0
	ii.documentLengths = make(map[string]int)
	ii.termFrequencies = make(map[string]int)
	ii.documentOrder = make([]string, 0)
	ii.ordinals = make(map[string]uint32)
	ii.docBitmaps = make(map[string]*roaring.Bitmap)
	ii.postingIndex = make(map[string]map[string]int)
	ii.termVectors = make(map[string][]TermFrequency)
}

// Build indexes documents from scratch, replacing any previous state.
// Each document contributes its title and content, run through tokenizer.Preprocess.
// Document IDs must be unique within the batch; a repeated ID is rejected and the
// index is left empty.
func (ii *InvertedIndex) Build(docs []model.Document) error {
	ii.reset()

	for position, doc := range docs {
		if _, seen := ii.ordinals[doc.ID]; seen {
			ii.reset()
			return internalErrors.NewDuplicateDocumentError(doc.ID, position)
		}
		ii.addDocument(doc.ID, tokenizer.Preprocess(doc.IndexableText()))
	}
	return nil
}

// addDocument records one document's term sequence. Cost is linear in len(terms).
func (ii *InvertedIndex) addDocument(docID string, terms []string) {
	ordinal := uint32(len(ii.documentOrder))
	ii.documentOrder = append(ii.documentOrder, docID)
	ii.ordinals[docID] = ordinal
	ii.documentCount++
	ii.documentLengths[docID] = len(terms)

	entries := make(map[string]*PostingEntry)
	firstSeen := make([]string, 0)
	for position, term := range terms {
		entry, ok := entries[term]
		if !ok {
			entry = &PostingEntry{DocID: docID}
			entries[term] = entry
			firstSeen = append(firstSeen, term)
		}
		entry.Frequency++
		entry.Positions = append(entry.Positions, position)
		ii.termFrequencies[term]++
	}

	for _, term := range firstSeen {
		ii.appendPosting(term, *entries[term], ordinal)
	}
	ii.termVectors[docID] = termVectorFrom(entries)
}

func (ii *InvertedIndex) appendPosting(term string, entry PostingEntry, ordinal uint32) {
	ii.index[term] = append(ii.index[term], entry)

	offsets, ok := ii.postingIndex[term]
	if !ok {
		offsets = make(map[string]int)
		ii.postingIndex[term] = offsets
	}
	offsets[entry.DocID] = len(ii.index[term]) - 1

	bitmap, ok := ii.docBitmaps[term]
	if !ok {
		bitmap = roaring.New()
		ii.docBitmaps[term] = bitmap
	}
	bitmap.Add(ordinal)
}

func termVectorFrom(entries map[string]*PostingEntry) []TermFrequency {
	vector := make([]TermFrequency, 0, len(entries))
	for term, entry := range entries {
		vector = append(vector, TermFrequency{Term: term, Frequency: entry.Frequency})
	}
	sort.Slice(vector, func(i, j int) bool { return vector[i].Term < vector[j].Term })
	return vector
}

// DocumentFrequency returns the number of documents containing term, 0 if absent.
func (ii *InvertedIndex) DocumentFrequency(term string) int {
	return len(ii.index[term])
}

// PostingsList returns every posting for term, or an empty list if the term is unknown.
// The returned slice belongs to the index and must not be modified.
func (ii *InvertedIndex) PostingsList(term string) PostingList {
	if list, ok := ii.index[term]; ok {
		return list
	}
	return PostingList{}
}

// Posting returns the posting of term in docID.
func (ii *InvertedIndex) Posting(term, docID string) (PostingEntry, bool) {
	offset, ok := ii.postingIndex[term][docID]
	if !ok {
		return PostingEntry{}, false
	}
	return ii.index[term][offset], true
}

// IDF returns ln(N/df). It is 0 for unknown terms and for terms present in every document.
func (ii *InvertedIndex) IDF(term string) float64 {
	df := ii.DocumentFrequency(term)
	if df == 0 {
		return 0
	}
	return math.Log(float64(ii.documentCount) / float64(df))
}

// AllTerms returns the vocabulary in lexicographic order.
func (ii *InvertedIndex) AllTerms() []string {
	terms := make([]string, 0, len(ii.index))
	for term := range ii.index {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// MostFrequentTerms returns up to n terms ordered by global occurrence count, descending.
// Equal counts are ordered lexicographically.
func (ii *InvertedIndex) MostFrequentTerms(n int) []TermFrequency {
	if n <= 0 {
		return []TermFrequency{}
	}
	all := make([]TermFrequency, 0, len(ii.termFrequencies))
	for term, freq := range ii.termFrequencies {
		all = append(all, TermFrequency{Term: term, Frequency: freq})
	}
	SortTermFrequencies(all)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// SortTermFrequencies orders pairs by frequency descending, then term ascending.
func SortTermFrequencies(pairs []TermFrequency) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Frequency != pairs[j].Frequency {
			return pairs[i].Frequency > pairs[j].Frequency
		}
		return pairs[i].Term < pairs[j].Term
	})
}

// GlobalTermFrequency returns how often term occurs across the whole corpus.
func (ii *InvertedIndex) GlobalTermFrequency(term string) int {
	return ii.termFrequencies[term]
}

// DocumentLength returns the preprocessed token count of docID.
func (ii *InvertedIndex) DocumentLength(docID string) int {
	return ii.documentLengths[docID]
}

// DocumentCount returns the number of indexed documents.
func (ii *InvertedIndex) DocumentCount() int {
	return ii.documentCount
}

// TermCount returns the vocabulary size.
func (ii *InvertedIndex) TermCount() int {
	return len(ii.index)
}

// DocumentIDs returns every indexed document ID in ingest order.
func (ii *InvertedIndex) DocumentIDs() []string {
	ids := make([]string, len(ii.documentOrder))
	copy(ids, ii.documentOrder)
	return ids
}

// TermVector returns the distinct terms of docID with their in-document counts,
// sorted by term. It is the aggregated form of the document's preprocessed text.
func (ii *InvertedIndex) TermVector(docID string) []TermFrequency {
	return ii.termVectors[docID]
}

// DocIDs returns the set of document ordinals containing term, or nil if the term is unknown.
// The bitmap belongs to the index; combine it with non-mutating roaring operations.
func (ii *InvertedIndex) DocIDs(term string) *roaring.Bitmap {
	return ii.docBitmaps[term]
}

// Ordinal returns the ingest position of docID.
func (ii *InvertedIndex) Ordinal(docID string) (uint32, bool) {
	ordinal, ok := ii.ordinals[docID]
	return ordinal, ok
}

// DocIDForOrdinal maps an ingest position back to a document ID.
func (ii *InvertedIndex) DocIDForOrdinal(ordinal uint32) (string, bool) {
	if int(ordinal) >= len(ii.documentOrder) {
		return "", false
	}
	return ii.documentOrder[ordinal], true
}

// PhraseSearch returns the IDs of documents in which terms occur contiguously and in order,
// in ingest order. A single term matches every document containing it.
func (ii *InvertedIndex) PhraseSearch(terms []string) []string {
	results := make([]string, 0)
	if len(terms) == 0 {
		return results
	}

	bitmaps := make([]*roaring.Bitmap, len(terms))
	for i, term := range terms {
		bitmap := ii.docBitmaps[term]
		if bitmap == nil || bitmap.IsEmpty() {
			return results
		}
		bitmaps[i] = bitmap
	}

	if len(terms) == 1 {
		for _, entry := range ii.index[terms[0]] {
			results = append(results, entry.DocID)
		}
		return results
	}

	candidates := IntersectBitmaps(bitmaps)
	if candidates == nil {
		return results
	}

	it := candidates.Iterator()
	for it.HasNext() {
		docID := ii.documentOrder[it.Next()]
		if ii.containsPhrase(docID, terms) {
			results = append(results, docID)
		}
	}
	return results
}

// containsPhrase reports whether some occurrence of terms[0] in docID is followed by
// terms[i] at offset i for every i.
func (ii *InvertedIndex) containsPhrase(docID string, terms []string) bool {
	positions := make([][]int, len(terms))
	for i, term := range terms {
		entry, ok := ii.Posting(term, docID)
		if !ok {
			return false
		}
		positions[i] = entry.Positions
	}

	for _, start := range positions[0] {
		found := true
		for i := 1; i < len(terms); i++ {
			if !containsPosition(positions[i], start+i) {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}

// containsPosition binary-searches the strictly increasing positions slice.
func containsPosition(positions []int, target int) bool {
	i := sort.SearchInts(positions, target)
	return i < len(positions) && positions[i] == target
}

// IntersectBitmaps returns the documents present in every bitmap, starting from the
// smallest set and stopping as soon as the running intersection is empty.
// It returns nil when bitmaps is empty or the intersection is empty. Inputs are not modified.
func IntersectBitmaps(bitmaps []*roaring.Bitmap) *roaring.Bitmap {
	if len(bitmaps) == 0 {
		return nil
	}
	ordered := make([]*roaring.Bitmap, len(bitmaps))
	copy(ordered, bitmaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].GetCardinality() < ordered[j].GetCardinality()
	})

	result := ordered[0].Clone()
	for _, bitmap := range ordered[1:] {
		if result.IsEmpty() {
			return nil
		}
		result.And(bitmap)
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// Serialize encodes the full index state.
func (ii *InvertedIndex) Serialize() ([]byte, error) {
	return ii.GobEncode()
}

// Deserialize replaces the index state with previously serialized data.
// On error the index is left unchanged.
func (ii *InvertedIndex) Deserialize(data []byte) error {
	return ii.GobDecode(data)
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	dataToEncode := gobInvertedIndexData{
		Index:           ii.index,
		DocumentCount:   ii.documentCount,
		DocumentLengths: ii.documentLengths,
		TermFrequencies: ii.termFrequencies,
		DocumentOrder:   ii.documentOrder,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode inverted index: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	decoder := gob.NewDecoder(bytes.NewBuffer(data))
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode inverted index: %w", err)
	}

	restored := NewInvertedIndex()
	if err := restored.restore(decodedData); err != nil {
		return err
	}
	*ii = *restored
	return nil
}

// restore installs decoded state and rebuilds the lookup structures.
func (ii *InvertedIndex) restore(data gobInvertedIndexData) error {
	if len(data.DocumentOrder) != data.DocumentCount {
		return fmt.Errorf("%w: document order lists %d documents, count is %d",
			internalErrors.ErrCorruptIndex, len(data.DocumentOrder), data.DocumentCount)
	}

	ii.documentCount = data.DocumentCount
	for ordinal, docID := range data.DocumentOrder {
		ii.documentOrder = append(ii.documentOrder, docID)
		ii.ordinals[docID] = uint32(ordinal)
		ii.termVectors[docID] = []TermFrequency{}
	}
	// Gob drops empty maps, so missing ones decode as nil.
	if data.DocumentLengths != nil {
		ii.documentLengths = data.DocumentLengths
	}
	if data.TermFrequencies != nil {
		ii.termFrequencies = data.TermFrequencies
	}

	vectors := make(map[string]map[string]*PostingEntry)
	for term, list := range data.Index {
		if len(list) == 0 {
			continue
		}
		for _, entry := range list {
			ordinal, ok := ii.ordinals[entry.DocID]
			if !ok {
				return internalErrors.NewCorruptIndexError(term, entry.DocID)
			}
			ii.appendPosting(term, entry, ordinal)

			if vectors[entry.DocID] == nil {
				vectors[entry.DocID] = make(map[string]*PostingEntry)
			}
			e := entry
			vectors[entry.DocID][term] = &e
		}
	}
	for docID, entries := range vectors {
		ii.termVectors[docID] = termVectorFrom(entries)
	}
	return nil
}
