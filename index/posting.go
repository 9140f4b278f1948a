package index

// PostingEntry records the occurrences of one term in one document.
type PostingEntry struct {
	DocID     string // External document ID
	Frequency int    // Number of occurrences of the term in this document
	Positions []int  // Zero-based token offsets, strictly increasing
}

// PostingList is the list of documents containing a term, in ingest order.
// A term's list never holds two entries for the same DocID.
type PostingList []PostingEntry

// TermFrequency pairs a term with an occurrence count.
type TermFrequency struct {
	Term      string `json:"term"`
	Frequency int    `json:"frequency"`
}
