package model

import "strings"

// Document is a single unit of ingested text.
// Title and Content are indexed together; Metadata is opaque and returned as-is.
// Example: {"id": "2", "title": "Vector Space Model", "content": "...", "metadata": {"url": "..."}}
type Document struct {
	ID       string                 `json:"id" yaml:"id"`
	Title    string                 `json:"title" yaml:"title"`
	Content  string                 `json:"content" yaml:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a copy of d whose Metadata shares no maps or slices with d.
func (d Document) Clone() Document {
	if d.Metadata != nil {
		d.Metadata = cloneValue(d.Metadata).(map[string]interface{})
	}
	return d
}

func cloneValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// IndexableText returns the text the index is built from: title and content joined by a space.
func (d Document) IndexableText() string {
	return d.Title + " " + d.Content
}

// GetDocumentID returns the trimmed ID and whether it is usable.
func (d Document) GetDocumentID() (string, bool) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return "", false
	}
	return id, true
}

// Summary returns the first maxWords whitespace-separated words of the content,
// with "..." appended if the content was cut.
func (d Document) Summary(maxWords int) string {
	words := strings.Split(d.Content, " ")
	if maxWords <= 0 || len(words) <= maxWords {
		return d.Content
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
