package domain

import "strings"

// RetrievedChunk is one similarity hit against a topic collection.
// Distance follows the cosine-distance convention: smaller is more similar.
type RetrievedChunk struct {
	Source     string  `json:"source"`
	Topic      Topic   `json:"topic"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Distance   float64 `json:"distance"`
}

// Answer carries the generated text and its citations as distinct fields so
// callers never have to parse a delimiter out of a combined string.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

// Rendered returns the caller-facing textual form: the answer followed by a
// trailing citation block.
func (a Answer) Rendered() string {
	if len(a.Sources) == 0 {
		return a.Text
	}
	return a.Text + "\n\nSources: " + strings.Join(a.Sources, ", ")
}
