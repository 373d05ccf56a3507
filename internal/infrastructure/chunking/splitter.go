package chunking

import "strings"

// DefaultMinChunkChars filters near-empty paragraphs (headers, page numbers)
// out of the index.
const DefaultMinChunkChars = 50

// Splitter extracts retrieval chunks at paragraph granularity: the text is
// split on blank-line boundaries, candidates are trimmed, and anything at or
// below the minimum length is discarded.
type Splitter struct {
	MinChars int
}

func NewSplitter(minChars int) *Splitter {
	if minChars <= 0 {
		minChars = DefaultMinChunkChars
	}
	return &Splitter{MinChars: minChars}
}

func (s *Splitter) Split(text string) []string {
	paragraphs := strings.Split(text, "\n\n")
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if len(p) > s.MinChars {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
