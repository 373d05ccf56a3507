package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// SourceDocument is a plain-text file that belongs to exactly one topic.
// Documents are immutable once read; re-ingesting the same content is a
// no-op by construction of chunk identifiers.
type SourceDocument struct {
	Name  string
	Topic Topic
	Text  string
}

// Stem returns the document filename without its extension, used as the
// prefix of chunk identifiers.
func (d SourceDocument) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// Chunk is the minimal retrievable unit of a document.
type Chunk struct {
	ID      string
	Source  string
	Topic   Topic
	Ordinal int
	Text    string
}

// ChunkID derives the stable identifier for a chunk: identical content under
// the same ordinal reproduces the same ID (idempotent upsert), while any
// content edit changes it so stale entries are superseded rather than merged.
func ChunkID(stem string, ordinal int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s_c%d_%s", stem, ordinal, hex.EncodeToString(sum[:])[:16])
}
