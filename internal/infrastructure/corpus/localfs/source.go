// Package localfs reads the document corpus from a directory tree laid out
// as <root>/<topic>/<document>.txt.
package localfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rightslab/edurag/internal/core/domain"
)

type Source struct {
	root string
}

func New(root string) (*Source, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("corpus root is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", root)
	}
	return &Source{root: root}, nil
}

func (s *Source) ListTopics(_ context.Context) ([]domain.Topic, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read corpus root: %w", err)
	}

	topics := make([]domain.Topic, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		topics = append(topics, domain.Topic(entry.Name()))
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })
	return topics, nil
}

func (s *Source) ListDocuments(_ context.Context, topic domain.Topic) ([]domain.SourceDocument, error) {
	dir := filepath.Join(s.root, topic.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read topic dir: %w", err)
	}

	docs := make([]domain.SourceDocument, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", entry.Name(), err)
		}
		if !utf8.Valid(raw) {
			slog.Warn("skipping non-utf8 document", "topic", topic, "filename", entry.Name())
			continue
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}

		docs = append(docs, domain.SourceDocument{
			Name:  entry.Name(),
			Topic: topic,
			Text:  text,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}
