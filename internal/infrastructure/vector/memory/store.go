// Package memory provides an in-process vector store for development and
// tests. Search is brute force over every stored vector, which is fine for
// corpus sizes that fit a laptop.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rightslab/edurag/internal/core/domain"
)

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

type collection struct {
	points map[string]entry
}

type Store struct {
	mu          sync.RWMutex
	collections map[domain.Topic]*collection
}

func New() *Store {
	return &Store{collections: make(map[domain.Topic]*collection)}
}

func (s *Store) EnsureCollection(_ context.Context, topic domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[topic]; !ok {
		s.collections[topic] = &collection{points: make(map[string]entry)}
	}
	return nil
}

func (s *Store) UpsertChunks(_ context.Context, topic domain.Topic, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d != %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[topic]
	if !ok {
		coll = &collection{points: make(map[string]entry)}
		s.collections[topic] = coll
	}
	for i, chunk := range chunks {
		coll.points[chunk.ID] = entry{chunk: chunk, vector: vectors[i]}
	}
	return nil
}

func (s *Store) Query(_ context.Context, topic domain.Topic, queryVector []float32, limit int) ([]domain.RetrievedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[topic]
	if !ok || len(coll.points) == 0 {
		return nil, nil
	}

	out := make([]domain.RetrievedChunk, 0, len(coll.points))
	for _, e := range coll.points {
		out = append(out, domain.RetrievedChunk{
			Source:     e.chunk.Source,
			Topic:      e.chunk.Topic,
			ChunkIndex: e.chunk.Ordinal,
			Text:       e.chunk.Text,
			Distance:   cosineDistance(queryVector, e.vector),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count reports stored chunks for a topic. Used by status endpoints.
func (s *Store) Count(topic domain.Topic) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[topic]
	if !ok {
		return 0
	}
	return len(coll.points)
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
