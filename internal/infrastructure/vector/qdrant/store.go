package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rightslab/edurag/internal/core/domain"
)

// Store keeps one Qdrant collection per topic, named by prefixing the
// topic id. Collections use cosine similarity; scores from search are
// converted to distances (1 - score) so smaller always means closer.
type Store struct {
	baseURL    string
	prefix     string
	vectorSize int
	httpClient *http.Client

	ensureMu sync.Mutex
	ensured  map[domain.Topic]bool
}

// chunkIDNamespace seeds deterministic point ids. Qdrant only accepts
// UUID or unsigned-int ids, so the human-readable chunk id lives in the
// payload and a SHA1 UUID derived from it becomes the point id. Re-running
// ingestion overwrites points in place instead of duplicating them.
var chunkIDNamespace = uuid.MustParse("8f9d9f1e-4c53-4f5e-9f0a-2db1c1a6a5d0")

func New(baseURL, prefix string, vectorSize int) *Store {
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		prefix:     prefix,
		vectorSize: vectorSize,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		ensured:    make(map[domain.Topic]bool),
	}
}

func (s *Store) collectionName(topic domain.Topic) string {
	return s.prefix + topic.String()
}

func (s *Store) EnsureCollection(ctx context.Context, topic domain.Topic) error {
	s.ensureMu.Lock()
	if s.ensured[topic] {
		s.ensureMu.Unlock()
		return nil
	}
	s.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     s.vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", s.baseURL, s.collectionName(topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "ensure collection", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if it already exists (depends on version).
	if resp.StatusCode == http.StatusConflict {
		s.markEnsured(topic)
		return nil
	}
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	s.markEnsured(topic)
	return nil
}

func (s *Store) markEnsured(topic domain.Topic) {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	s.ensured[topic] = true
}

func (s *Store) UpsertChunks(ctx context.Context, topic domain.Topic, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d != %d", len(chunks), len(vectors))
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, point{
			ID:     uuid.NewSHA1(chunkIDNamespace, []byte(chunk.ID)).String(),
			Vector: vectors[i],
			Payload: map[string]any{
				"chunk_id":    chunk.ID,
				"source":      chunk.Source,
				"topic":       chunk.Topic.String(),
				"chunk_index": chunk.Ordinal,
				"text":        chunk.Text,
			},
		})
	}

	reqBody := map[string]any{"points": points}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.baseURL, s.collectionName(topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "upsert chunks", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, topic domain.Topic, queryVector []float32, limit int) ([]domain.RetrievedChunk, error) {
	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collectionName(topic))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "query chunks", err)
	}
	defer resp.Body.Close()

	// Missing collection means the topic was never indexed here.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.RetrievedChunk, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.RetrievedChunk{
			Source:     payloadString(r.Payload, "source"),
			Topic:      domain.Topic(payloadString(r.Payload, "topic")),
			ChunkIndex: payloadInt(r.Payload, "chunk_index"),
			Text:       payloadString(r.Payload, "text"),
			Distance:   1 - r.Score,
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
	return out, nil
}

func payloadString(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func payloadInt(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
