package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rightslab/edurag/internal/catalog"
	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
	"github.com/rightslab/edurag/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	answers ports.AnswerService
	topics  *catalog.Catalog
	log     ports.IngestionLog
	queue   ports.ReindexQueue
	metrics *metrics.APIMetrics
}

func NewRouter(
	answers ports.AnswerService,
	topics *catalog.Catalog,
	log ports.IngestionLog,
	queue ports.ReindexQueue,
	apiMetrics *metrics.APIMetrics,
) *Router {
	return &Router{
		answers: answers,
		topics:  topics,
		log:     log,
		queue:   queue,
		metrics: apiMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/chat", rt.chat)
	mux.HandleFunc("/api/topics", rt.listTopics)
	mux.HandleFunc("/api/retrieve", rt.retrieve)
	mux.HandleFunc("/api/reindex", rt.reindex)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query      string `json:"query"`
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	topic := domain.Topic(strings.TrimSpace(req.Topic))
	if !rt.topics.Contains(topic) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": rt.invalidTopicMessage()})
		return
	}
	difficulty := domain.ParseDifficulty(req.Difficulty)

	start := time.Now()
	answer, err := rt.answers.GenerateAnswer(r.Context(), req.Query, topic, difficulty)
	if err != nil {
		writeError(w, r.Context(), err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnswer(serviceName, topic.String(), difficulty.String(), len(answer.Sources), time.Since(start))
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  answer.Text,
		"sources": sources,
		"topic":   topic.String(),
		"query":   req.Query,
	})
}

func (rt *Router) listTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	type topicInfo struct {
		catalog.Entry
		DocumentCount int `json:"document_count"`
	}

	entries := rt.topics.Entries()
	out := make([]topicInfo, 0, len(entries))
	for _, entry := range entries {
		info := topicInfo{Entry: entry}
		if rt.log != nil {
			count, err := rt.log.CountDocuments(r.Context(), domain.Topic(entry.ID))
			if err != nil {
				slog.Warn("count ingested documents failed", "topic", entry.ID, "error", err)
			} else {
				info.DocumentCount = count
			}
		}
		out = append(out, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{"topics": out})
}

func (rt *Router) retrieve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
		Topic string `json:"topic"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	topic := domain.Topic(strings.TrimSpace(req.Topic))
	if !rt.topics.Contains(topic) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": rt.invalidTopicMessage()})
		return
	}

	results, err := rt.answers.Retrieve(r.Context(), req.Query, topic, req.Limit)
	if err != nil {
		writeError(w, r.Context(), err)
		return
	}
	if results == nil {
		results = []domain.RetrievedChunk{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func (rt *Router) reindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "reindex queue is not configured"})
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = "*"
	}
	if topic != "*" && !rt.topics.Contains(domain.Topic(topic)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": rt.invalidTopicMessage()})
		return
	}

	if err := rt.queue.PublishReindex(r.Context(), topic); err != nil {
		writeError(w, r.Context(), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "topic": topic})
}

func (rt *Router) invalidTopicMessage() string {
	ids := make([]string, 0, len(rt.topics.Entries()))
	for _, entry := range rt.topics.Entries() {
		ids = append(ids, entry.ID)
	}
	return fmt.Sprintf("Invalid topic. Must be one of: %s", strings.Join(ids, ", "))
}

func writeError(w http.ResponseWriter, ctx context.Context, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		slog.Error("request failed", "request_id", requestIDFromContext(ctx), "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
