package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
)

const (
	// answerCandidateLimit is how many chunks the generation path retrieves
	// before re-ranking down to answerContextTopN.
	answerCandidateLimit = 4
	answerContextTopN    = 3
)

const (
	emptyAnswerFallback     = "I apologize, but I couldn't generate a response. Please try rephrasing your question."
	generationErrorFallback = "I encountered an error while processing your question. Please try again."
)

// filler openings some models prepend; stripped wherever they occur.
var unwantedPhrases = []string{
	"As a helpful assistant,",
	"I'm here to help,",
	"Let me help you understand,",
	"Based on my training,",
}

// ContextRetriever is the slice of retrieval behavior the answer path needs:
// ranked chunks for a topic, or ErrTopicUnavailable when the topic has no
// ingestible documents.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topic domain.Topic, limit int) ([]domain.RetrievedChunk, error)
}

// AnswerUseCase turns retrieved context into a cited, difficulty-calibrated
// answer. Generation failures degrade to fixed fallback text; they are never
// surfaced as errors.
type AnswerUseCase struct {
	retriever  ContextRetriever
	generator  ports.TextGenerator
	genTimeout time.Duration
}

func NewAnswerUseCase(retriever ContextRetriever, generator ports.TextGenerator, genTimeout time.Duration) *AnswerUseCase {
	return &AnswerUseCase{
		retriever:  retriever,
		generator:  generator,
		genTimeout: genTimeout,
	}
}

func (uc *AnswerUseCase) GenerateAnswer(
	ctx context.Context,
	query string,
	topic domain.Topic,
	difficulty domain.Difficulty,
) (*domain.Answer, error) {
	candidates, err := uc.retriever.Retrieve(ctx, query, topic, answerCandidateLimit)
	if err != nil {
		if domain.IsKind(err, domain.ErrTopicUnavailable) {
			return noContextAnswer(query, topic), nil
		}
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	if len(candidates) == 0 {
		return noContextAnswer(query, topic), nil
	}

	ranked := rankByDistance(candidates, answerContextTopN)
	texts := make([]string, len(ranked))
	sources := make([]string, len(ranked))
	for i, chunk := range ranked {
		texts[i] = chunk.Text
		sources[i] = fmt.Sprintf("%s (score=%.3f)", chunk.Source, chunk.Distance)
	}

	prompt := buildPrompt(query, composeContext(texts), topic, difficulty)

	return &domain.Answer{
		Text:    uc.generate(ctx, prompt),
		Sources: dedupeSorted(sources),
	}, nil
}

func (uc *AnswerUseCase) generate(ctx context.Context, prompt string) string {
	if uc.genTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.genTimeout)
		defer cancel()
	}

	raw, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("generation_failed", "error", err)
		return generationErrorFallback
	}

	answer := postprocessAnswer(raw)
	if answer == "" {
		return emptyAnswerFallback
	}
	return answer
}

// rankByDistance orders candidates by ascending distance and keeps the top n.
// The sort is stable over original retrieval order, which pins the tie-break
// for equal distances.
func rankByDistance(chunks []domain.RetrievedChunk, n int) []domain.RetrievedChunk {
	ranked := make([]domain.RetrievedChunk, len(chunks))
	copy(ranked, chunks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// postprocessAnswer cleans model output: filler phrases removed, double
// spacing after sentence periods, non-blank lines rejoined with blank-line
// separators.
func postprocessAnswer(answer string) string {
	for _, phrase := range unwantedPhrases {
		answer = strings.ReplaceAll(answer, phrase, "")
	}
	answer = strings.ReplaceAll(answer, ". ", ".  ")

	lines := make([]string, 0, 16)
	for _, line := range strings.Split(answer, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n\n"))
}

func dedupeSorted(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// noContextAnswer is the fixed response when retrieval produced nothing; the
// generative model is never called on this path.
func noContextAnswer(query string, topic domain.Topic) *domain.Answer {
	label := strings.ReplaceAll(topic.String(), "_", " ")
	text := fmt.Sprintf(`I couldn't find specific information about "%s" in the %s documents currently available.

This could mean:
- The question is outside the scope of loaded documents
- The question needs to be rephrased for better matching
- The topic category might not be the best fit

**Suggestions:**
1. Try rephrasing your question with different keywords
2. Check if another topic category might be more relevant
3. Ask a more specific question about a particular aspect

I'm here to help with questions about human rights based on authoritative UN documents and international frameworks.`, query, label)

	return &domain.Answer{Text: text, Sources: []string{}}
}
