package usecase

import "strings"

const (
	// contextNoiseChars matches the ingestion-side minimum: shorter passages
	// are headers and page numbers, not answer material.
	contextNoiseChars = 50

	// contextSignatureChars is the prefix length used to spot near-duplicate
	// passages retrieved from overlapping documents.
	contextSignatureChars = 100

	contextSeparator       = "\n\n---\n\n"
	contextMaxChars        = 4000
	contextTruncatedMarker = "\n\n[Context truncated for length]"
)

// composeContext turns retrieved passages into a single model-facing context
// string: noise filtering, first-seen deduplication, explicit separators, and
// a hard character budget. Deterministic, no I/O.
func composeContext(chunks []string) string {
	meaningful := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(strings.TrimSpace(c)) > contextNoiseChars {
			meaningful = append(meaningful, c)
		}
	}
	// A context built only from short passages beats an empty one.
	if len(meaningful) == 0 {
		meaningful = chunks
	}

	seen := make(map[string]struct{}, len(meaningful))
	unique := make([]string, 0, len(meaningful))
	for _, c := range meaningful {
		sig := contextSignature(c)
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, c)
	}

	joined := strings.Join(unique, contextSeparator)
	runes := []rune(joined)
	if len(runes) > contextMaxChars {
		return string(runes[:contextMaxChars]) + contextTruncatedMarker
	}
	return joined
}

func contextSignature(chunk string) string {
	runes := []rune(chunk)
	if len(runes) > contextSignatureChars {
		runes = runes[:contextSignatureChars]
	}
	return strings.TrimSpace(strings.ToLower(string(runes)))
}
