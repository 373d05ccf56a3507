package usecase

import (
	"fmt"

	"github.com/rightslab/edurag/internal/core/domain"
)

// buildPrompt assembles the difficulty-calibrated instruction prompt. The
// fixed text blocks live in prompt_examples.go; the selection rule is keyed
// strictly by difficulty, with unknown values already normalized to
// intermediate by domain.ParseDifficulty.
func buildPrompt(query, context string, topic domain.Topic, difficulty domain.Difficulty) string {
	instructions, ok := difficultyInstructions[difficulty]
	if !ok {
		instructions = difficultyInstructions[domain.DifficultyIntermediate]
	}
	examples, ok := difficultyExamples[difficulty]
	if !ok {
		examples = difficultyExamples[domain.DifficultyIntermediate]
	}

	return fmt.Sprintf(`You are an expert human rights educator specializing in international law and human rights frameworks.

**Example Responses at %[1]s Level:**
%[2]s

**Now answer this question following the same style and depth:**

**Context from Authoritative Documents:**
%[3]s

**Student Question:**
%[4]s

**Topic Context:** %[5]s

**Instructions for %[1]s-Level Response:**
%[6]s

**Response Structure:**
1. Direct Answer: Start with a clear, direct response to the question
2. Explanation: Provide detailed explanation grounded in the provided context
3. Key Points: Highlight 2-3 essential takeaways
4. Context: Connect to broader human rights frameworks when relevant

**Critical Guidelines:**
- Base your answer ONLY on the provided context
- If the context doesn't contain enough information, acknowledge limitations
- Cite specific documents or articles when making claims
- Maintain educational tone - explain, don't just state
- Use examples to illustrate abstract concepts

**Response Length Guidelines:**
- Beginner: 150-250 words
- Intermediate: 250-400 words
- Advanced: 400-600 words (comprehensive but focused)

**Response Format:**
- Use clear paragraphs
- Bold key concepts (use **bold**)
- Use numbered lists for steps or multiple points

**Now provide your response:**`,
		difficulty.Title(),
		examples,
		context,
		query,
		topic.Title(),
		instructions,
	)
}
