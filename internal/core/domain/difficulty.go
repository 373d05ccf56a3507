package domain

import "strings"

// Difficulty selects the response-complexity level of a generated answer.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty normalizes a caller-supplied value. Anything outside the
// closed enumeration falls back to intermediate.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyBeginner:
		return DifficultyBeginner
	case DifficultyAdvanced:
		return DifficultyAdvanced
	default:
		return DifficultyIntermediate
	}
}

func (d Difficulty) String() string { return string(d) }

// Title renders the level for prompt headings ("Beginner", "Advanced").
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d)[:1]) + string(d)[1:]
}
