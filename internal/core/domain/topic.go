package domain

import "strings"

// Topic identifies one partition of the corpus. The identifier is used as
// both a filesystem path segment and a collection key, so it must stay a
// stable snake_case string.
type Topic string

// Title renders the identifier for humans: "right_to_education" becomes
// "Right To Education".
func (t Topic) Title() string {
	words := strings.Split(strings.ReplaceAll(string(t), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func (t Topic) String() string {
	return string(t)
}
