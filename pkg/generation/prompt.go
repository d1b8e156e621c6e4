// Package generation composes grounded answers: it builds a prompt from
// selected verses and the user's question, sends it to a remote
// text-generation model, and formats the verses verbatim when generation
// is unavailable.
package generation

import (
	"fmt"
	"strings"
)

// Verse is the slice of a corpus record the composer needs
type Verse struct {
	ID          string
	Translation string
}

// BuildPrompt constructs a grounding prompt: the selected verses followed
// by the literal question, asking for a concise answer derived only from
// those verses.
func BuildPrompt(query string, verses []Verse) string {
	var b strings.Builder
	b.WriteString("Below are relevant Bhagavad Gita verses:\n\n")
	for _, v := range verses {
		fmt.Fprintf(&b, "%s: %s\n", v.ID, v.Translation)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", query)
	b.WriteString("Answer concisely, using only the above verses as reference:")
	return b.String()
}

// FormatVerses renders the verses verbatim, one "{id}: {translation}" per
// line, for the degraded path when generation fails.
func FormatVerses(verses []Verse) string {
	lines := make([]string, len(verses))
	for i, v := range verses {
		lines[i] = fmt.Sprintf("%s: %s", v.ID, v.Translation)
	}
	return strings.Join(lines, "\n")
}
