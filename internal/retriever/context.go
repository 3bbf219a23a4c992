package retriever

import (
	"fmt"
	"strings"

	"github.com/probeworks/knowd/internal/types"
)

// TruncationMarker is appended when a single entry must be cut to fit the
// budget.
const TruncationMarker = "... [truncated]"

// BuildContext renders ranked entries into one text block bounded by
// budget (characters). Entries are appended whole, in order; rendering
// stops before the first entry that would overflow. If even the first
// entry does not fit, its content is truncated with an explicit marker —
// an empty context is worse than a clipped one for downstream generation.
func BuildContext(entries []types.KnowledgeEntry, budget int) string {
	if budget <= 0 || len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	for i, entry := range entries {
		block := renderEntry(entry)
		if b.Len()+len(block) > budget {
			if i == 0 {
				return truncateBlock(block, budget)
			}
			break
		}
		b.WriteString(block)
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderEntry(entry types.KnowledgeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", entry.Type, entry.Title)
	if entry.Scope != "" {
		fmt.Fprintf(&b, "Scope: %s\n", entry.Scope)
	}
	b.WriteString(entry.Content)
	b.WriteString("\n\n")
	return b.String()
}

func truncateBlock(block string, budget int) string {
	cut := budget - len(TruncationMarker)
	if cut <= 0 {
		return TruncationMarker[:budget]
	}
	return strings.TrimRight(block[:cut], "\n") + TruncationMarker
}
