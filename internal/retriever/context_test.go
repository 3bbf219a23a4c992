package retriever

import (
	"strings"
	"testing"

	"github.com/probeworks/knowd/internal/types"
)

func textEntry(title, scope, content string) types.KnowledgeEntry {
	return types.KnowledgeEntry{
		Type:    types.TypeBusinessRule,
		Title:   title,
		Scope:   scope,
		Content: content,
	}
}

func TestBuildContext_AllEntriesFit(t *testing.T) {
	entries := []types.KnowledgeEntry{
		textEntry("refunds", "", "refunds settle within 3 days"),
		textEntry("checkout", "/api/checkout", "checkout requires an idempotency key"),
	}

	got := BuildContext(entries, 4000)
	if !strings.Contains(got, "[business_rule] refunds") {
		t.Errorf("missing first entry header in:\n%s", got)
	}
	if !strings.Contains(got, "Scope: /api/checkout") {
		t.Errorf("missing scope line in:\n%s", got)
	}
	if !strings.Contains(got, "checkout requires an idempotency key") {
		t.Errorf("missing second entry content in:\n%s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("trailing newlines should be trimmed")
	}
}

func TestBuildContext_StopsBeforeOverflow(t *testing.T) {
	entries := []types.KnowledgeEntry{
		textEntry("first", "", "short"),
		textEntry("second", "", strings.Repeat("x", 5000)),
	}

	budget := 200
	got := BuildContext(entries, budget)
	if len(got) > budget {
		t.Fatalf("context length %d exceeds budget %d", len(got), budget)
	}
	if !strings.Contains(got, "short") {
		t.Errorf("first entry should be included whole:\n%s", got)
	}
	if strings.Contains(got, "second") {
		t.Error("overflowing entry must be dropped entirely, not clipped")
	}
	if strings.Contains(got, TruncationMarker) {
		t.Error("no marker expected when at least one entry fits")
	}
}

func TestBuildContext_FirstEntryTruncated(t *testing.T) {
	entries := []types.KnowledgeEntry{
		textEntry("huge", "", strings.Repeat("y", 5000)),
	}

	budget := 120
	got := BuildContext(entries, budget)
	if len(got) > budget {
		t.Fatalf("context length %d exceeds budget %d", len(got), budget)
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Errorf("expected truncation marker suffix, got:\n%s", got)
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil, 1000); got != "" {
		t.Errorf("nil entries should produce empty context, got %q", got)
	}
	if got := BuildContext([]types.KnowledgeEntry{textEntry("a", "", "b")}, 0); got != "" {
		t.Errorf("zero budget should produce empty context, got %q", got)
	}
}

func TestBuildContext_PreservesOrder(t *testing.T) {
	entries := []types.KnowledgeEntry{
		textEntry("alpha", "", "first block"),
		textEntry("beta", "", "second block"),
	}
	got := BuildContext(entries, 4000)
	if strings.Index(got, "alpha") > strings.Index(got, "beta") {
		t.Errorf("entries rendered out of rank order:\n%s", got)
	}
}
