package validation

import (
	"strings"
	"testing"

	"github.com/probeworks/knowd/internal/types"
)

func validEntry() types.NewKnowledgeEntry {
	return types.NewKnowledgeEntry{
		Type:     types.TypeBusinessRule,
		Title:    "refund window",
		Content:  "refunds settle within 3 business days",
		Scope:    "/api/refunds",
		Priority: 5,
		Tags:     []string{"payments"},
	}
}

func TestValidateNewEntry_Valid(t *testing.T) {
	if errs := ValidateNewEntry(validEntry()); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestValidateNewEntry_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.NewKnowledgeEntry)
		field  string
	}{
		{"unknown type", func(e *types.NewKnowledgeEntry) { e.Type = "folklore" }, "type"},
		{"blank title", func(e *types.NewKnowledgeEntry) { e.Title = "  " }, "title"},
		{"oversized title", func(e *types.NewKnowledgeEntry) { e.Title = strings.Repeat("a", 501) }, "title"},
		{"blank content", func(e *types.NewKnowledgeEntry) { e.Content = "" }, "content"},
		{"oversized content", func(e *types.NewKnowledgeEntry) { e.Content = strings.Repeat("b", 20001) }, "content"},
		{"null byte content", func(e *types.NewKnowledgeEntry) { e.Content = "bad\x00byte" }, "content"},
		{"oversized scope", func(e *types.NewKnowledgeEntry) { e.Scope = strings.Repeat("/x", 251) }, "scope"},
		{"negative priority", func(e *types.NewKnowledgeEntry) { e.Priority = -1 }, "priority"},
		{"excessive priority", func(e *types.NewKnowledgeEntry) { e.Priority = 101 }, "priority"},
		{"blank tag", func(e *types.NewKnowledgeEntry) { e.Tags = []string{" "} }, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)
			errs := ValidateNewEntry(entry)
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidatePatch_OnlyPresentFieldsChecked(t *testing.T) {
	// A patch with no fields set is valid regardless of limits.
	if errs := ValidatePatch(types.EntryPatch{}); len(errs) != 0 {
		t.Errorf("empty patch should validate cleanly, got %v", errs)
	}

	blank := "  "
	errs := ValidatePatch(types.EntryPatch{Title: &blank})
	if len(errs) == 0 {
		t.Error("expected error for blank patched title")
	}

	priority := 200
	errs = ValidatePatch(types.EntryPatch{Priority: &priority})
	if len(errs) == 0 {
		t.Error("expected error for out-of-range patched priority")
	}
}
