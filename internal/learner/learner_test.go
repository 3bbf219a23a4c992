package learner

import (
	"context"
	"errors"
	"testing"

	"github.com/probeworks/knowd/internal/llm"
	"github.com/probeworks/knowd/internal/types"
)

type fakeProvider struct {
	reply string
	err   error
	msgs  []llm.Message
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(_ context.Context, msgs []llm.Message) (string, error) {
	f.msgs = msgs
	return f.reply, f.err
}

type fakeCreator struct {
	created []types.NewKnowledgeEntry
	err     error
}

func (f *fakeCreator) Create(_ context.Context, entry types.NewKnowledgeEntry) (*types.KnowledgeEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, entry)
	return &types.KnowledgeEntry{
		ID:      "01TESTID",
		Type:    entry.Type,
		Title:   entry.Title,
		Content: entry.Content,
		Status:  types.StatusPending,
		Source:  entry.Source,
	}, nil
}

func TestExtractFromTestFailure_PersistsPendingDrafts(t *testing.T) {
	provider := &fakeProvider{reply: `Here are the findings:
[
 {"type": "test_experience", "category": "flaky", "title": "auth races on refresh",
  "content": "parallel refresh calls return 409", "scope": "/api/auth/*",
  "tags": ["auth"], "priority": 6}
]`}
	creator := &fakeCreator{}
	l := New(creator, provider)

	created := l.ExtractFromTestFailure(context.Background(), TestFailureResult{
		TestID:     "t-42",
		TestName:   "TestRefreshToken",
		Diagnostic: "expected 200, got 409",
	})

	if len(created) != 1 {
		t.Fatalf("created %d entries, want 1", len(created))
	}
	if created[0].Status != types.StatusPending {
		t.Errorf("status = %s, want pending", created[0].Status)
	}
	if creator.created[0].Source != types.SourceTestLearning {
		t.Errorf("source = %s, want test_learning", creator.created[0].Source)
	}
	if creator.created[0].SourceRef != "t-42" {
		t.Errorf("source_ref = %s, want t-42", creator.created[0].SourceRef)
	}
}

func TestExtractFromLogAnalysis_SetsSource(t *testing.T) {
	provider := &fakeProvider{reply: `[{"type": "business_rule", "title": "rate limited",
  "content": "burst traffic to /orders returns 429", "tags": [], "priority": 3}]`}
	creator := &fakeCreator{}
	l := New(creator, provider)

	created := l.ExtractFromLogAnalysis(context.Background(), LogAnalysisResult{
		TaskID:  "task-7",
		Summary: "429s under load",
	})

	if len(created) != 1 {
		t.Fatalf("created %d entries, want 1", len(created))
	}
	if creator.created[0].Source != types.SourceLogLearning {
		t.Errorf("source = %s, want log_learning", creator.created[0].Source)
	}
	if creator.created[0].SourceRef != "task-7" {
		t.Errorf("source_ref = %s, want task-7", creator.created[0].SourceRef)
	}
}

func TestExtract_ProviderFailureYieldsZeroDrafts(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model timeout")}
	creator := &fakeCreator{}
	l := New(creator, provider)

	created := l.ExtractFromTestFailure(context.Background(), TestFailureResult{TestID: "t-1"})
	if len(created) != 0 {
		t.Errorf("provider failure must yield zero drafts, got %d", len(created))
	}
	if len(creator.created) != 0 {
		t.Error("nothing should be persisted on provider failure")
	}
}

func TestExtract_MalformedReplyYieldsZeroDrafts(t *testing.T) {
	for _, reply := range []string{
		"I could not find anything useful.",
		"[{broken json",
		`{"type": "business_rule"}`,
	} {
		provider := &fakeProvider{reply: reply}
		creator := &fakeCreator{}
		l := New(creator, provider)

		created := l.ExtractFromLogAnalysis(context.Background(), LogAnalysisResult{TaskID: "task-1"})
		if len(created) != 0 {
			t.Errorf("reply %q yielded %d drafts, want 0", reply, len(created))
		}
	}
}

func TestExtract_StoreFailureIsAbsorbed(t *testing.T) {
	provider := &fakeProvider{reply: `[{"type": "business_rule", "title": "t", "content": "c"}]`}
	creator := &fakeCreator{err: errors.New("disk full")}
	l := New(creator, provider)

	created := l.ExtractFromTestFailure(context.Background(), TestFailureResult{TestID: "t-1"})
	if len(created) != 0 {
		t.Errorf("store failure must yield zero drafts, got %d", len(created))
	}
}

func TestParseDrafts_DropsInvalidDrafts(t *testing.T) {
	reply := `[
 {"type": "business_rule", "title": "kept", "content": "valid draft"},
 {"type": "unknown_type", "title": "dropped", "content": "bad type"},
 {"type": "business_rule", "title": "", "content": "no title"},
 {"type": "business_rule", "title": "no content", "content": "  "}
]`
	drafts, err := parseDrafts(reply)
	if err != nil {
		t.Fatalf("parseDrafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Title != "kept" {
		t.Errorf("drafts = %v, want only the valid one", drafts)
	}
}

func TestParseDrafts_EmptyArray(t *testing.T) {
	drafts, err := parseDrafts("[]")
	if err != nil {
		t.Fatalf("parseDrafts: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("expected zero drafts, got %d", len(drafts))
	}
}
