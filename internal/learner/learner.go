// Package learner derives pending knowledge candidates from log-analysis
// results and failed-test diagnostics via an LLM extraction call. Learning
// is best-effort and ancillary: extraction failures surface as zero drafts,
// never as errors that would abort the caller's pipeline. Every draft is
// persisted pending; activation requires human review.
package learner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/probeworks/knowd/internal/llm"
	"github.com/probeworks/knowd/internal/types"
)

// Creator is the slice of the store the learner writes through.
type Creator interface {
	Create(ctx context.Context, entry types.NewKnowledgeEntry) (*types.KnowledgeEntry, error)
}

// Learner extracts knowledge drafts from unstructured diagnostics.
type Learner struct {
	store    Creator
	provider llm.Provider
}

// New creates a Learner over the given store and chat provider.
func New(s Creator, p llm.Provider) *Learner {
	return &Learner{store: s, provider: p}
}

// LogAnalysisResult is the structured output of the log-analysis
// collaborator, passed through opaquely.
type LogAnalysisResult struct {
	TaskID   string          `json:"task_id"`
	Summary  string          `json:"summary"`
	Requests []RequestSample `json:"requests,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

// RequestSample is one parsed request from an analyzed log.
type RequestSample struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

// TestFailureResult is the diagnostic record of a failed generated test.
type TestFailureResult struct {
	TestID     string `json:"test_id"`
	TestName   string `json:"test_name"`
	Endpoint   string `json:"endpoint,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Diagnostic string `json:"diagnostic"`
}

// ExtractFromLogAnalysis derives pending knowledge entries from a log
// analysis result. Returns the entries created, possibly none.
func (l *Learner) ExtractFromLogAnalysis(ctx context.Context, result LogAnalysisResult) []types.KnowledgeEntry {
	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("marshal log analysis result", "error", err)
		return nil
	}
	return l.extract(ctx, string(payload), types.SourceLogLearning, result.TaskID)
}

// ExtractFromTestFailure derives pending knowledge entries from a failed
// test diagnostic. Returns the entries created, possibly none.
func (l *Learner) ExtractFromTestFailure(ctx context.Context, result TestFailureResult) []types.KnowledgeEntry {
	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("marshal test failure result", "error", err)
		return nil
	}
	return l.extract(ctx, string(payload), types.SourceTestLearning, result.TestID)
}

const extractionSystemPrompt = `You extract reusable API-testing knowledge from diagnostics.
Respond with a JSON array only, no prose. Each element:
{"type": "project_config"|"business_rule"|"module_context"|"test_experience",
 "category": string, "title": string, "content": string,
 "scope": string (module path or path glob, "" if global),
 "tags": [string], "priority": integer 0-10}
Return [] if nothing generalizable can be extracted.`

// extract runs one LLM extraction call and persists every valid draft as a
// pending entry. All failure modes collapse to zero drafts.
func (l *Learner) extract(ctx context.Context, input string, source types.Source, sourceRef string) []types.KnowledgeEntry {
	reply, err := l.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: input},
	})
	if err != nil {
		slog.Warn("knowledge extraction call failed", "source", source, "source_ref", sourceRef, "error", err)
		return nil
	}

	drafts, err := parseDrafts(reply)
	if err != nil {
		slog.Warn("knowledge extraction output unparseable", "source", source, "source_ref", sourceRef, "error", err)
		return nil
	}

	var created []types.KnowledgeEntry
	for _, draft := range drafts {
		draft.Source = source
		draft.SourceRef = sourceRef
		entry, err := l.store.Create(ctx, draft)
		if err != nil {
			slog.Warn("persist extracted draft failed", "title", draft.Title, "error", err)
			continue
		}
		created = append(created, *entry)
	}

	if len(created) > 0 {
		slog.Info("knowledge drafts pending review",
			"source", source,
			"source_ref", sourceRef,
			"count", len(created),
		)
	}

	return created
}

type draftJSON struct {
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Scope    string   `json:"scope"`
	Tags     []string `json:"tags"`
	Priority int      `json:"priority"`
}

// parseDrafts extracts the JSON array from the model reply, tolerating
// surrounding prose or code fences, and drops drafts missing required
// fields or using an unknown type.
func parseDrafts(reply string) ([]types.NewKnowledgeEntry, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var raw []draftJSON
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse draft array: %w", err)
	}

	var drafts []types.NewKnowledgeEntry
	for _, d := range raw {
		if !validType(d.Type) {
			continue
		}
		if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
			continue
		}
		drafts = append(drafts, types.NewKnowledgeEntry{
			Type:     types.KnowledgeType(d.Type),
			Category: d.Category,
			Title:    d.Title,
			Content:  d.Content,
			Scope:    d.Scope,
			Priority: d.Priority,
			Tags:     d.Tags,
		})
	}

	return drafts, nil
}

func validType(t string) bool {
	for _, kt := range types.KnowledgeTypes {
		if t == string(kt) {
			return true
		}
	}
	return false
}
