package types

import (
	"encoding/json"
	"time"
)

// KnowledgeType classifies what kind of fact an entry records.
type KnowledgeType string

const (
	TypeProjectConfig  KnowledgeType = "project_config"
	TypeBusinessRule   KnowledgeType = "business_rule"
	TypeModuleContext  KnowledgeType = "module_context"
	TypeTestExperience KnowledgeType = "test_experience"
)

// KnowledgeTypes lists all valid entry types.
var KnowledgeTypes = []KnowledgeType{
	TypeProjectConfig,
	TypeBusinessRule,
	TypeModuleContext,
	TypeTestExperience,
}

// Source identifies where an entry came from.
type Source string

const (
	SourceManual       Source = "manual"
	SourceLogLearning  Source = "log_learning"
	SourceTestLearning Source = "test_learning"
)

// ChangeType labels a history snapshot.
type ChangeType string

const (
	ChangeCreate  ChangeType = "create"
	ChangeUpdate  ChangeType = "update"
	ChangeArchive ChangeType = "archive"
)

// KnowledgeEntry is a single stored fact with metadata, lifecycle status,
// and an embedding of its content.
type KnowledgeEntry struct {
	ID        string        `json:"id"`
	Type      KnowledgeType `json:"type"`
	Category  string        `json:"category,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Scope     string        `json:"scope,omitempty"`
	Priority  int           `json:"priority"`
	Status    Status        `json:"status"`
	Source    Source        `json:"source"`
	SourceRef string        `json:"source_ref,omitempty"`
	Tags      []string      `json:"tags"`
	Embedding []float32     `json:"embedding,omitempty"`
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewKnowledgeEntry is the input type for creating entries (without
// generated fields). Drafts produced by the learner use the same shape.
type NewKnowledgeEntry struct {
	Type      KnowledgeType `json:"type"`
	Category  string        `json:"category,omitempty"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Scope     string        `json:"scope,omitempty"`
	Priority  int           `json:"priority"`
	Source    Source        `json:"source"`
	SourceRef string        `json:"source_ref,omitempty"`
	Tags      []string      `json:"tags"`
}

// EntryPatch carries the mutable fields of an update. Nil means "leave
// unchanged". BaseVersion, when non-zero, must match the stored version or
// the update is rejected as a concurrent modification.
type EntryPatch struct {
	Category    *string   `json:"category,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Scope       *string   `json:"scope,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	BaseVersion int       `json:"base_version,omitempty"`
	ChangedBy   string    `json:"changed_by,omitempty"`
}

// HistorySnapshot is an immutable pre-change copy of an entry's text state.
type HistorySnapshot struct {
	ID          int64      `json:"id"`
	KnowledgeID string     `json:"knowledge_id"`
	Version     int        `json:"version"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Scope       string     `json:"scope,omitempty"`
	Tags        []string   `json:"tags"`
	ChangedBy   string     `json:"changed_by,omitempty"`
	ChangedAt   time.Time  `json:"changed_at"`
	ChangeType  ChangeType `json:"change_type"`
}

// UsageEvent records one retrieval-application of an entry. Helpful is
// -1/0/1 and nil until feedback is backfilled.
type UsageEvent struct {
	ID          int64     `json:"id"`
	KnowledgeID string    `json:"knowledge_id"`
	UsedIn      string    `json:"used_in"`
	Context     string    `json:"context,omitempty"`
	Helpful     *int      `json:"helpful,omitempty"`
	UsedAt      time.Time `json:"used_at"`
}

// Filter narrows list and retrieval candidates. Tag matching uses OR
// semantics; scope matching accepts entries whose scope is empty (global),
// a prefix of the requested scope, or a wildcard pattern covering it.
type Filter struct {
	Types       []KnowledgeType `json:"types,omitempty"`
	Statuses    []Status        `json:"statuses,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	ScopePrefix string          `json:"scope,omitempty"`
}

// StoreStats holds aggregate entry counts by lifecycle state.
type StoreStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Pending  int64 `json:"pending"`
	Archived int64 `json:"archived"`
}

// ScoredEntry is a retrieval result with its score breakdown.
type ScoredEntry struct {
	KnowledgeEntry
	Similarity float64 `json:"similarity"`
	FinalScore float64 `json:"final_score"`
}

// MarshalJSON ensures nil slices in KnowledgeEntry marshal as [] not null.
func (e KnowledgeEntry) MarshalJSON() ([]byte, error) {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	type Alias KnowledgeEntry
	return json.Marshal(Alias(e))
}

// MarshalJSON ensures nil slices in HistorySnapshot marshal as [] not null.
func (h HistorySnapshot) MarshalJSON() ([]byte, error) {
	if h.Tags == nil {
		h.Tags = []string{}
	}
	type Alias HistorySnapshot
	return json.Marshal(Alias(h))
}
