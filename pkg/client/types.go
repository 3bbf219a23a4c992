package client

import "time"

// Entry mirrors the server's knowledge entry for SDK consumers.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Category  string    `json:"category,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Scope     string    `json:"scope,omitempty"`
	Priority  int       `json:"priority"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	SourceRef string    `json:"source_ref,omitempty"`
	Tags      []string  `json:"tags"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoredEntry is a retrieval result with its score breakdown.
type ScoredEntry struct {
	Entry
	Similarity float64 `json:"similarity"`
	FinalScore float64 `json:"final_score"`
}

// UsageEvent reports one application of a retrieved entry.
type UsageEvent struct {
	KnowledgeID string `json:"knowledge_id"`
	UsedIn      string `json:"used_in"`
	Context     string `json:"context,omitempty"`
}
