package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/probeworks/knowd/internal/embedding"
	"github.com/probeworks/knowd/internal/learner"
	"github.com/probeworks/knowd/internal/retriever"
	"github.com/probeworks/knowd/internal/store"
	"github.com/probeworks/knowd/internal/types"
	"github.com/probeworks/knowd/internal/validation"
)

// Handler implements the API handlers.
type Handler struct {
	store         store.Store
	retriever     *retriever.Retriever
	learner       *learner.Learner
	embedder      embedding.Embedder
	apiKey        string
	version       string
	contextBudget int
}

// NewHandler creates a Handler over the assembled components.
func NewHandler(s store.Store, r *retriever.Retriever, l *learner.Learner, e embedding.Embedder, apiKey, version string, contextBudget int) *Handler {
	return &Handler{
		store:         s,
		retriever:     r,
		learner:       l,
		embedder:      e,
		apiKey:        apiKey,
		version:       version,
		contextBudget: contextBudget,
	}
}

// healthResponse is the health check payload.
type healthResponse struct {
	Status         string           `json:"status"`
	Version        string           `json:"version"`
	EmbeddingModel string           `json:"embedding_model"`
	Entries        types.StoreStats `json:"entries"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "healthy",
		Version:        h.version,
		EmbeddingModel: h.embedder.ModelName(),
		Entries:        *stats,
	})
}

// CreateEntry handles POST /api/v1/knowledge. Entries created here are
// manual and therefore active immediately.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req types.NewKnowledgeEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}
	req.Source = types.SourceManual

	if errs := validation.ValidateNewEntry(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	entry, err := h.store.Create(r.Context(), req)
	if err != nil {
		slog.Error("create entry failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// GetEntry handles GET /api/v1/knowledge/{id}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListEntries handles GET /api/v1/knowledge with query-string filters.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	filter := types.Filter{ScopePrefix: r.URL.Query().Get("scope")}
	for _, t := range splitParam(r.URL.Query().Get("type")) {
		filter.Types = append(filter.Types, types.KnowledgeType(t))
	}
	for _, s := range splitParam(r.URL.Query().Get("status")) {
		filter.Statuses = append(filter.Statuses, types.Status(s))
	}
	filter.Tags = splitParam(r.URL.Query().Get("tag"))

	entries, err := h.store.List(r.Context(), filter)
	if err != nil {
		slog.Error("list entries failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if entries == nil {
		entries = []types.KnowledgeEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// UpdateEntry handles PATCH /api/v1/knowledge/{id}.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var patch types.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if errs := validation.ValidatePatch(patch); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	entry, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// ArchiveEntry handles DELETE /api/v1/knowledge/{id}. Deletion is always a
// status transition; the row stays.
func (h *Handler) ArchiveEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Archive(r.Context(), chi.URLParam(r, "id"), "api"); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory handles GET /api/v1/knowledge/{id}/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.Get(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}

	history, err := h.store.GetHistory(r.Context(), id)
	if err != nil {
		slog.Error("get history failed", "id", id, "error", err)
		MapStoreError(w, r, err)
		return
	}
	if history == nil {
		history = []types.HistorySnapshot{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// reviewRequest drives the pending-review workflow. Patch, when present,
// is applied before approval (edit-then-approve).
type reviewRequest struct {
	Action string            `json:"action"`
	Patch  *types.EntryPatch `json:"patch,omitempty"`
}

// ReviewEntry handles POST /api/v1/knowledge/{id}/review.
func (h *Handler) ReviewEntry(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	id := chi.URLParam(r, "id")
	switch req.Action {
	case "approve":
		if req.Patch != nil {
			if errs := validation.ValidatePatch(*req.Patch); len(errs) > 0 {
				WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
				return
			}
			if _, err := h.store.Update(r.Context(), id, *req.Patch); err != nil {
				MapStoreError(w, r, err)
				return
			}
		}
		if err := h.store.SetStatus(r.Context(), id, types.StatusActive); err != nil {
			MapStoreError(w, r, err)
			return
		}
	case "reject":
		if err := h.store.Archive(r.Context(), id, "review"); err != nil {
			MapStoreError(w, r, err)
			return
		}
	default:
		WriteProblem(w, r, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// retrieveRequest is the retrieval query payload.
type retrieveRequest struct {
	Query  string                `json:"query"`
	Types  []types.KnowledgeType `json:"types,omitempty"`
	Tags   []string              `json:"tags,omitempty"`
	Scope  string                `json:"scope,omitempty"`
	TopK   int                   `json:"top_k,omitempty"`
	Budget int                   `json:"budget,omitempty"` // context endpoint only
}

func (req retrieveRequest) filter() types.Filter {
	return types.Filter{
		Types:       req.Types,
		Tags:        req.Tags,
		ScopePrefix: req.Scope,
	}
}

// Retrieve handles POST /api/v1/knowledge/retrieve.
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	results, err := h.retriever.Retrieve(r.Context(), req.Query, req.filter())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	if req.TopK > 0 && len(results) > req.TopK {
		results = results[:req.TopK]
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// BuildContext handles POST /api/v1/knowledge/context: retrieve, then
// render a budgeted context block for prompt injection.
func (h *Handler) BuildContext(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	results, err := h.retriever.Retrieve(r.Context(), req.Query, req.filter())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	budget := req.Budget
	if budget <= 0 {
		budget = h.contextBudget
	}
	entries := make([]types.KnowledgeEntry, len(results))
	for i, res := range results {
		entries[i] = res.KnowledgeEntry
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"context": retriever.BuildContext(entries, budget),
		"entries": len(entries),
	})
}

// RecordUsage handles POST /api/v1/knowledge/usage.
func (h *Handler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	var event types.UsageEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	id, err := h.store.RecordUsage(r.Context(), event)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// UpdateUsageFeedback handles PATCH /api/v1/knowledge/usage/{id}. Helpful
// is the only field usage events allow updating.
func (h *Handler) UpdateUsageFeedback(w http.ResponseWriter, r *http.Request) {
	usageID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "usage id must be an integer")
		return
	}

	var req struct {
		Helpful int `json:"helpful"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := h.store.UpdateUsageFeedback(r.Context(), usageID, req.Helpful); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LearnFromLog handles POST /api/v1/learn/log. Extraction is best-effort;
// the response reports how many drafts went to pending review.
func (h *Handler) LearnFromLog(w http.ResponseWriter, r *http.Request) {
	var result learner.LogAnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	drafts := h.learner.ExtractFromLogAnalysis(r.Context(), result)
	writeJSON(w, http.StatusOK, map[string]any{"pending": drafts, "count": len(drafts)})
}

// LearnFromTestFailure handles POST /api/v1/learn/test-failure.
func (h *Handler) LearnFromTestFailure(w http.ResponseWriter, r *http.Request) {
	var result learner.TestFailureResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	drafts := h.learner.ExtractFromTestFailure(r.Context(), result)
	writeJSON(w, http.StatusOK, map[string]any{"pending": drafts, "count": len(drafts)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
