package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/probeworks/knowd/internal/embedding"
	"github.com/probeworks/knowd/internal/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the SQLite-backed knowledge database. Vectors are stored
// in-row as packed little-endian float32 BLOBs so a vector can never
// outlive its relational row.
type SQLiteStore struct {
	db       *sql.DB
	embedder embedding.Embedder

	// locks serializes mutations per entry id so the
	// read-snapshot-history-write sequence cannot interleave.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewSQLiteStore creates a new SQLiteStore instance. It initializes the
// database with WAL mode, applies pragmas, and runs migrations. The
// embedder may be nil, in which case entries are stored without vectors
// until a re-embed pass runs.
func NewSQLiteStore(dbPath string, embedder embedding.Embedder) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		embedder: embedder,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// entryLock returns the mutex serializing mutations for the given id.
func (s *SQLiteStore) entryLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if s.locks[id] == nil {
		s.locks[id] = &sync.Mutex{}
	}
	return s.locks[id]
}

// embedContent computes the vector for content. Embedding failures are
// absorbed: the entry is stored without a vector and retrieval degrades to
// keyword-only for it until a re-embed pass succeeds.
func (s *SQLiteStore) embedContent(ctx context.Context, content string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		slog.Warn("embedding failed, storing entry without vector", "error", err)
		return nil
	}
	return vec
}

// indexContent feeds content into the embedder's corpus statistics when it
// supports incremental fitting (the TF-IDF fallback tier does).
func (s *SQLiteStore) indexContent(content string) {
	if idx, ok := s.embedder.(embedding.CorpusIndexer); ok {
		idx.IndexContent(content)
	}
}

// Create persists a new knowledge entry. Manual entries default to active,
// learned entries to pending. A create history snapshot is written in the
// same transaction as the row.
func (s *SQLiteStore) Create(ctx context.Context, entry types.NewKnowledgeEntry) (*types.KnowledgeEntry, error) {
	if strings.TrimSpace(entry.Content) == "" || strings.TrimSpace(entry.Title) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	status := types.StatusActive
	if entry.Source == types.SourceLogLearning || entry.Source == types.SourceTestLearning {
		status = types.StatusPending
	}
	if entry.Source == "" {
		entry.Source = types.SourceManual
	}

	// Embed before opening the transaction; no state is written if the
	// caller abandons the call mid-embed.
	var embeddingBlob []byte
	if vec := s.embedContent(ctx, entry.Content); vec != nil {
		embeddingBlob = packEmbedding(vec)
	}
	if s.embedder != nil {
		s.indexContent(entry.Content)
	}

	id := ulid.Make().String()
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO knowledge_entries (
			id, type, category, title, content, scope, priority,
			status, source, source_ref, embedding, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`, id, entry.Type, entry.Category, entry.Title, entry.Content, entry.Scope,
		entry.Priority, status, entry.Source, entry.SourceRef, embeddingBlob, nowStr, nowStr)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	if err := replaceTags(ctx, tx, id, entry.Tags); err != nil {
		return nil, err
	}

	if err := insertHistory(ctx, tx, historyRow{
		knowledgeID: id,
		version:     1,
		title:       entry.Title,
		content:     entry.Content,
		scope:       entry.Scope,
		tags:        entry.Tags,
		changedBy:   string(entry.Source),
		changedAt:   nowStr,
		changeType:  types.ChangeCreate,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return s.Get(ctx, id)
}

// Get retrieves a knowledge entry by ID, archived or not.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*types.KnowledgeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, category, title, content, scope, priority,
		       status, source, source_ref, embedding, version, created_at, updated_at
		FROM knowledge_entries
		WHERE id = ?
	`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if entry.Tags, err = s.loadTags(ctx, id); err != nil {
		return nil, err
	}

	return entry, nil
}

// List returns entries matching the filter, ordered by priority desc then
// most recently updated. Tag filtering uses OR semantics; scope filtering
// keeps global entries, prefix matches, and wildcard matches.
func (s *SQLiteStore) List(ctx context.Context, filter types.Filter) ([]types.KnowledgeEntry, error) {
	var conds []string
	var args []any

	if len(filter.Statuses) > 0 {
		conds = append(conds, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, st := range filter.Statuses {
			args = append(args, st)
		}
	}
	if len(filter.Types) > 0 {
		conds = append(conds, "type IN ("+placeholders(len(filter.Types))+")")
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if len(filter.Tags) > 0 {
		conds = append(conds, `id IN (
			SELECT knowledge_id FROM knowledge_tags WHERE tag IN (`+placeholders(len(filter.Tags))+`))`)
		for _, tag := range filter.Tags {
			args = append(args, tag)
		}
	}

	query := `
		SELECT id, type, category, title, content, scope, priority,
		       status, source, source_ref, embedding, version, created_at, updated_at
		FROM knowledge_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY priority DESC, updated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []types.KnowledgeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		// Wildcard scope matching happens here; it does not map to SQL.
		if !types.ScopeMatches(entry.Scope, filter.ScopePrefix) {
			continue
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	for i := range entries {
		if entries[i].Tags, err = s.loadTags(ctx, entries[i].ID); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// Update applies a patch to an entry: snapshot the pre-update state to
// history, apply the patch, increment version, and re-embed when content
// changed. Archived or unknown ids fail with ErrNotFound. A stale
// BaseVersion fails with ErrConcurrentModification.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch types.EntryPatch) (*types.KnowledgeEntry, error) {
	lock := s.entryLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == types.StatusArchived {
		return nil, ErrNotFound
	}
	if patch.BaseVersion != 0 && patch.BaseVersion != current.Version {
		return nil, fmt.Errorf("%w: entry at version %d, patch based on %d",
			ErrConcurrentModification, current.Version, patch.BaseVersion)
	}

	next := *current
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Content != nil {
		next.Content = *patch.Content
	}
	if patch.Scope != nil {
		next.Scope = *patch.Scope
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		next.Tags = *patch.Tags
	}
	if strings.TrimSpace(next.Content) == "" || strings.TrimSpace(next.Title) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	// Stale vectors are never retrieved against newer content: when
	// content changes the old vector is replaced, or dropped if the
	// embedder is unavailable right now.
	contentChanged := next.Content != current.Content
	var embeddingBlob []byte
	if contentChanged {
		if vec := s.embedContent(ctx, next.Content); vec != nil {
			embeddingBlob = packEmbedding(vec)
		}
		if s.embedder != nil {
			s.indexContent(next.Content)
		}
	} else if current.Embedding != nil {
		embeddingBlob = packEmbedding(current.Embedding)
	}

	nowStr := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertHistory(ctx, tx, historyRow{
		knowledgeID: id,
		version:     current.Version,
		title:       current.Title,
		content:     current.Content,
		scope:       current.Scope,
		tags:        current.Tags,
		changedBy:   patch.ChangedBy,
		changedAt:   nowStr,
		changeType:  types.ChangeUpdate,
	}); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE knowledge_entries
		SET category = ?, title = ?, content = ?, scope = ?, priority = ?,
		    embedding = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ? AND status != 'archived'
	`, next.Category, next.Title, next.Content, next.Scope, next.Priority,
		embeddingBlob, nowStr, id, current.Version)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}

	if patch.Tags != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM knowledge_tags WHERE knowledge_id = ?", id); err != nil {
			return nil, fmt.Errorf("clear tags: %w", err)
		}
		if err := replaceTags(ctx, tx, id, next.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return s.Get(ctx, id)
}

// Archive soft-deletes an entry. Archiving an already-archived entry is a
// no-op; history and usage rows keep referencing the row, which is never
// physically removed.
func (s *SQLiteStore) Archive(ctx context.Context, id, changedBy string) error {
	lock := s.entryLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == types.StatusArchived {
		return nil
	}

	nowStr := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertHistory(ctx, tx, historyRow{
		knowledgeID: id,
		version:     current.Version,
		title:       current.Title,
		content:     current.Content,
		scope:       current.Scope,
		tags:        current.Tags,
		changedBy:   changedBy,
		changedAt:   nowStr,
		changeType:  types.ChangeArchive,
	}); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE knowledge_entries SET status = 'archived', updated_at = ? WHERE id = ?
	`, nowStr, id); err != nil {
		return fmt.Errorf("archive entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SetStatus performs a lifecycle transition. Transitions to archived go
// through Archive so they leave a history snapshot.
func (s *SQLiteStore) SetStatus(ctx context.Context, id string, to types.Status) error {
	if to == types.StatusArchived {
		return s.Archive(ctx, id, "")
	}

	lock := s.entryLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := types.ValidateTransition(current.Status, to); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	nowStr := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, `
		UPDATE knowledge_entries SET status = ?, updated_at = ? WHERE id = ?
	`, to, nowStr, id); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	return nil
}

// GetHistory returns all history snapshots for an entry, newest first.
func (s *SQLiteStore) GetHistory(ctx context.Context, id string) ([]types.HistorySnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, knowledge_id, version, title, content, scope, tags,
		       changed_by, changed_at, change_type
		FROM knowledge_history
		WHERE knowledge_id = ?
		ORDER BY version DESC, id DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var snapshots []types.HistorySnapshot
	for rows.Next() {
		var snap types.HistorySnapshot
		var tagsJSON, changedAt string
		if err := rows.Scan(&snap.ID, &snap.KnowledgeID, &snap.Version, &snap.Title,
			&snap.Content, &snap.Scope, &tagsJSON, &snap.ChangedBy, &changedAt,
			&snap.ChangeType); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &snap.Tags); err != nil {
				return nil, fmt.Errorf("parse tags JSON: %w", err)
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, changedAt); err == nil {
			snap.ChangedAt = t
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return snapshots, nil
}

// RecordUsage appends a usage event and returns its id.
func (s *SQLiteStore) RecordUsage(ctx context.Context, event types.UsageEvent) (int64, error) {
	if event.KnowledgeID == "" || event.UsedIn == "" {
		return 0, fmt.Errorf("%w: knowledge_id and used_in are required", ErrInvalidInput)
	}

	usedAt := event.UsedAt
	if usedAt.IsZero() {
		usedAt = time.Now().UTC()
	}

	var helpful any
	if event.Helpful != nil {
		helpful = *event.Helpful
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO knowledge_usage (knowledge_id, used_in, context, helpful, used_at)
		VALUES (?, ?, ?, ?, ?)
	`, event.KnowledgeID, event.UsedIn, event.Context, helpful, usedAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert usage: %w", err)
	}

	return res.LastInsertId()
}

// UpdateUsageFeedback backfills the helpful field of a usage event. This
// is the only mutation usage rows allow.
func (s *SQLiteStore) UpdateUsageFeedback(ctx context.Context, usageID int64, helpful int) error {
	if helpful < -1 || helpful > 1 {
		return fmt.Errorf("%w: helpful must be -1, 0, or 1", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE knowledge_usage SET helpful = ? WHERE id = ?
	`, helpful, usageID)
	if err != nil {
		return fmt.Errorf("update usage feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUsageNotFound
	}

	return nil
}

// ListEmbeddingMismatch returns non-archived entries whose stored vector
// is missing or does not match the given dimensionality. Used by the
// re-embed maintenance pass after an adapter change.
func (s *SQLiteStore) ListEmbeddingMismatch(ctx context.Context, dims, limit int) ([]types.KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, category, title, content, scope, priority,
		       status, source, source_ref, embedding, version, created_at, updated_at
		FROM knowledge_entries
		WHERE status != 'archived'
		  AND (embedding IS NULL OR length(embedding) != ?)
		ORDER BY created_at ASC
		LIMIT ?
	`, dims*4, limit)
	if err != nil {
		return nil, fmt.Errorf("query embedding mismatches: %w", err)
	}
	defer rows.Close()

	var entries []types.KnowledgeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}

// UpdateEmbedding rewrites the stored vector for an entry without touching
// version or history; the content it embeds is unchanged.
func (s *SQLiteStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE knowledge_entries SET embedding = ? WHERE id = ?
	`, packEmbedding(embedding), id)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Stats returns aggregate entry counts by lifecycle state.
func (s *SQLiteStore) Stats(ctx context.Context) (*types.StoreStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM knowledge_entries GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := &types.StoreStats{}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		stats.Total += count
		switch types.Status(status) {
		case types.StatusActive:
			stats.Active = count
		case types.StatusPending:
			stats.Pending = count
		case types.StatusArchived:
			stats.Archived = count
		}
	}

	return stats, rows.Err()
}

// --- helpers ---

type historyRow struct {
	knowledgeID string
	version     int
	title       string
	content     string
	scope       string
	tags        []string
	changedBy   string
	changedAt   string
	changeType  types.ChangeType
}

func insertHistory(ctx context.Context, tx *sql.Tx, row historyRow) error {
	tags := row.tags
	if tags == nil {
		tags = []string{}
	}
	tagsBytes, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO knowledge_history (
			knowledge_id, version, title, content, scope, tags,
			changed_by, changed_at, change_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.knowledgeID, row.version, row.title, row.content, row.scope,
		string(tagsBytes), row.changedBy, row.changedAt, row.changeType)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO knowledge_tags (knowledge_id, tag) VALUES (?, ?)
		`, id, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadTags(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag FROM knowledge_tags WHERE knowledge_id = ? ORDER BY tag
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// scanEntry scans a row into a KnowledgeEntry, handling BLOB unpacking.
func scanEntry(scanner interface{ Scan(...any) error }) (*types.KnowledgeEntry, error) {
	var entry types.KnowledgeEntry
	var embeddingBlob []byte
	var createdAt, updatedAt string

	err := scanner.Scan(
		&entry.ID,
		&entry.Type,
		&entry.Category,
		&entry.Title,
		&entry.Content,
		&entry.Scope,
		&entry.Priority,
		&entry.Status,
		&entry.Source,
		&entry.SourceRef,
		&embeddingBlob,
		&entry.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(embeddingBlob) > 0 {
		entry.Embedding = unpackEmbedding(embeddingBlob)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		entry.UpdatedAt = t
	}

	return &entry, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func packEmbedding(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func unpackEmbedding(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
