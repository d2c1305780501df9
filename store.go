package haven

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hyperengineering/haven/internal/store/migrations"
	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// listSep separates list items inside a single text column. Items are
// newline-free by validation.
const listSep = "\n"

// Store manages the local SQLite history database. The engine only reads
// from it; writes exist for the logging surfaces (CLI, MCP tools) and tests.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewStore opens or creates a local history store.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, schemaVersion)
	return err
}

// LogMood appends a mood entry. Used by the logging surfaces, never by the
// engine pipeline.
func (s *Store) LogMood(ctx context.Context, entry MoodEntry) (*MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if entry.UserID == "" {
		return nil, ErrMissingUserID
	}
	if !ValidMood(entry.MoodValue) {
		return nil, ErrInvalidMood
	}
	if len(entry.Trigger) > MaxTriggerLength {
		return nil, &ValidationError{Field: "trigger", Message: "trigger exceeds maximum length"}
	}

	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_entries (id, user_id, date, mood_value, trigger_text)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.UserID,
		entry.Date.UTC().Format(time.RFC3339),
		entry.MoodValue,
		nullString(entry.Trigger),
	)
	if err != nil {
		return nil, fmt.Errorf("insert mood entry: %w", err)
	}

	return &entry, nil
}

// AddJournalEntry appends a journal entry.
func (s *Store) AddJournalEntry(ctx context.Context, entry JournalEntry) (*JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if entry.UserID == "" {
		return nil, ErrMissingUserID
	}
	if strings.TrimSpace(entry.Content) == "" {
		return nil, ErrEmptyContent
	}
	if len(entry.Content) > MaxJournalLength {
		return nil, &ValidationError{Field: "content", Message: "content exceeds maximum length"}
	}
	if entry.MoodValue != nil && !ValidMood(*entry.MoodValue) {
		return nil, ErrInvalidMood
	}

	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	var moodValue any
	if entry.MoodValue != nil {
		moodValue = *entry.MoodValue
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, user_id, date, content, mood_value, tags)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.UserID,
		entry.Date.UTC().Format(time.RFC3339),
		entry.Content,
		moodValue,
		nullString(joinList(entry.Tags)),
	)
	if err != nil {
		return nil, fmt.Errorf("insert journal entry: %w", err)
	}

	return &entry, nil
}

// AddSession appends a therapy session record.
func (s *Store) AddSession(ctx context.Context, session TherapySession) (*TherapySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if session.UserID == "" {
		return nil, ErrMissingUserID
	}

	if session.ID == "" {
		session.ID = ulid.Make().String()
	}
	if session.Date.IsZero() {
		session.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO therapy_sessions (id, user_id, date, notes, goals, homework, techniques)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		session.ID,
		session.UserID,
		session.Date.UTC().Format(time.RFC3339),
		nullString(session.Notes),
		nullString(joinList(session.Goals)),
		nullString(joinList(session.Homework)),
		nullString(joinList(session.Techniques)),
	)
	if err != nil {
		return nil, fmt.Errorf("insert therapy session: %w", err)
	}

	return &session, nil
}

// RecentMoods returns the most recent mood entries for a user, newest first.
// Returns an empty slice when the user has no history; "no rows" is never
// an error.
func (s *Store) RecentMoods(ctx context.Context, userID string, limit int) ([]MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = RecentMoodLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, mood_value, trigger_text
		FROM mood_entries
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query mood entries: %w", err)
	}
	defer rows.Close()

	results := []MoodEntry{}
	for rows.Next() {
		var (
			entry   MoodEntry
			date    string
			trigger sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &date, &entry.MoodValue, &trigger); err != nil {
			return nil, err
		}
		entry.Date, _ = time.Parse(time.RFC3339, date)
		if trigger.Valid {
			entry.Trigger = trigger.String
		}
		results = append(results, entry)
	}

	return results, rows.Err()
}

// RecentJournalEntries returns the most recent journal entries, newest first.
func (s *Store) RecentJournalEntries(ctx context.Context, userID string, limit int) ([]JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = RecentJournalLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, content, mood_value, tags
		FROM journal_entries
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	results := []JournalEntry{}
	for rows.Next() {
		var (
			entry JournalEntry
			date  string
			mood  sql.NullInt64
			tags  sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &date, &entry.Content, &mood, &tags); err != nil {
			return nil, err
		}
		entry.Date, _ = time.Parse(time.RFC3339, date)
		if mood.Valid {
			v := int(mood.Int64)
			entry.MoodValue = &v
		}
		if tags.Valid {
			entry.Tags = splitList(tags.String)
		}
		results = append(results, entry)
	}

	return results, rows.Err()
}

// RecentSessions returns the most recent therapy sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, userID string, limit int) ([]TherapySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = RecentSessionLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, notes, goals, homework, techniques
		FROM therapy_sessions
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query therapy sessions: %w", err)
	}
	defer rows.Close()

	results := []TherapySession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *session)
	}

	return results, rows.Err()
}

// NextSession returns the earliest therapy session scheduled after the given
// time, or ErrNotFound when none exists. Used by the session-prep check-in.
func (s *Store) NextSession(ctx context.Context, userID string, after time.Time) (*TherapySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, notes, goals, homework, techniques
		FROM therapy_sessions
		WHERE user_id = ? AND date > ?
		ORDER BY date ASC
		LIMIT 1
	`, userID, after.UTC().Format(time.RFC3339))

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Stats returns row counts per history table.
func (s *Store) Stats() (*StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	stats := &StoreStats{}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM mood_entries").Scan(&stats.MoodEntries); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM journal_entries").Scan(&stats.JournalEntries); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM therapy_sessions").Scan(&stats.TherapySessions); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&stats.SchemaVersion); err != nil {
		return nil, err
	}

	return stats, nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// scanner abstracts the Scan method shared by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (*TherapySession, error) {
	var (
		session    TherapySession
		date       string
		notes      sql.NullString
		goals      sql.NullString
		homework   sql.NullString
		techniques sql.NullString
	)

	err := sc.Scan(
		&session.ID,
		&session.UserID,
		&date,
		&notes,
		&goals,
		&homework,
		&techniques,
	)
	if err != nil {
		return nil, err
	}

	session.Date, _ = time.Parse(time.RFC3339, date)
	if notes.Valid {
		session.Notes = notes.String
	}
	if goals.Valid {
		session.Goals = splitList(goals.String)
	}
	if homework.Valid {
		session.Homework = splitList(homework.String)
	}
	if techniques.Valid {
		session.Techniques = splitList(techniques.String)
	}

	return &session, nil
}

func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.ReplaceAll(item, listSep, " "))
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, listSep)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
