package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// SQLiteStore keeps conversations in a SQLite database for deployments
// that provide a real durable volume. Concurrency is handled by sql.DB's
// connection pooling plus a store-level mutex so read-modify-write trims
// stay consistent.
//
// Like the other stores, operations absorb failures: on the first SQL
// error the store degrades to its in-process mirror for the remainder of
// the process lifetime.
type SQLiteStore struct {
	mu       sync.Mutex
	db       *sql.DB
	cache    map[string][]chat.Message
	degraded bool
	log      zerolog.Logger
}

// OpenSQLiteStore opens or creates the database at path and installs the
// schema. Construction can fail; callers fall back to another store.
func OpenSQLiteStore(path string, log zerolog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLiteStore{
		db:    db,
		cache: make(map[string][]chat.Message),
		log:   log.With().Str("component", "sqlite-store").Logger(),
	}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(conversation_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// History returns the stored messages oldest first, creating an empty
// conversation row for unknown identifiers.
func (s *SQLiteStore) History(conversationID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return copyMessages(s.cache[conversationID])
	}

	if _, err := s.db.Exec(`INSERT OR IGNORE INTO conversations (id) VALUES (?)`, conversationID); err != nil {
		s.degrade("create conversation row", err)
		return copyMessages(s.cache[conversationID])
	}

	rows, err := s.db.Query(
		`SELECT role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
	if err != nil {
		s.degrade("query messages", err)
		return copyMessages(s.cache[conversationID])
	}
	defer rows.Close()

	messages := []chat.Message{}
	for rows.Next() {
		var (
			role, content, createdAt string
		)
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			s.degrade("scan message row", err)
			return copyMessages(s.cache[conversationID])
		}
		ts, _ := time.Parse(time.RFC3339Nano, createdAt)
		messages = append(messages, chat.Message{Role: chat.Role(role), Content: content, Timestamp: ts})
	}
	if err := rows.Err(); err != nil {
		s.degrade("iterate message rows", err)
		return copyMessages(s.cache[conversationID])
	}

	// Mirror into the cache so a later degrade keeps what we have seen.
	s.cache[conversationID] = copyMessages(messages)
	return messages
}

// Append inserts a message and deletes rows beyond the history limit.
func (s *SQLiteStore) Append(conversationID string, role chat.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := newMessage(role, content)
	s.cache[conversationID] = trim(append(s.cache[conversationID], message))
	if s.degraded {
		return
	}

	if _, err := s.db.Exec(`INSERT OR IGNORE INTO conversations (id) VALUES (?)`, conversationID); err != nil {
		s.degrade("create conversation row", err)
		return
	}
	if _, err := s.db.Exec(
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, string(message.Role), message.Content, message.Timestamp.Format(time.RFC3339Nano),
	); err != nil {
		s.degrade("insert message", err)
		return
	}
	if _, err := s.db.Exec(
		`DELETE FROM messages WHERE conversation_id = ? AND id NOT IN (
			SELECT id FROM messages WHERE conversation_id = ? ORDER BY id DESC LIMIT ?
		)`,
		conversationID, conversationID, chat.HistoryLimit,
	); err != nil {
		s.degrade("trim messages", err)
	}
}

// Clear removes the conversation and its messages.
func (s *SQLiteStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, conversationID)
	if s.degraded {
		return
	}

	if _, err := s.db.Exec(`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		s.degrade("delete messages", err)
		return
	}
	if _, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		s.degrade("delete conversation row", err)
	}
}

func (s *SQLiteStore) degrade(op string, err error) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.log.Warn().Err(err).Msgf("storage degraded while trying to %s; continuing in-memory", op)
}

var _ Store = (*SQLiteStore)(nil)
