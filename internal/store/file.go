package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// FileStore writes conversations through to a single JSON file so history
// survives process restarts when the filesystem allows it. The file is
// re-read on every operation because scratch filesystems in serverless
// deployments may be swapped between invocations.
//
// Any read, decode, or write failure flips the store into degraded mode:
// the in-process cache becomes authoritative for the remainder of the
// process lifetime and the failure is logged, never surfaced to callers.
type FileStore struct {
	mu       sync.Mutex
	path     string
	cache    map[string][]chat.Message
	degraded bool
	log      zerolog.Logger
}

// NewFileStore creates a store backed by the JSON file at path, creating
// parent directories as needed. A failure here is not fatal; the store
// starts degraded instead.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	s := &FileStore{
		path:  path,
		cache: make(map[string][]chat.Message),
		log:   log.With().Str("component", "file-store").Logger(),
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.degrade("create storage directory", err)
		}
	}
	return s
}

// History returns a copy of the stored messages, creating an empty record
// for unknown identifiers so later appends can target it directly.
func (s *FileStore) History(conversationID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	messages, ok := s.cache[conversationID]
	if !ok {
		s.cache[conversationID] = nil
		s.persist()
		return []chat.Message{}
	}
	return copyMessages(messages)
}

// Append records a message, evicts beyond the history limit, and flushes.
func (s *FileStore) Append(conversationID string, role chat.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	s.cache[conversationID] = trim(append(s.cache[conversationID], newMessage(role, content)))
	s.persist()
}

// Clear removes the conversation; unknown identifiers are a no-op.
func (s *FileStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load()
	if _, ok := s.cache[conversationID]; !ok {
		return
	}
	delete(s.cache, conversationID)
	s.persist()
}

// Degraded reports whether the store has fallen back to volatile storage.
func (s *FileStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// load refreshes the cache from disk. A missing file is an empty store; any
// other failure keeps the current cache and degrades.
func (s *FileStore) load() {
	if s.degraded {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		s.degrade("read conversations file", err)
		return
	}

	decoded := make(map[string][]chat.Message)
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.degrade("decode conversations file", err)
		return
	}
	s.cache = decoded
}

func (s *FileStore) persist() {
	if s.degraded {
		return
	}

	data, err := json.Marshal(s.cache)
	if err != nil {
		s.degrade("encode conversations", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.degrade("write conversations file", err)
	}
}

func (s *FileStore) degrade(op string, err error) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.log.Warn().Err(err).Str("path", s.path).Msgf("storage degraded while trying to %s; continuing in-memory", op)
}

var _ Store = (*FileStore)(nil)
