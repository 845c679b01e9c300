// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"
	"sync"

	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/storage"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the in-memory source of truth for chat state. It is safe for
// concurrent use; the TUI reads from it on every render while sends mutate
// it from command goroutines.
type Store struct {
	mu      sync.Mutex
	gateway *storage.Gateway

	sessions []model.ChatSession
	activeID string

	// messages is the list materialized from the active session. It is
	// re-derived on every session switch.
	messages []model.Message

	// Transient state, never persisted.
	loading   bool
	lastError string
}

// New creates a store mirroring through the given gateway.
func New(gateway *storage.Gateway) *Store {
	return &Store{gateway: gateway}
}

// Initialize loads persisted sessions, repairs the active pointer, and
// materializes the active message list. When no valid payload exists a
// single default session containing the seed greeting is created.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = s.gateway.LoadSessions()
	if s.sessions == nil {
		first := model.NewSession(model.NextChatTitle(nil))
		s.sessions = []model.ChatSession{first}
		s.activeID = first.ID
	} else {
		s.activeID = s.gateway.LoadActiveID()
		s.repairPointerLocked()
	}

	s.materializeLocked()
	s.persistLocked()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sessions returns a copy of the collection sorted most recent first.
// Display order is always derived here, never persisted pre-sorted.
func (s *Store) Sessions() []model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SortByRecency(s.sessions)
}

// ActiveID returns the active session id, or "" when none is selected.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveSession returns the active session, if any.
func (s *Store) ActiveSession() (model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.sessions[i], true
	}
	return model.ChatSession{}, false
}

// Messages returns a copy of the materialized message list.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// Loading reports whether a send is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the transient operation error, or "".
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// =============================================================================
// TRANSIENT STATE
// =============================================================================

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError records a transient operation error for the banner.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// ClearError clears the transient error slot.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SelectSession makes id the active session. Selecting the already-active
// session is a no-op; otherwise the message list is re-materialized and the
// transient error and loading slots are cleared. The same path runs whether
// the switch is user-initiated or repair logic after create/delete.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.activeID {
		return
	}
	s.selectLocked(id)
	s.persistLocked()
}

// CreateSession inserts a fresh session at the front of the collection,
// titled past the highest existing "Chat N", and makes it active.
func (s *Store) CreateSession() model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.createLocked()
	s.persistLocked()
	return sess
}

// RenameSession replaces a session's title. An empty trimmed title is a
// no-op.
func (s *Store) RenameSession(id, newTitle string) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.sessions[i].Title = newTitle
	s.persistLocked()
}

// DeleteSession removes a session. When the active session is deleted the
// pointer is repaired to the most recent remaining session; deleting the
// last session creates a fresh default one.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)

	if s.activeID == id {
		s.activeID = ""
		s.repairPointerLocked()
		s.materializeLocked()
	}
	s.persistLocked()
}

// AppendMessage appends a message to the active session.
func (s *Store) AppendMessage(msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(s.activeID, msg)
}

// AppendMessageTo appends a message to the identified session, which need
// not be the active one: a send captures its target session id up front so
// a late reply still lands in the right transcript. Returns false when the
// session no longer exists.
func (s *Store) AppendMessageTo(sessionID string, msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(sessionID, msg)
}

// =============================================================================
// INTERNALS (callers hold mu)
// =============================================================================

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// selectLocked runs the reactive consequence of a pointer change:
// re-materialize, clear transient error, clear loading.
func (s *Store) selectLocked(id string) {
	s.activeID = id
	s.materializeLocked()
	s.lastError = ""
	s.loading = false
}

func (s *Store) createLocked() model.ChatSession {
	sess := model.NewSession(model.NextChatTitle(s.sessions))
	s.sessions = append([]model.ChatSession{sess}, s.sessions...)
	s.selectLocked(sess.ID)
	return sess
}

// repairPointerLocked restores the invariant that a non-empty collection
// has a valid active pointer, reselecting the most recent session. An
// empty collection gets a fresh default session.
func (s *Store) repairPointerLocked() {
	if s.indexLocked(s.activeID) >= 0 {
		return
	}
	if recent, ok := model.MostRecent(s.sessions); ok {
		s.selectLocked(recent.ID)
		return
	}
	s.createLocked()
}

// materializeLocked rebuilds the message list from the active session, or
// falls back to a lone seed greeting when resolution fails.
func (s *Store) materializeLocked() {
	if i := s.indexLocked(s.activeID); i >= 0 {
		msgs := make([]model.Message, len(s.sessions[i].Messages))
		copy(msgs, s.sessions[i].Messages)
		s.messages = msgs
		return
	}
	s.messages = []model.Message{model.SeedGreeting()}
}

func (s *Store) appendLocked(sessionID string, msg model.Message) bool {
	i := s.indexLocked(sessionID)
	if i < 0 {
		return false
	}
	s.sessions[i].Append(msg)
	if sessionID == s.activeID {
		s.messages = append(s.messages, msg)
	}
	s.persistLocked()
	return true
}

// persistLocked mirrors the collection and active pointer to durable
// storage. Writes are best-effort; failures never reach the caller.
func (s *Store) persistLocked() {
	s.gateway.SaveSessions(s.sessions)
	s.gateway.SaveActiveID(s.activeID)
}
