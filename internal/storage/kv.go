// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/moodlens/moodlens-tui/internal/util"
)

// =============================================================================
// KV INTERFACE
// =============================================================================

// KV is a string-keyed, string-valued durable store.
//
// Get returns the stored value and true, or ("", false) when the key is
// absent or unreadable. Set is fire-and-forget: failures (disk full, quota,
// permissions) are logged and swallowed, never surfaced to the chat flow.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Close() error
}

// =============================================================================
// FILE-BACKED KV
// =============================================================================

// FileKV stores each key as one file in a directory, written atomically.
type FileKV struct {
	dir string
	mu  sync.Mutex
}

// NewFileKV creates a file-backed store rooted at dir, creating it if
// needed.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileKV{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *FileKV) Dir() string {
	return f.dir
}

// Get reads a key's file. Any read error counts as "not found".
func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes a key's file atomically. Failures are logged and swallowed.
func (f *FileKV) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := util.AtomicWriteFile(f.path(key), []byte(value), 0600); err != nil {
		log.Printf("storage: write %q failed: %v", key, err)
	}
}

// Close implements KV. File handles are not held open between operations.
func (f *FileKV) Close() error {
	return nil
}

// path maps a key to its backing file. Keys are the gateway's fixed
// constants, so no escaping is needed.
func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// =============================================================================
// IN-MEMORY KV
// =============================================================================

// MemKV is a map-backed KV for tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string

	// FailWrites makes Set a no-op, simulating a full or broken store.
	FailWrites bool
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

// Get returns the stored value for key.
func (m *MemKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key unless FailWrites is set.
func (m *MemKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return
	}
	m.data[key] = value
}

// Close implements KV.
func (m *MemKV) Close() error {
	return nil
}
