// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sync"
	"testing"
	"time"
)

func TestWatcher_ReportsSettingsChange(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}

	var mu sync.Mutex
	var keys []string
	w, err := NewWatcher(dir, 50*time.Millisecond, func(key string) {
		mu.Lock()
		keys = append(keys, key)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	kv.Set(KeySettings, `{"theme":"light"}`)

	deadline := time.After(3 * time.Second)
	for {
		mu.Lock()
		n := len(keys)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watcher never reported the settings change")
		case <-time.After(20 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if keys[0] != KeySettings {
		t.Errorf("changed key = %q, want %q", keys[0], KeySettings)
	}
}
