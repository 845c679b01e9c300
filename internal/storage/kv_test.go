// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// FILE KV TESTS
// =============================================================================

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("settings"); ok {
		t.Error("Get on empty store should report not found")
	}

	kv.Set("settings", `{"theme":"dark"}`)
	got, ok := kv.Get("settings")
	if !ok {
		t.Fatal("Get after Set should find the key")
	}
	if got != `{"theme":"dark"}` {
		t.Errorf("Get = %q", got)
	}

	// Overwrite replaces the value.
	kv.Set("settings", `{"theme":"light"}`)
	got, _ = kv.Get("settings")
	if got != `{"theme":"light"}` {
		t.Errorf("Get after overwrite = %q", got)
	}
}

func TestFileKV_KeysAreIndependent(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	defer kv.Close()

	kv.Set("sessions", "[]")
	kv.Set("active_id", "chat_abc")

	if v, _ := kv.Get("sessions"); v != "[]" {
		t.Errorf("sessions = %q", v)
	}
	if v, _ := kv.Get("active_id"); v != "chat_abc" {
		t.Errorf("active_id = %q", v)
	}
}

func TestFileKV_SetSwallowsFailures(t *testing.T) {
	// Point the store at a path that cannot be a directory.
	base := t.TempDir()
	kv := &FileKV{dir: filepath.Join(base, "state")}

	// A file occupying the directory path makes every write fail.
	if err := os.WriteFile(filepath.Join(base, "state"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	// Must not panic or return anything.
	kv.Set("settings", "{}")
	if _, ok := kv.Get("settings"); ok {
		t.Error("Get should report not found after failed write")
	}
}

// =============================================================================
// SQLITE KV TESTS
// =============================================================================

func TestSQLiteKV_RoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "moodlens.db"))
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	defer kv.Close()

	if _, ok := kv.Get("settings"); ok {
		t.Error("Get on empty store should report not found")
	}

	kv.Set("settings", `{"theme":"dark"}`)
	got, ok := kv.Get("settings")
	if !ok || got != `{"theme":"dark"}` {
		t.Errorf("Get = %q, %v", got, ok)
	}

	kv.Set("settings", `{"theme":"light"}`)
	got, _ = kv.Get("settings")
	if got != `{"theme":"light"}` {
		t.Errorf("Get after upsert = %q", got)
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodlens.db")

	kv, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	kv.Set("active_id", "chat_xyz")
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv2, err := NewSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()

	if v, ok := kv2.Get("active_id"); !ok || v != "chat_xyz" {
		t.Errorf("Get after reopen = %q, %v", v, ok)
	}
}
