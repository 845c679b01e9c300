// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"log"

	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/model"
)

// Storage keys. KeySettings is exported so the settings watcher can tell
// which key changed on disk.
const (
	KeySettings = "settings"
	keySessions = "sessions"
	keyActiveID = "active_id"
)

// Gateway mirrors in-memory state to a KV store. It is the single writer of
// durable state: the session store calls SaveSessions/SaveActiveID after
// every mutation, and nothing else touches the underlying keys.
type Gateway struct {
	kv       KV
	defaults config.Settings
}

// NewGateway creates a gateway over kv. defaults seed any missing settings
// fields on load.
func NewGateway(kv KV, defaults config.Settings) *Gateway {
	return &Gateway{kv: kv, defaults: defaults}
}

// =============================================================================
// SETTINGS
// =============================================================================

// LoadSettings returns the stored settings merged over the defaults. Old
// payloads missing newer fields load cleanly, the missing fields keeping
// their defaults. Malformed payloads fall back to the defaults entirely.
func (g *Gateway) LoadSettings() config.Settings {
	settings := g.defaults

	raw, ok := g.kv.Get(KeySettings)
	if !ok {
		return settings
	}

	// Decoding into the pre-populated struct merges stored fields over
	// defaults field-wise.
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Printf("storage: malformed settings payload, using defaults: %v", err)
		return g.defaults
	}

	settings.Normalize()
	return settings
}

// SaveSettings serializes and writes the settings. Fire-and-forget.
func (g *Gateway) SaveSettings(settings config.Settings) {
	data, err := json.Marshal(settings)
	if err != nil {
		log.Printf("storage: settings marshal failed: %v", err)
		return
	}
	g.kv.Set(KeySettings, string(data))
}

// =============================================================================
// SESSIONS
// =============================================================================

// LoadSessions returns the stored session collection, or nil when no valid
// payload exists. Malformed stored text is treated identically to "not
// found" - it never propagates an error; the caller supplies its own
// default collection. A payload is valid only if its first element carries
// both an id and a messages field.
func (g *Gateway) LoadSessions() []model.ChatSession {
	raw, ok := g.kv.Get(keySessions)
	if !ok {
		return nil
	}

	var sessions []model.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Printf("storage: malformed sessions payload, discarding: %v", err)
		return nil
	}

	if len(sessions) == 0 || sessions[0].ID == "" || sessions[0].Messages == nil {
		return nil
	}
	return sessions
}

// SaveSessions writes the full session collection, unconditionally
// mirroring the in-memory state.
func (g *Gateway) SaveSessions(sessions []model.ChatSession) {
	data, err := json.Marshal(sessions)
	if err != nil {
		log.Printf("storage: sessions marshal failed: %v", err)
		return
	}
	g.kv.Set(keySessions, string(data))
}

// =============================================================================
// ACTIVE POINTER
// =============================================================================

// LoadActiveID returns the stored active session id, or "" when absent.
func (g *Gateway) LoadActiveID() string {
	raw, ok := g.kv.Get(keyActiveID)
	if !ok {
		return ""
	}
	return raw
}

// SaveActiveID writes the active session id as a raw string.
func (g *Gateway) SaveActiveID(id string) {
	g.kv.Set(keyActiveID, id)
}
