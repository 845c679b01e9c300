// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable persistence for moodlens.
//
// Durable state is modeled as a string key-value store behind the KV
// capability interface, with file-backed and SQLite-backed implementations.
// Reads that miss or fail surface as "not found"; writes are best-effort and
// never interrupt the chat flow - callers always have a default-value
// fallback path.
//
// Gateway is the sole reader and writer of durable state. It owns the three
// keys (settings, sessions, active id) and their JSON serialization.
package storage
