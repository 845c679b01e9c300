// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across moodlens.
//
// String helpers are rune- and width-aware so session titles and message
// previews never split multi-byte characters. AtomicWriteFile is the
// crash-safe write primitive used by the file-backed key-value store.
package util
