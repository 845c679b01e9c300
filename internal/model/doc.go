// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// Messages are immutable once created: they are only ever appended to a
// session, never edited or removed individually. A session's Timestamp always
// tracks its most recently appended message, and LastMessage mirrors the text
// of the most recent user message only.
package model
