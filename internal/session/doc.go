// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory session store.
//
// The store owns the session collection, the active session pointer, the
// message list materialized from the active session, and the transient
// loading/error slots. Every mutation ends by mirroring sessions and the
// active id through the persistence gateway - the store is the single
// writer of durable chat state.
package session
