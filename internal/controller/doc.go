// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller orchestrates a message send end to end: the
// optimistic user append, the classification request, and the
// reconciliation of the reply or failure back into the session store.
package controller
