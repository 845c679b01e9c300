// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view is a Bubble Tea model composed of a session sidebar, a
// scrollable transcript, a text input, and a settings overlay. Sends
// run asynchronously through the conversation controller and settle
// back into the view as SendResultMsg.
package chat
