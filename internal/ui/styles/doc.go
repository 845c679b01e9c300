// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the moodlens
// TUI. All colors use Lip Gloss AdaptiveColor so the palette follows
// the configured theme, with terminal background detection as the
// fallback when no theme is forced.
package styles
