// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for moodlens.
//
// Settings resolve in three layers, later layers winning:
//
//   - Built-in defaults
//   - Optional ~/.moodlens/config.toml
//   - Environment variables (MOODLENS_*)
//
// Settings persisted by the storage gateway are merged over this resolved
// configuration at startup, so old persisted payloads missing newer fields
// load cleanly and pick up the new field's default.
package config
