// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID creates a unique identifier with the given prefix. The ID combines a
// millisecond timestamp (base 36) with a random suffix, so IDs sort roughly
// by creation time and never collide in practice.
func NewID(prefix string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// Last resort when the entropy source is unavailable.
		binary.BigEndian.PutUint32(suffix, uint32(time.Now().UnixNano()))
	}
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 36) + hex.EncodeToString(suffix)
}

// NowMillis returns the current time as integer milliseconds, the timestamp
// representation used throughout the stored data model.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
