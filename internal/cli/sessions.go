// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/storage"
)

// HandleSessions lists persisted chat sessions, most recent first.
func HandleSessions(gateway *storage.Gateway) error {
	sessions := gateway.LoadSessions()
	if sessions == nil {
		fmt.Println("no sessions")
		return nil
	}

	activeID := gateway.LoadActiveID()
	sorted := model.SortByRecency(sessions)

	for _, s := range sorted {
		marker := " "
		if s.ID == activeID {
			marker = "*"
		}
		when := time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("%s %-24s %3d messages  %s  %s\n",
			marker, s.Title, s.MessageCount(), when, s.ID)
	}
	return nil
}
