// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/controller"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// SendResultMsg reports that a message send has settled. The store
// already holds the appended messages; Err carries the failure for
// logging only.
type SendResultMsg struct {
	Err error
}

// SettingsReloadedMsg carries settings picked up from a config change
// on disk. Sent from outside the program via program.Send.
type SettingsReloadedMsg struct {
	Settings config.Settings
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd creates a command that sends the text through the
// controller and reports back when the reply has been reconciled.
func SendCmd(ctrl *controller.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.SendMessage(context.Background(), text)
		return SendResultMsg{Err: err}
	}
}
