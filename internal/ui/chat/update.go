// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodlens/moodlens-tui/internal/config"
)

// Update routes messages to the focused part of the view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.store.Loading() {
			return m, nil
		}
		// Ticks double as refresh beats so the optimistic user
		// message shows up while the request is still running.
		m.refreshTranscript()
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SendResultMsg:
		if msg.Err != nil {
			log.Printf("send settled with error: %v", msg.Err)
		}
		m.store.SetLoading(false)
		m.refreshTranscript()
		return m, nil

	case SettingsReloadedMsg:
		m.applySettings(msg.Settings)
		m.statusNote = "settings reloaded"
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.statusNote = fmt.Sprintf("export failed: %v", msg.Err)
		} else {
			m.statusNote = "exported to " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.statusNote = ""
		switch m.focus {
		case focusSidebar:
			return m.updateSidebar(msg)
		case focusRename:
			return m.updateRename(msg)
		case focusSettings:
			return m.updateSettings(msg)
		default:
			return m.updateInput(msg)
		}
	}

	return m, nil
}

// =============================================================================
// INPUT FOCUS
// =============================================================================

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.store.Loading() {
			// Submit is disabled while a send is running.
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.store.SetLoading(true)
		m.refreshTranscript()
		return m, tea.Batch(SendCmd(m.ctrl, text), m.spin.Tick)

	case key.Matches(msg, m.keys.NewChat):
		m.store.CreateSession()
		m.sidebarIndex = 0
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		m.focus = focusSidebar
		m.input.Blur()
		m.syncSidebarIndex()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.focus = focusSettings
		m.settingsRow = settingTheme
		m.editingURL = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		if active, ok := m.store.ActiveSession(); ok {
			return m, ExportCmd(active, m.cfg.DataDir)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SIDEBAR FOCUS
// =============================================================================

func (m *Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.store.Sessions()

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Sidebar):
		m.focusInput()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.sidebarIndex < len(sessions)-1 {
			m.sidebarIndex++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.sidebarIndex < len(sessions) {
			m.store.SelectSession(sessions[m.sidebarIndex].ID)
			m.refreshTranscript()
		}
		m.focusInput()
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.store.CreateSession()
		m.sidebarIndex = 0
		m.refreshTranscript()
		m.focusInput()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if m.sidebarIndex < len(sessions) {
			m.renameInput.SetValue(sessions[m.sidebarIndex].Title)
			m.renameInput.Focus()
			m.focus = focusRename
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.sidebarIndex < len(sessions) {
			m.store.DeleteSession(sessions[m.sidebarIndex].ID)
			m.syncSidebarIndex()
			m.refreshTranscript()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.renameInput.Blur()
		m.focus = focusSidebar
		return m, nil

	case key.Matches(msg, m.keys.Select):
		sessions := m.store.Sessions()
		if m.sidebarIndex < len(sessions) {
			m.store.RenameSession(sessions[m.sidebarIndex].ID, m.renameInput.Value())
		}
		m.renameInput.Blur()
		m.focus = focusSidebar
		return m, nil
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

// =============================================================================
// SETTINGS FOCUS
// =============================================================================

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingURL {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.editingURL = false
			m.urlInput.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if url := strings.TrimSpace(m.urlInput.Value()); url != "" {
				m.settings.APIURL = url
			}
			m.editingURL = false
			m.urlInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Settings):
		m.saveSettings()
		m.focusInput()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.settingsRow > 0 {
			m.settingsRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.settingsRow < settingsFieldCount-1 {
			m.settingsRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		switch m.settingsRow {
		case settingTheme:
			if m.settings.Theme == config.ThemeDark {
				m.settings.Theme = config.ThemeLight
			} else {
				m.settings.Theme = config.ThemeDark
			}
		case settingModel:
			if m.settings.ModelType == config.ModelBERT {
				m.settings.ModelType = config.ModelNaiveBayes
			} else {
				m.settings.ModelType = config.ModelBERT
			}
		case settingAnalysis:
			m.settings.ShowModelAnalysis = !m.settings.ShowModelAnalysis
		case settingAPIURL:
			m.urlInput.SetValue(m.settings.APIURL)
			m.urlInput.Focus()
			m.editingURL = true
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

// syncSidebarIndex points the sidebar cursor at the active session.
func (m *Model) syncSidebarIndex() {
	m.sidebarIndex = 0
	for i, s := range m.store.Sessions() {
		if s.ID == m.store.ActiveID() {
			m.sidebarIndex = i
			break
		}
	}
}

// layout recomputes component sizes after a resize.
func (m *Model) layout() {
	sidebarW := 0
	if m.sidebarOpen {
		sidebarW = sidebarWidth
	}

	contentW := m.width - sidebarW
	if contentW < 20 {
		contentW = 20
	}
	transcriptH := m.height - headerHeight - inputHeight - statusHeight
	if transcriptH < 3 {
		transcriptH = 3
	}

	if !m.ready {
		m.transcript = viewport.New(contentW, transcriptH)
		m.ready = true
	} else {
		m.transcript.Width = contentW
		m.transcript.Height = transcriptH
	}
	m.input.SetWidth(contentW - 4)
	m.refreshTranscript()
}
