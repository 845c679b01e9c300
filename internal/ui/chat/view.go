// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/util"
)

// Layout constants.
const (
	sidebarWidth = 26
	headerHeight = 1
	inputHeight  = 3
	statusHeight = 1
	barWidth     = 16
)

// View renders the full chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "starting..."
	}

	if m.focus == focusSettings {
		return m.theme.App.Render(m.viewSettings())
	}

	main := m.transcript.View()
	if m.sidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main)
	}

	sections := []string{
		m.viewHeader(),
		main,
	}
	if banner := m.viewErrorBanner(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.viewInput(), m.viewStatusBar())

	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) viewHeader() string {
	title := m.theme.HeaderTitle.Render("moodlens")
	sub := m.theme.HeaderSubtitle.Render(" emotion chat · " + m.settings.ModelType)
	return m.theme.Header.Width(m.width).Render(title + sub)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) viewSidebar() string {
	sessions := m.store.Sessions()
	activeID := m.store.ActiveID()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n")

	for i, s := range sessions {
		title := util.TruncateWidth(s.Title, sidebarWidth-4)
		marker := "  "
		if s.ID == activeID {
			marker = "* "
		}
		line := marker + title

		style := m.theme.SessionItem
		if m.focus == focusSidebar && i == m.sidebarIndex {
			style = m.theme.SessionItemSelected
		}
		b.WriteString(style.Render(util.PadWidth(line, sidebarWidth-2)))
		b.WriteString("\n")

		if preview := s.Preview(sidebarWidth - 6); preview != "" {
			b.WriteString(m.theme.SessionMeta.Render(preview))
			b.WriteString("\n")
		}
	}

	if m.focus == focusRename {
		b.WriteString("\n")
		b.WriteString(m.renameInput.View())
	} else if m.focus == focusSidebar {
		b.WriteString("\n")
		b.WriteString(m.theme.ShortcutDesc.Render("r rename · d delete"))
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.transcript.Height).
		Render(b.String())
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the store and
// pins the view to the latest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}

	msgs := m.store.Messages()
	parts := make([]string, 0, len(msgs)+1)
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}

	if m.store.Loading() {
		parts = append(parts, m.spin.View()+m.theme.LoadingText.Render(" analyzing..."))
	}

	m.transcript.SetContent(strings.Join(parts, "\n\n"))
	m.transcript.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	stamp := time.UnixMilli(msg.Timestamp).Format("15:04")
	label := m.theme.SenderLabel.Render(msg.Sender.DisplayName()) +
		" " + m.theme.Timestamp.Render(stamp)

	maxW := m.transcript.Width - 8
	if maxW < 16 {
		maxW = 16
	}

	switch {
	case msg.Sender == model.SenderUser:
		body := m.theme.UserBubble.MaxWidth(maxW).Render(msg.Text)
		return label + "\n" + body

	case msg.IsError():
		body := m.theme.ErrorBubble.MaxWidth(maxW).Render(msg.Error)
		return label + "\n" + body

	default:
		var b strings.Builder
		b.WriteString(msg.Text)
		if len(msg.Emotions) > 0 {
			b.WriteString("\n")
			b.WriteString(m.renderEmotions(msg.Emotions))
		}
		body := m.theme.BotBubble.MaxWidth(maxW).Render(b.String())
		if line := m.renderAnalysis(msg.Analysis); line != "" {
			body += "\n" + line
		}
		return label + "\n" + body
	}
}

// renderEmotions renders one probability bar per label, highest first.
func (m *Model) renderEmotions(emotions map[string]float64) string {
	labels := model.SortedLabels(emotions)
	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		p := emotions[label]
		lines = append(lines, fmt.Sprintf("%s %s %s",
			m.theme.BarLabel.Render(util.PadWidth(label, 10)),
			m.theme.RenderBar(label, p, barWidth),
			m.theme.BarPercent.Render(fmt.Sprintf("%5.1f%%", p*100)),
		))
	}
	return strings.Join(lines, "\n")
}

// renderAnalysis renders the token-importance line under a bot reply
// when analysis display is enabled.
func (m *Model) renderAnalysis(analysis *model.AnalysisData) string {
	if analysis == nil || !m.settings.ShowModelAnalysis {
		return ""
	}

	if len(analysis.TokenScores) == 0 {
		if analysis.Details == "" {
			return ""
		}
		return m.theme.Analysis.Render(analysis.Details)
	}

	tokens := make([]string, 0, len(analysis.TokenScores))
	for _, ts := range analysis.TokenScores {
		if ts.Score >= 0.5 {
			tokens = append(tokens, m.theme.TokenHigh.Render(ts.Token))
		} else {
			tokens = append(tokens, m.theme.TokenLow.Render(ts.Token))
		}
	}
	return m.theme.Analysis.Render(strings.Join(tokens, " "))
}

// =============================================================================
// BANNERS, INPUT, STATUS
// =============================================================================

func (m *Model) viewErrorBanner() string {
	if m.store.LastError() == "" {
		return ""
	}
	return m.theme.ErrorBanner.Width(m.width).Render(m.store.LastError())
}

func (m *Model) viewInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m *Model) viewStatusBar() string {
	if m.statusNote != "" {
		return m.theme.StatusBar.Width(m.width).Render(m.statusNote)
	}

	parts := make([]string, 0, 8)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// SETTINGS OVERLAY
// =============================================================================

func (m *Model) viewSettings() string {
	rows := []struct {
		field settingsField
		name  string
		value string
	}{
		{settingTheme, "Theme", m.settings.Theme},
		{settingModel, "Model", m.settings.ModelType},
		{settingAnalysis, "Show analysis", onOff(m.settings.ShowModelAnalysis)},
		{settingAPIURL, "API URL", m.settings.APIURL},
	}

	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Settings"))
	b.WriteString("\n\n")

	for _, row := range rows {
		style := m.theme.SettingRow
		if row.field == m.settingsRow {
			style = m.theme.SettingSelected
		}

		value := row.value
		if row.field == settingAPIURL && m.editingURL {
			value = m.urlInput.View()
		} else {
			value = m.theme.SettingValue.Render(value)
		}

		b.WriteString(style.Render(util.PadWidth(row.name, 16)))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("Enter toggle/edit · Esc save and close"))

	box := m.theme.OverlayBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
