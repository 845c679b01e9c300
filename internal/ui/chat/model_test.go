// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodlens/moodlens-tui/internal/classify"
	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/controller"
	"github.com/moodlens/moodlens-tui/internal/session"
	"github.com/moodlens/moodlens-tui/internal/storage"
)

func newTestModel(t *testing.T) (*Model, *session.Store) {
	t.Helper()
	cfg := *config.Default()
	cfg.DataDir = t.TempDir()

	gw := storage.NewGateway(storage.NewMemKV(), cfg.Settings)
	store := session.New(gw)
	store.Initialize()

	ctrl := controller.New(store, classify.NewClient(cfg.Settings.APIURL), cfg.Settings)
	m := New(store, ctrl, gw, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

func TestSubmitDisabledWhileLoading(t *testing.T) {
	m, store := newTestModel(t)
	m.input.SetValue("hello")
	store.SetLoading(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("submit should be a no-op while a send is running")
	}
	if m.input.Value() != "hello" {
		t.Error("input should keep its text when submit is disabled")
	}
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	m, _ := newTestModel(t)
	m.input.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not produce a send command")
	}
}

func TestSubmitStartsSend(t *testing.T) {
	m, store := newTestModel(t)
	m.input.SetValue("I am happy")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should produce a send command")
	}
	if !store.Loading() {
		t.Error("loading should be set as soon as the send starts")
	}
	if m.input.Value() != "" {
		t.Error("input should clear on submit")
	}
}

func TestViewShowsErrorBanner(t *testing.T) {
	m, store := newTestModel(t)
	store.SetError("No chat selected. Create or select a chat first.")
	m.refreshTranscript()

	if !strings.Contains(m.View(), "No chat selected") {
		t.Error("view should render the transient error banner")
	}
}

func TestViewRendersGreetingAndBars(t *testing.T) {
	m, _ := newTestModel(t)
	m.refreshTranscript()
	view := m.View()

	if !strings.Contains(view, "Hello! Tell me something") {
		t.Error("view should show the seed greeting")
	}
	if !strings.Contains(view, "Info") {
		t.Error("view should show the greeting's emotion label")
	}
}

func TestSettingsOverlayToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.focus != focusSettings {
		t.Fatal("ctrl+s should open the settings overlay")
	}
	if !strings.Contains(m.View(), "Settings") {
		t.Error("overlay should render")
	}

	// Toggle theme and close.
	before := m.settings.Theme
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.settings.Theme == before {
		t.Error("enter should toggle the theme row")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusInput {
		t.Error("esc should close the overlay")
	}

	// Settings were persisted through the gateway.
	persisted := m.gateway.LoadSettings()
	if persisted.Theme == before {
		t.Error("closing the overlay should persist the toggled theme")
	}
}

func TestInputStylesFollowTheme(t *testing.T) {
	m, _ := newTestModel(t)

	if !m.input.FocusedStyle.Prompt.GetBold() {
		t.Error("composer prompt should carry the theme's bold prompt style")
	}
	if !m.input.FocusedStyle.Placeholder.GetItalic() {
		t.Error("composer placeholder should carry the theme's italic style")
	}

	// Theme switches rebuild the styles; the composer must pick them up.
	settings := m.Settings()
	settings.Theme = config.ThemeLight
	m.applySettings(settings)
	if !m.input.BlurredStyle.Prompt.GetBold() {
		t.Error("composer prompt style lost after theme switch")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chat 1", "chat-1"},
		{"Standup / Notes!", "standup--notes"},
		{"***", "chat"},
		{"MiXeD Case", "mixed-case"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
