// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/controller"
	"github.com/moodlens/moodlens-tui/internal/session"
	"github.com/moodlens/moodlens-tui/internal/storage"
	"github.com/moodlens/moodlens-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS STATES
// =============================================================================

// focusArea identifies which part of the view receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
	focusRename
	focusSettings
)

// settingsField indexes the rows of the settings overlay.
type settingsField int

const (
	settingTheme settingsField = iota
	settingModel
	settingAnalysis
	settingAPIURL
	settingsFieldCount
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model for the chat view.
type Model struct {
	store   *session.Store
	ctrl    *controller.Controller
	gateway *storage.Gateway
	cfg     config.Config

	theme    *styles.Theme
	settings config.Settings
	keys     KeyMap

	input       textarea.Model
	transcript  viewport.Model
	spin        spinner.Model
	renameInput textinput.Model
	urlInput    textinput.Model

	focus        focusArea
	sidebarOpen  bool
	sidebarIndex int
	settingsRow  settingsField
	editingURL   bool

	width  int
	height int
	ready  bool

	statusNote string
}

// New creates the chat view over an initialized session store.
func New(store *session.Store, ctrl *controller.Controller, gateway *storage.Gateway, cfg config.Config) *Model {
	theme := styles.NewTheme(cfg.Settings.Theme)

	input := textarea.New()
	input.Placeholder = "Tell me something..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.ShowLineNumbers = false
	input.SetHeight(1)
	input.KeyMap.InsertNewline.SetEnabled(false)
	styleInput(&input, theme)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	rename := textinput.New()
	rename.CharLimit = 80
	rename.Prompt = "rename: "

	url := textinput.New()
	url.CharLimit = 400
	url.Prompt = ""

	return &Model{
		store:       store,
		ctrl:        ctrl,
		gateway:     gateway,
		cfg:         cfg,
		theme:       theme,
		settings:    cfg.Settings,
		keys:        DefaultKeyMap(),
		input:       input,
		spin:        spin,
		renameInput: rename,
		urlInput:    url,
		sidebarOpen: true,
	}
}

// Init starts cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Settings returns the view's current settings.
func (m *Model) Settings() config.Settings {
	return m.settings
}

// applySettings installs new settings into the view, the controller,
// and the theme.
func (m *Model) applySettings(s config.Settings) {
	s.Normalize()
	m.settings = s
	m.ctrl.UpdateSettings(s)
	m.theme = styles.NewTheme(s.Theme)
	m.spin.Style = m.theme.Spinner
	styleInput(&m.input, m.theme)
	if m.ready {
		m.refreshTranscript()
	}
}

// styleInput applies the theme's prompt and placeholder styles to the
// composer textarea.
func styleInput(input *textarea.Model, theme *styles.Theme) {
	input.FocusedStyle.Prompt = theme.InputPrompt
	input.FocusedStyle.Placeholder = theme.InputPlaceholder
	input.BlurredStyle.Prompt = theme.InputPrompt
	input.BlurredStyle.Placeholder = theme.InputPlaceholder
}

// saveSettings persists the current settings and applies them.
func (m *Model) saveSettings() {
	m.gateway.SaveSettings(m.settings)
	m.applySettings(m.settings)
}
