// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/util"
)

// ExportCmd writes the session transcript as Markdown into dir.
func ExportCmd(sess model.ChatSession, dir string) tea.Cmd {
	return func() tea.Msg {
		name := fmt.Sprintf("%s-%s.md",
			sanitizeFilename(sess.Title),
			time.Now().Format("20060102-150405"))
		path := filepath.Join(dir, name)

		err := util.AtomicWriteFile(path, []byte(sess.ExportMarkdown()), 0o644)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// sanitizeFilename keeps letters, digits, dashes and underscores.
func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "chat"
	}
	return b.String()
}
