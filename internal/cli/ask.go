// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moodlens/moodlens-tui/internal/classify"
	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/ui/styles"
)

const askBarWidth = 24

var (
	askLabelStyle = lipgloss.NewStyle().Bold(true)
	askDimStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// HandleAsk classifies a single text and prints the distribution.
func HandleAsk(cfg config.Config, args Args) error {
	text := strings.TrimSpace(args.Query)
	if text == "" {
		return fmt.Errorf("usage: moodlens ask \"some text\"")
	}

	client := classify.NewClient(cfg.Settings.APIURL)
	result, err := client.Classify(context.Background(), text, cfg.Settings.ModelType)
	if err != nil {
		return err
	}

	theme := styles.NewTheme(cfg.Settings.Theme)

	fmt.Println(askLabelStyle.Render(result.SummaryText()))
	fmt.Println(askDimStyle.Render("model: " + result.ModelUsed))
	fmt.Println()

	for _, label := range model.SortedLabels(result.Predictions) {
		p := result.Predictions[label]
		fmt.Printf("%-12s %s %5.1f%%\n",
			label, theme.RenderBar(label, p, askBarWidth), p*100)
	}
	return nil
}
