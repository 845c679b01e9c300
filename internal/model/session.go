// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/moodlens/moodlens-tui/internal/util"
)

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession is one independent conversation thread.
//
// Timestamp always equals the timestamp of the most recently appended
// message; it is the session's recency marker. LastMessage mirrors the text
// of the most recent user message only - bot replies never update the
// preview.
type ChatSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage"`
	Messages    []Message `json:"messages"`
	Timestamp   int64     `json:"timestamp"` // unix milliseconds
}

// NewSession creates a session containing only the seed greeting message.
func NewSession(title string) ChatSession {
	seed := SeedGreeting()
	return ChatSession{
		ID:          NewID("chat"),
		Title:       title,
		LastMessage: "",
		Messages:    []Message{seed},
		Timestamp:   seed.Timestamp,
	}
}

// Append adds a message to the session, advancing the recency marker and,
// for user messages, the preview text. Messages are append-only; nothing is
// ever reordered or removed.
func (s *ChatSession) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.Timestamp = msg.Timestamp
	if msg.Sender == SenderUser {
		s.LastMessage = msg.Text
	}
}

// MessageCount returns the number of messages in the session.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// Preview returns a truncated preview for list display: the last user
// message, or the title when nothing has been sent yet.
func (s *ChatSession) Preview(maxLen int) string {
	text := s.LastMessage
	if text == "" {
		text = s.Title
	}
	text = strings.ReplaceAll(text, "\n", " ")
	return util.TruncateRunes(text, maxLen)
}

// =============================================================================
// COLLECTION HELPERS
// =============================================================================

// chatTitlePattern matches default session titles of the form "Chat N".
var chatTitlePattern = regexp.MustCompile(`^Chat (\d+)$`)

// NextChatTitle computes a fresh default title by scanning existing titles
// matching "Chat N" and taking one more than the maximum N found. Falls back
// to "Chat 1" when none match, so default titles stay distinct even after
// deletions.
func NextChatTitle(sessions []ChatSession) string {
	max := 0
	for _, s := range sessions {
		m := chatTitlePattern.FindStringSubmatch(s.Title)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return "Chat " + strconv.Itoa(max+1)
}

// SortByRecency returns a copy of the sessions sorted most recent first.
// Storage order is unspecified; display order is always derived at read
// time.
func SortByRecency(sessions []ChatSession) []ChatSession {
	sorted := make([]ChatSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return sorted
}

// MostRecent returns the session with the maximum timestamp, or false when
// the collection is empty.
func MostRecent(sessions []ChatSession) (ChatSession, bool) {
	if len(sessions) == 0 {
		return ChatSession{}, false
	}
	best := sessions[0]
	for _, s := range sessions[1:] {
		if s.Timestamp > best.Timestamp {
			best = s
		}
	}
	return best, true
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportMarkdown renders the session as a Markdown transcript.
func (s *ChatSession) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + s.Title + "\n\n")
	sb.WriteString("Updated: " + time.UnixMilli(s.Timestamp).Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range s.Messages {
		when := time.UnixMilli(msg.Timestamp).Format("15:04")
		sb.WriteString("**" + msg.Sender.DisplayName() + "** (" + when + "):\n\n")

		switch {
		case msg.Error != "":
			sb.WriteString("_" + msg.Error + "_\n")
		default:
			if msg.Text != "" {
				sb.WriteString(msg.Text + "\n")
			}
			for _, label := range SortedLabels(msg.Emotions) {
				sb.WriteString("- " + label + ": " +
					strconv.FormatFloat(msg.Emotions[label]*100, 'f', 1, 64) + "%\n")
			}
		}
		sb.WriteString("\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the session as pretty-printed JSON.
func (s *ChatSession) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// SortedLabels returns emotion labels ordered by descending probability,
// ties broken alphabetically for stable output.
func SortedLabels(emotions map[string]float64) []string {
	labels := make([]string, 0, len(emotions))
	for label := range emotions {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if emotions[labels[i]] != emotions[labels[j]] {
			return emotions[labels[i]] > emotions[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
