// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// =============================================================================
// IDENTIFIER TESTS
// =============================================================================

func TestNewID_UniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID("msg")
		if !strings.HasPrefix(id, "msg_") {
			t.Fatalf("NewID = %q, want msg_ prefix", id)
		}
		if seen[id] {
			t.Fatalf("NewID produced duplicate %q", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSession_SeedGreeting(t *testing.T) {
	s := NewSession("Chat 1")

	if len(s.Messages) != 1 {
		t.Fatalf("new session has %d messages, want 1", len(s.Messages))
	}
	seed := s.Messages[0]
	if seed.Sender != SenderBot {
		t.Errorf("seed sender = %q, want bot", seed.Sender)
	}
	if seed.Error != "" {
		t.Errorf("seed message should not carry an error")
	}
	if s.Timestamp != seed.Timestamp {
		t.Errorf("session timestamp = %d, want seed timestamp %d", s.Timestamp, seed.Timestamp)
	}
	if s.LastMessage != "" {
		t.Errorf("LastMessage = %q, want empty before any user message", s.LastMessage)
	}
}

func TestSession_AppendIsAppendOnly(t *testing.T) {
	s := NewSession("Chat 1")
	initial := s.MessageCount()

	var ids []string
	for i := 0; i < 5; i++ {
		msg := NewUserMessage("message")
		s.Append(msg)
		ids = append(ids, msg.ID)
	}

	if s.MessageCount() != initial+5 {
		t.Fatalf("count = %d, want %d", s.MessageCount(), initial+5)
	}
	for i, id := range ids {
		if s.Messages[initial+i].ID != id {
			t.Errorf("message %d out of order", i)
		}
	}
}

func TestSession_LastMessageTracksUserOnly(t *testing.T) {
	s := NewSession("Chat 1")

	user := NewUserMessage("I am happy")
	s.Append(user)
	if s.LastMessage != "I am happy" {
		t.Fatalf("LastMessage = %q, want user text", s.LastMessage)
	}

	bot := NewBotMessage("Sounds like joy", map[string]float64{"joy": 0.9}, nil)
	s.Append(bot)
	if s.LastMessage != "I am happy" {
		t.Errorf("LastMessage = %q, bot reply must not update the preview", s.LastMessage)
	}
	if s.Timestamp != bot.Timestamp {
		t.Errorf("Timestamp = %d, want latest message timestamp %d", s.Timestamp, bot.Timestamp)
	}
}

// =============================================================================
// TITLE SCAN TESTS
// =============================================================================

func TestNextChatTitle(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"empty collection", nil, "Chat 1"},
		{"no matching titles", []string{"Custom", "Notes"}, "Chat 1"},
		{"gap after deletion", []string{"Chat 1", "Chat 3", "Custom"}, "Chat 4"},
		{"single match", []string{"Chat 7"}, "Chat 8"},
		{"near match ignored", []string{"Chat 2 archived", "chat 9"}, "Chat 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sessions []ChatSession
			for _, title := range tc.titles {
				sessions = append(sessions, ChatSession{ID: NewID("chat"), Title: title})
			}
			if got := NextChatTitle(sessions); got != tc.want {
				t.Errorf("NextChatTitle(%v) = %q, want %q", tc.titles, got, tc.want)
			}
		})
	}
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestSortByRecency_DoesNotMutateInput(t *testing.T) {
	sessions := []ChatSession{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 300},
		{ID: "c", Timestamp: 200},
	}

	sorted := SortByRecency(sessions)

	wantOrder := []string{"b", "c", "a"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].ID, id)
		}
	}
	// Input order preserved.
	if sessions[0].ID != "a" || sessions[1].ID != "b" || sessions[2].ID != "c" {
		t.Error("SortByRecency mutated its input")
	}
}

func TestMostRecent(t *testing.T) {
	if _, ok := MostRecent(nil); ok {
		t.Error("MostRecent(nil) should report false")
	}

	sessions := []ChatSession{
		{ID: "a", Timestamp: 100},
		{ID: "b", Timestamp: 300},
		{ID: "c", Timestamp: 200},
	}
	got, ok := MostRecent(sessions)
	if !ok || got.ID != "b" {
		t.Errorf("MostRecent = %q, want b", got.ID)
	}
}

// =============================================================================
// EXPORT TESTS
// =============================================================================

func TestExportMarkdown(t *testing.T) {
	s := NewSession("Chat 1")
	s.Append(NewUserMessage("I am happy"))
	s.Append(NewBotMessage("Top emotion: joy (90.0%)", map[string]float64{"joy": 0.9, "sadness": 0.1}, nil))
	s.Append(NewErrorMessage("Sorry, I couldn't process that. model unavailable"))

	md := s.ExportMarkdown()
	for _, want := range []string{"# Chat 1", "I am happy", "joy: 90.0%", "sadness: 10.0%", "model unavailable"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	s := NewSession("Chat 1")
	s.Append(NewUserMessage("I am happy"))

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var got ChatSession
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.ID != s.ID || len(got.Messages) != 2 || got.LastMessage != "I am happy" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestSortedLabels(t *testing.T) {
	labels := SortedLabels(map[string]float64{"sadness": 0.1, "joy": 0.9, "anger": 0.1})
	if labels[0] != "joy" {
		t.Errorf("labels[0] = %q, want joy", labels[0])
	}
	// Ties broken alphabetically.
	if labels[1] != "anger" || labels[2] != "sadness" {
		t.Errorf("tie order = %v, want anger before sadness", labels[1:])
	}
}
