// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Bot"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a chat transcript.
//
// For bot messages exactly one of Emotions (successful classification) or
// Error (failed send) is set. User messages always carry Text and never
// Emotions or Error.
type Message struct {
	ID        string `json:"id"`
	Sender    Sender `json:"sender"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds

	// Content
	Text     string             `json:"text,omitempty"`
	Emotions map[string]float64 `json:"emotions,omitempty"`
	Error    string             `json:"error,omitempty"`

	// Optional model introspection attached to successful bot messages.
	Analysis *AnalysisData `json:"analysis,omitempty"`
}

// AnalysisData describes how the model arrived at its prediction.
type AnalysisData struct {
	Type        string       `json:"type"`
	Details     string       `json:"details,omitempty"`
	TokenScores []TokenScore `json:"token_scores,omitempty"`
}

// TokenScore is a single token's importance for the predicted label.
type TokenScore struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// NewUserMessage creates a user message with the given text.
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID("msg"),
		Sender:    SenderUser,
		Text:      text,
		Timestamp: NowMillis(),
	}
}

// NewBotMessage creates a successful bot message carrying a probability
// distribution, a human-readable summary, and optional analysis data.
func NewBotMessage(text string, emotions map[string]float64, analysis *AnalysisData) Message {
	return Message{
		ID:        NewID("msg"),
		Sender:    SenderBot,
		Text:      text,
		Emotions:  emotions,
		Analysis:  analysis,
		Timestamp: NowMillis(),
	}
}

// NewErrorMessage creates a failed bot message. Only the error payload is
// set; a failed send never carries emotions.
func NewErrorMessage(errText string) Message {
	return Message{
		ID:        NewID("msg"),
		Sender:    SenderBot,
		Error:     errText,
		Timestamp: NowMillis(),
	}
}

// SeedGreeting is the single pre-populated bot message every new session
// starts with.
func SeedGreeting() Message {
	return Message{
		ID:        NewID("msg"),
		Sender:    SenderBot,
		Text:      "Hello! Tell me something and I'll try to guess the emotion.",
		Emotions:  map[string]float64{"Info": 1.0},
		Timestamp: NowMillis(),
	}
}

// IsError reports whether this is a failed bot message.
func (m Message) IsError() bool {
	return m.Sender == SenderBot && m.Error != ""
}
