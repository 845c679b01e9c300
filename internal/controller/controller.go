// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/moodlens/moodlens-tui/internal/classify"
	"github.com/moodlens/moodlens-tui/internal/config"
	"github.com/moodlens/moodlens-tui/internal/model"
	"github.com/moodlens/moodlens-tui/internal/session"
)

// Error variables for send preconditions.
var (
	// ErrEmptyInput indicates the text was empty after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoSession indicates no chat session is selected.
	ErrNoSession = errors.New("no active session")

	// ErrSendInFlight indicates a send is already running for the
	// session. Concurrent sends per session are rejected, never
	// queued.
	ErrSendInFlight = errors.New("send already in flight")
)

// noSessionNotice is surfaced through the transient error slot when a
// send arrives with no chat selected.
const noSessionNotice = "No chat selected. Create or select a chat first."

// failurePrefix opens every bot-side failure message.
const failurePrefix = "Sorry, I couldn't process that. "

// Controller drives message sends against the classification service.
type Controller struct {
	mu       sync.Mutex
	store    *session.Store
	client   *classify.Client
	settings config.Settings

	// inflight maps a session id to the token of its running send.
	inflight map[string]string
}

// New creates a controller over the given store and client.
func New(store *session.Store, client *classify.Client, settings config.Settings) *Controller {
	return &Controller{
		store:    store,
		client:   client,
		settings: settings,
		inflight: make(map[string]string),
	}
}

// Settings returns the controller's current settings.
func (c *Controller) Settings() config.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings applies new settings, including the endpoint URL.
func (c *Controller) UpdateSettings(s config.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
	c.client.SetURL(s.APIURL)
}

// SendMessage appends the user's text to the active session, issues
// one classification request, and appends the reply (or a failure
// message) to the session the text was sent from, even if the user
// switched sessions while the request was running.
//
// Every send that passes the preconditions adds exactly two messages
// to that session: the user message immediately, and one bot message
// when the request settles. The loading flag is cleared on every path.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	active, ok := c.store.ActiveSession()
	if !ok {
		c.store.SetError(noSessionNotice)
		return ErrNoSession
	}

	// The reply is routed to the session that was active when the
	// user hit send, not whichever is active when it arrives.
	targetID := active.ID

	token, err := c.acquire(targetID)
	if err != nil {
		return err
	}
	defer c.release(targetID, token)

	c.store.AppendMessageTo(targetID, model.NewUserMessage(text))
	c.store.SetLoading(true)
	c.store.ClearError()
	defer c.store.SetLoading(false)

	result, err := c.client.Classify(ctx, text, c.modelType())
	if err != nil {
		failure := failurePrefix + humanMessage(err)
		c.store.AppendMessageTo(targetID, model.NewErrorMessage(failure))
		c.store.SetError(failure)
		return fmt.Errorf("send failed: %w", err)
	}

	bot := model.NewBotMessage(result.SummaryText(), result.Predictions, result.Analysis)
	c.store.AppendMessageTo(targetID, bot)
	return nil
}

// acquire registers an in-flight token for the session, rejecting the
// send if one is already registered.
func (c *Controller) acquire(sessionID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[sessionID]; busy {
		return "", ErrSendInFlight
	}
	token := uuid.NewString()
	c.inflight[sessionID] = token
	return token, nil
}

// release clears the in-flight token if it is still ours.
func (c *Controller) release(sessionID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[sessionID] == token {
		delete(c.inflight, sessionID)
	}
}

func (c *Controller) modelType() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings.ModelType
}

// humanMessage extracts the user-facing part of a send failure. API
// errors already carry the service's own message.
func humanMessage(err error) string {
	var apiErr *classify.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
