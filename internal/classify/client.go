// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/moodlens/moodlens-tui/internal/model"
)

// Configuration constants for the classification service client.
const (
	// DefaultTimeout bounds a single classification request.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// The prediction payload is a small JSON object; anything larger
	// indicates a misconfigured endpoint.
	MaxResponseSize = 1 * 1024 * 1024 // 1MB limit
)

// sharedHTTPClient is used for all classification requests.
// Connection pooling reduces TCP handshake overhead when the user
// sends messages in quick succession.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common classification failures.
var (
	// ErrEmptyText indicates an empty input text.
	ErrEmptyText = errors.New("empty input text")

	// ErrInvalidResponse indicates the service returned a 2xx status
	// with a payload missing required fields.
	ErrInvalidResponse = errors.New("invalid classification response")
)

// APIError represents a non-success response from the classification
// service.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("classification error (HTTP %d): %s", e.Status, e.Message)
}

// predictRequest is the JSON body sent to the service.
type predictRequest struct {
	Text      string `json:"text"`
	ModelType string `json:"model_type"`
}

// apiErrorResponse is the error body shape for non-2xx responses.
type apiErrorResponse struct {
	Error string `json:"error"`
}

// rawResult mirrors the service's success payload. Pointer fields
// distinguish absent from zero-valued, which validation needs.
type rawResult struct {
	Predictions      map[string]float64 `json:"predictions"`
	PredictedEmotion *string            `json:"predicted_emotion"`
	Confidence       *float64           `json:"confidence"`
	ModelUsed        *string            `json:"model_used"`
	Analysis         *rawAnalysis       `json:"analysis"`
}

type rawAnalysis struct {
	Type        string             `json:"type"`
	Details     string             `json:"details"`
	TokenScores []model.TokenScore `json:"token_scores"`
}

// Result is a validated classification outcome.
type Result struct {
	// Predictions maps emotion labels to probabilities in [0,1].
	Predictions map[string]float64

	// PredictedEmotion is the label the service ranked highest.
	PredictedEmotion string

	// Confidence is the probability of PredictedEmotion.
	Confidence float64

	// ModelUsed identifies which model produced the prediction.
	ModelUsed string

	// Analysis carries optional model-introspection data.
	Analysis *model.AnalysisData
}

// TopEmotion returns the highest-probability label from Predictions,
// preferring the service's own PredictedEmotion when present.
func (r *Result) TopEmotion() string {
	if r.PredictedEmotion != "" {
		return r.PredictedEmotion
	}

	best := ""
	bestScore := -1.0
	labels := make([]string, 0, len(r.Predictions))
	for label := range r.Predictions {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if r.Predictions[label] > bestScore {
			best = label
			bestScore = r.Predictions[label]
		}
	}
	return best
}

// SummaryText renders a one-line human-readable summary, for example
// "Top emotion: joy (90.0%)".
func (r *Result) SummaryText() string {
	return fmt.Sprintf("Top emotion: %s (%.1f%%)", r.TopEmotion(), r.Confidence*100)
}

// Client talks to the classification service.
//
// The endpoint is mutable at runtime (settings overlay, hot reload)
// while sends run on their own goroutines, so baseURL is read and
// written under mu.
type Client struct {
	mu         sync.Mutex
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(url), "/"),
		httpClient: sharedHTTPClient,
	}
}

// WithHTTPClient sets a custom HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// URL returns the configured endpoint.
func (c *Client) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseURL
}

// SetURL updates the endpoint, for settings changes at runtime.
func (c *Client) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimSuffix(strings.TrimSpace(url), "/")
}

// logRequest logs an API request without exposing the message text.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only, never the body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d (%v)", resp.StatusCode, duration)
}

// Classify sends the text to the service and returns the validated
// result. Exactly one request is issued per call; transient failures
// are returned to the caller, never retried here.
func (c *Client) Classify(ctx context.Context, text, modelType string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(predictRequest{Text: text, ModelType: modelType})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	respBody, err := readResponse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp, respBody)
	}

	return parseResult(respBody)
}

// readResponse reads the body with a hard size cap.
func readResponse(r io.Reader) ([]byte, error) {
	limited := io.LimitReader(r, MaxResponseSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}

// handleErrorResponse converts a non-2xx response into an *APIError.
// The service reports errors as {"error": "..."}; anything else falls
// back to the HTTP status line.
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	return &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

// parseResult decodes and validates the success payload. A missing or
// mistyped field is reported through ErrInvalidResponse; callers treat
// it the same as a transport failure.
func parseResult(body []byte) (*Result, error) {
	var raw rawResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if len(raw.Predictions) == 0 {
		return nil, fmt.Errorf("%w: missing predictions", ErrInvalidResponse)
	}
	if raw.PredictedEmotion == nil {
		return nil, fmt.Errorf("%w: missing predicted_emotion", ErrInvalidResponse)
	}
	if raw.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrInvalidResponse)
	}
	if raw.ModelUsed == nil {
		return nil, fmt.Errorf("%w: missing model_used", ErrInvalidResponse)
	}

	result := &Result{
		Predictions:      raw.Predictions,
		PredictedEmotion: *raw.PredictedEmotion,
		Confidence:       *raw.Confidence,
		ModelUsed:        *raw.ModelUsed,
	}
	if raw.Analysis != nil {
		result.Analysis = &model.AnalysisData{
			Type:        raw.Analysis.Type,
			Details:     raw.Analysis.Details,
			TokenScores: raw.Analysis.TokenScores,
		}
	}
	return result, nil
}
