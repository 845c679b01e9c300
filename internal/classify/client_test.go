// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func TestClassify_Success(t *testing.T) {
	var gotBody predictRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"predictions": {"joy": 0.9, "sadness": 0.1},
			"predicted_emotion": "joy",
			"confidence": 0.9,
			"model_used": "bert"
		}`))
	})

	result, err := client.Classify(context.Background(), "I am happy", "bert")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if gotBody.Text != "I am happy" || gotBody.ModelType != "bert" {
		t.Errorf("request body = %+v", gotBody)
	}
	if result.Predictions["joy"] != 0.9 {
		t.Errorf("joy = %v, want 0.9", result.Predictions["joy"])
	}
	if result.TopEmotion() != "joy" {
		t.Errorf("top emotion = %q, want joy", result.TopEmotion())
	}

	summary := result.SummaryText()
	if !strings.Contains(summary, "joy") || !strings.Contains(summary, "90.0%") {
		t.Errorf("summary = %q, want joy and 90.0%%", summary)
	}
}

func TestClassify_AnalysisPassthrough(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"predictions": {"anger": 0.8},
			"predicted_emotion": "anger",
			"confidence": 0.8,
			"model_used": "naive_bayes",
			"analysis": {
				"type": "token_importance",
				"details": "per-token attribution",
				"token_scores": [{"token": "furious", "score": 0.72}]
			}
		}`))
	})

	result, err := client.Classify(context.Background(), "so furious", "naive_bayes")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Analysis == nil {
		t.Fatal("analysis dropped")
	}
	if result.Analysis.Type != "token_importance" {
		t.Errorf("type = %q", result.Analysis.Type)
	}
	if len(result.Analysis.TokenScores) != 1 || result.Analysis.TokenScores[0].Token != "furious" {
		t.Errorf("token scores = %+v", result.Analysis.TokenScores)
	}
}

func TestClassify_ErrorBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model unavailable"}`))
	})

	_, err := client.Classify(context.Background(), "hello", "bert")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "model unavailable") {
		t.Errorf("message = %q, want the service's error text", apiErr.Message)
	}
}

func TestClassify_ErrorBodyFallback(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"html body", http.StatusBadGateway, "<html>nginx</html>", "502 Bad Gateway"},
		{"empty error field", http.StatusInternalServerError, `{"error": ""}`, "500 Internal Server Error"},
		{"no body", http.StatusNotFound, "", "404 Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Classify(context.Background(), "hello", "bert")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if apiErr.Message != tt.want {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestClassify_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "hello world"},
		{"missing predictions", `{"predicted_emotion":"joy","confidence":0.9,"model_used":"bert"}`},
		{"empty predictions", `{"predictions":{},"predicted_emotion":"joy","confidence":0.9,"model_used":"bert"}`},
		{"missing predicted_emotion", `{"predictions":{"joy":0.9},"confidence":0.9,"model_used":"bert"}`},
		{"missing confidence", `{"predictions":{"joy":0.9},"predicted_emotion":"joy","model_used":"bert"}`},
		{"missing model_used", `{"predictions":{"joy":0.9},"predicted_emotion":"joy","confidence":0.9}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Classify(context.Background(), "hello", "bert")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("err = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestClassify_EmptyTextRejectedLocally(t *testing.T) {
	calls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.Classify(context.Background(), "   ", "bert")
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
	if calls != 0 {
		t.Errorf("server saw %d calls, want 0", calls)
	}
}

func TestClassify_SingleRequestPerCall(t *testing.T) {
	calls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, _ = client.Classify(context.Background(), "hello", "bert")
	if calls != 1 {
		t.Errorf("server saw %d calls, want exactly 1 (no retries)", calls)
	}
}

// Exercises runtime endpoint changes racing in-flight sends; run with
// -race to catch unsynchronized access to the endpoint field.
func TestClassify_ConcurrentSetURL(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"predictions": {"joy": 1.0},
			"predicted_emotion": "joy",
			"confidence": 1.0,
			"model_used": "bert"
		}`))
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := client.Classify(context.Background(), "hello", "bert"); err != nil {
				t.Errorf("Classify: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			client.SetURL(srv.URL)
		}
	}()
	wg.Wait()

	if client.URL() != srv.URL {
		t.Errorf("url = %q, want %q", client.URL(), srv.URL)
	}
}

func TestTopEmotion_FallbackScan(t *testing.T) {
	r := &Result{Predictions: map[string]float64{"fear": 0.2, "joy": 0.7, "anger": 0.1}}
	if got := r.TopEmotion(); got != "joy" {
		t.Errorf("top emotion = %q, want joy", got)
	}
}
