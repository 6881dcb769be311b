package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func candidates(texts ...string) map[string]any {
	parts := make([]map[string]string, 0, len(texts))
	for _, s := range texts {
		parts = append(parts, map[string]string{"text": s})
	}
	return map[string]any{
		"candidates": []map[string]any{{"content": map[string]any{"parts": parts}}},
	}
}

func newTestClient(url string) *Client {
	c := NewClient(url, "test-key", "gemini-test", 5*time.Second)
	c.backoff = time.Millisecond
	return c
}

// TestGenerate verifies the request path, key, body and response extraction.
func TestGenerate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("x-goog-api-key = %q, want test-key", got)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none", r.URL.RawQuery)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "make a workout" {
			t.Errorf("request = %+v", req)
		}
		writeTestJSON(t, w, candidates("**Warm-up**\n", "- Jog 5 min"))
	}))
	defer ts.Close()

	text, err := newTestClient(ts.URL).Generate(context.Background(), "make a workout")
	if err != nil {
		t.Fatal(err)
	}
	if text != "**Warm-up**\n- Jog 5 min" {
		t.Errorf("text = %q", text)
	}
}

// TestGenerateEmpty verifies a response without candidates is ErrEmptyResponse.
func TestGenerateEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(t, w, map[string]any{"candidates": []any{}})
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Generate(context.Background(), "p")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
}

// TestGenerateRetries verifies 503 responses are retried until success.
func TestGenerateRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeTestJSON(t, w, candidates("ok"))
	}))
	defer ts.Close()

	text, err := newTestClient(ts.URL).Generate(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" || calls.Load() != 3 {
		t.Errorf("text = %q after %d calls, want ok after 3", text, calls.Load())
	}
}

// TestGenerateNoRetryOnClientError verifies 4xx errors other than 429 fail immediately.
func TestGenerateNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"API key not valid"}}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	if _, err := newTestClient(ts.URL).Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

// TestGenerateMissingKey verifies no request is made without a key.
func TestGenerateMissingKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", "m", time.Second)
	if _, err := c.Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if k := c.WithAPIKey("user-key"); k.apiKey != "user-key" || c.apiKey != "" {
		t.Error("WithAPIKey should copy the client")
	}
}

// TestGenerateTransportErrorHidesKey verifies a failed request does not put
// the API key into the returned error.
func TestGenerateTransportErrorHidesKey(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	c := NewClient(addr, "secret-user-key", "gemini-test", time.Second)
	_, err := c.Generate(context.Background(), "make a workout")
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if strings.Contains(err.Error(), "secret-user-key") {
		t.Errorf("error leaks key: %v", err)
	}
}
