package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devdesk/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: ts.URL + "/"}, nil)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(Config{}, nil)
	if c.Configured() {
		t.Fatal("client without key should not be configured")
	}
	if _, err := c.ReproductionSteps(context.Background(), "crash", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
	var nilClient *Client
	if nilClient.Configured() {
		t.Error("nil client should not be configured")
	}
}

func TestReproductionSteps(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  1. Open app\n2. Crash  "}}]}`))
	})

	steps, err := c.ReproductionSteps(context.Background(), "App crashes", "")
	if err != nil {
		t.Fatalf("steps: %v", err)
	}
	if steps != "1. Open app\n2. Crash" {
		t.Errorf("steps = %q", steps)
	}
	if got.Model != DefaultModel || got.MaxTokens != 500 || len(got.Messages) != 2 {
		t.Errorf("request = %+v", got)
	}
	if !strings.Contains(got.Messages[1].Content, "Title: App crashes") || !strings.Contains(got.Messages[1].Content, noDescription) {
		t.Errorf("prompt = %q", got.Messages[1].Content)
	}
}

func TestSubtasks_EmptyChoicesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	out, err := c.Subtasks(context.Background(), "Ship release", "tag and publish")
	if err != nil {
		t.Fatalf("subtasks: %v", err)
	}
	if out != "Unable to generate subtasks." {
		t.Errorf("out = %q", out)
	}
}

func TestUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})
	_, err := c.Suggestion(context.Background(), models.ItemStats{Total: 1})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if ue.StatusCode != http.StatusUnauthorized || ue.Message != "Incorrect API key provided" {
		t.Errorf("upstream error = %+v", ue)
	}
}

func TestUpstreamError_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: url}, nil)
	_, err := c.Subtasks(context.Background(), "x", "")
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Err == nil {
		t.Fatalf("err = %v, want transport UpstreamError", err)
	}
}
