package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteSendsSingleUserMessage(t *testing.T) {
	t.Parallel()

	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	})

	c := New(Options{APIKey: "secret", BaseURL: srv.URL + "/v1/"})
	text, err := c.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "hello" {
		t.Fatalf("text: %q", text)
	}
	if auth != "Bearer secret" {
		t.Fatalf("auth header: %q", auth)
	}
	if got.Model != DefaultModel {
		t.Fatalf("model: %q", got.Model)
	}
	if got.Temperature < 0.69 || got.Temperature > 0.71 {
		t.Fatalf("temperature: %v", got.Temperature)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "analyze this" {
		t.Fatalf("messages: %+v", got.Messages)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  "}}]}`))
	})

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL + "/v1"}).Complete(context.Background(), "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL + "/v1"}).Complete(context.Background(), "x")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	_, err := New(Options{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "custom"}).Complete(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
