package xai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testRequest() *ChatCompletionRequest {
	return &ChatCompletionRequest{
		Model: "grok-4-1-fast-non-reasoning",
		Messages: []ChatMessage{{
			Role:    "user",
			Content: []ContentPart{TextPart("describe this")},
		}},
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

func TestChatCompletionSendsBearerAndPath(t *testing.T) {
	var gotPath, gotAuth, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	resp, err := c.ChatCompletion(context.Background(), "test-key", testRequest())
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("Wrong path: %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Wrong authorization header: %s", gotAuth)
	}
	if gotType != "application/json" {
		t.Fatalf("Wrong content type: %s", gotType)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "ok" {
		t.Fatalf("Wrong response: %+v", resp)
	}
}

func TestChatCompletionStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ChatCompletion(context.Background(), "test-key", testRequest())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Expected request failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("Error does not reference the status: %v", err)
	}
}

func TestChatCompletionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, time.Second)
	_, err := c.ChatCompletion(context.Background(), "test-key", testRequest())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Expected request failure, got %v", err)
	}
}

func TestChatCompletionMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ChatCompletion(context.Background(), "test-key", testRequest())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Expected malformed response error, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("Wrong default base URL: %s", c.BaseURL())
	}
	c = NewClient("https://example.com/v1/", time.Second)
	if c.BaseURL() != "https://example.com/v1" {
		t.Fatalf("Trailing slash not trimmed: %s", c.BaseURL())
	}
}
