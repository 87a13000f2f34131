package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mandalnilabja/sommelier/internal/provider"
	"github.com/mandalnilabja/sommelier/internal/types"
)

func newRequest() *types.ChatCompletionRequest {
	return &types.ChatCompletionRequest{
		Model: "gpt-4o-mini",
		Messages: []json.RawMessage{
			json.RawMessage(`{"role":"system","content":"base"}`),
			json.RawMessage(`{"role":"user","content":"hola"}`),
		},
	}
}

func TestComplete_SendsExpectedRequest(t *testing.T) {
	var (
		gotMethod string
		gotAuth   string
		gotType   string
		gotBody   types.ChatCompletionRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","model":"gpt-4o-mini-2024-07-18","usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`))
	}))
	defer srv.Close()

	p := New(srv.URL, "sk-test")
	result, err := p.Complete(context.Background(), newRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer credential, got %q", gotAuth)
	}
	if gotType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotType)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 2 {
		t.Errorf("expected 2 messages upstream, got %d", len(gotBody.Messages))
	}

	if !result.OK() {
		t.Errorf("expected OK result, got status %d", result.StatusCode)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 5 || result.TotalTokens != 17 {
		t.Errorf("unexpected usage: %+v", result)
	}
	if result.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("expected upstream model, got %q", result.Model)
	}
}

func TestComplete_UpstreamErrorIsNotAnError(t *testing.T) {
	body := `{"error":{"message":"Rate limit reached","type":"requests"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	result, err := New(srv.URL, "sk-test").Complete(context.Background(), newRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", result.StatusCode)
	}
	if string(result.Body) != body {
		t.Errorf("expected body relayed verbatim, got %s", result.Body)
	}
	if result.ErrorMessage != "Rate limit reached" {
		t.Errorf("expected error message extracted, got %q", result.ErrorMessage)
	}
}

func TestComplete_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "sk-test").Complete(context.Background(), newRequest())
	if !errors.Is(err, provider.ErrUpstreamBody) {
		t.Errorf("expected ErrUpstreamBody, got %v", err)
	}
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, "sk-test").Complete(context.Background(), newRequest())
	if err == nil {
		t.Error("expected error for closed upstream")
	}
}

func TestWithHTTPClient(t *testing.T) {
	c := &http.Client{}
	p := New("https://example.test", "k", WithHTTPClient(c))
	if p.client != c {
		t.Error("expected custom client to be used")
	}
	if p.Name() != "openai" {
		t.Errorf("expected name openai, got %q", p.Name())
	}
}
