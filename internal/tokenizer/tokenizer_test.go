package tokenizer

import (
	"encoding/json"
	"testing"

	"github.com/mandalnilabja/sommelier/internal/types"
)

// requireEncoding skips the test when tiktoken cannot load its BPE ranks
// (they are fetched on first use).
func requireEncoding(t *testing.T, tok *TiktokenTokenizer, model string) {
	t.Helper()
	if _, err := tok.getEncoding(model); err != nil {
		t.Skipf("encoding for %s unavailable: %v", model, err)
	}
}

func TestNew(t *testing.T) {
	tok := New()
	defer tok.Close()

	if tok.encodings == nil {
		t.Fatal("encodings map is nil")
	}
	if tok.counts == nil {
		t.Fatal("count cache is nil")
	}
}

func TestResolveEncoding(t *testing.T) {
	tok := New()
	defer tok.Close()

	tests := []struct {
		model    string
		expected string
	}{
		{"gpt-4", EncodingCL100kBase},
		{"gpt-4-turbo", EncodingCL100kBase},
		{"gpt-3.5-turbo", EncodingCL100kBase},
		{"gpt-4o", EncodingO200kBase},
		{"gpt-4o-mini", EncodingO200kBase},
		{"GPT-4o-mini", EncodingO200kBase},
		{"o1-mini", EncodingO200kBase},
		{"chatgpt-4o-latest", EncodingO200kBase},
		{"unknown-model", EncodingCL100kBase},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			if result := tok.resolveEncoding(tc.model); result != tc.expected {
				t.Errorf("resolveEncoding(%q) = %q, want %q", tc.model, result, tc.expected)
			}
		})
	}
}

func TestCountKey(t *testing.T) {
	a := countKey(EncodingO200kBase, "hello")
	b := countKey(EncodingO200kBase, "hello")
	c := countKey(EncodingCL100kBase, "hello")
	d := countKey(EncodingO200kBase, "hello!")

	if a != b {
		t.Error("expected identical keys for identical input")
	}
	if a == c {
		t.Error("expected encoding to be part of the key")
	}
	if a == d {
		t.Error("expected different keys for different text")
	}
}

func TestCountTokens_Empty(t *testing.T) {
	tok := New()
	defer tok.Close()

	n, err := tok.CountTokens("", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("CountTokens() error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 tokens, got %d", n)
	}
}

func TestCountTokens(t *testing.T) {
	tok := New()
	defer tok.Close()
	requireEncoding(t, tok, "gpt-4o-mini")

	tests := []struct {
		name     string
		text     string
		minCount int
		maxCount int
	}{
		{"simple text", "Hello, world!", 3, 5},
		{"longer text", "The quick brown fox jumps over the lazy dog.", 8, 12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			count, err := tok.CountTokens(tc.text, "gpt-4o-mini")
			if err != nil {
				t.Fatalf("CountTokens() error: %v", err)
			}
			if count < tc.minCount || count > tc.maxCount {
				t.Errorf("CountTokens() = %d, want between %d and %d", count, tc.minCount, tc.maxCount)
			}
		})
	}
}

func TestCountMessages(t *testing.T) {
	tok := New()
	defer tok.Close()
	requireEncoding(t, tok, "gpt-4o-mini")

	t.Run("empty messages", func(t *testing.T) {
		count, err := tok.CountMessages(nil, "gpt-4o-mini")
		if err != nil {
			t.Fatalf("CountMessages() error: %v", err)
		}
		if count != replyPrimingTokens {
			t.Errorf("expected reply priming only (%d), got %d", replyPrimingTokens, count)
		}
	})

	t.Run("system and user messages", func(t *testing.T) {
		msgs := []types.Message{
			types.NewSystemMessage("You are a sommelier."),
			types.NewTextMessage(types.RoleUser, "Hello!"),
		}
		count, err := tok.CountMessages(msgs, "gpt-4o-mini")
		if err != nil {
			t.Fatalf("CountMessages() error: %v", err)
		}
		if count < 12 || count > 24 {
			t.Errorf("CountMessages() = %d, want between 12 and 24", count)
		}
	})
}

func TestCountPrompt(t *testing.T) {
	tok := New()
	defer tok.Close()
	requireEncoding(t, tok, "gpt-4o-mini")

	raw := []json.RawMessage{
		json.RawMessage(`{"role":"system","content":"You are a sommelier."}`),
		json.RawMessage(`{"role":"user","content":"Hello!"}`),
	}
	fromRaw, err := CountPrompt(tok, raw, "gpt-4o-mini")
	if err != nil {
		t.Fatalf("CountPrompt() error: %v", err)
	}
	fromTyped, err := tok.CountMessages(types.DecodeMessages(raw), "gpt-4o-mini")
	if err != nil {
		t.Fatalf("CountMessages() error: %v", err)
	}
	if fromRaw != fromTyped {
		t.Errorf("expected %d, got %d", fromTyped, fromRaw)
	}
}

func TestCountImageTokens(t *testing.T) {
	tok := New()
	defer tok.Close()

	tests := []struct {
		name     string
		image    *types.ImageURL
		expected int
	}{
		{"nil image", nil, 0},
		{"low detail", &types.ImageURL{URL: "http://example.com/img.jpg", Detail: "low"}, imageBaseTokens + imageLowDetailTiles*imageTileTokens},
		{"high detail", &types.ImageURL{URL: "http://example.com/img.jpg", Detail: "high"}, imageBaseTokens + imageHighDetailMax*imageTileTokens},
		{"no detail specified", &types.ImageURL{URL: "http://example.com/img.jpg"}, imageBaseTokens + imageHighDetailMax*imageTileTokens},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if result := tok.countImageTokens(tc.image); result != tc.expected {
				t.Errorf("countImageTokens() = %d, want %d", result, tc.expected)
			}
		})
	}
}

func TestEncodingCaching(t *testing.T) {
	tok := New()
	defer tok.Close()
	requireEncoding(t, tok, "gpt-4")

	if _, err := tok.CountTokens("hello", "gpt-4"); err != nil {
		t.Fatalf("first CountTokens() error: %v", err)
	}
	if _, err := tok.CountTokens("world", "gpt-3.5-turbo"); err != nil {
		t.Fatalf("second CountTokens() error: %v", err)
	}

	tok.mu.RLock()
	defer tok.mu.RUnlock()
	if len(tok.encodings) != 1 {
		t.Errorf("expected 1 cached encoding, got %d", len(tok.encodings))
	}
}
