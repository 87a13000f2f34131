// Package tokenizer estimates prompt tokens for the assembled upstream request.
// The estimate is used for usage logging when upstream omits its usage block.
package tokenizer

import (
	"encoding/hex"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/crypto/blake2b"

	"github.com/mandalnilabja/sommelier/internal/types"
)

// Tokenizer counts tokens for chat messages.
type Tokenizer interface {
	// CountTokens counts tokens in a text string for a given model.
	CountTokens(text string, model string) (int, error)

	// CountMessages counts tokens for a slice of messages.
	CountMessages(messages []types.Message, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingO200kBase  = "o200k_base"  // GPT-4o, o1 models
)

// modelEncoding pairs a prefix with its encoding.
type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings lists model prefixes and their encodings.
// Ordered so that longer prefixes match first.
var modelEncodings = []modelEncoding{
	{"text-embedding", EncodingCL100kBase},
	{"gpt-4o", EncodingO200kBase}, // Must come before "gpt-4"
	{"gpt-3.5", EncodingCL100kBase},
	{"gpt-4", EncodingCL100kBase},
	{"chatgpt", EncodingO200kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
}

// TiktokenTokenizer implements Tokenizer using tiktoken-go.
// Per-text counts are memoised: the base prompt and pins repeat on every request.
type TiktokenTokenizer struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
	counts    *ristretto.Cache[string, int]
}

// New creates a new TiktokenTokenizer.
func New() *TiktokenTokenizer {
	counts, err := ristretto.NewCache(&ristretto.Config[string, int]{
		NumCounters: 1e5,
		MaxCost:     1 << 14,
		BufferItems: 64,
	})
	if err != nil {
		counts = nil // counting still works, just uncached
	}

	return &TiktokenTokenizer{
		encodings: make(map[string]*tiktoken.Tiktoken),
		counts:    counts,
	}
}

// Close releases the count cache.
func (t *TiktokenTokenizer) Close() {
	if t.counts != nil {
		t.counts.Close()
	}
}

// getEncoding returns the tiktoken encoding for a model, with caching.
func (t *TiktokenTokenizer) getEncoding(model string) (*tiktoken.Tiktoken, error) {
	encodingName := t.resolveEncoding(model)

	t.mu.RLock()
	enc, ok := t.encodings[encodingName]
	t.mu.RUnlock()
	if ok {
		return enc, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = t.encodings[encodingName]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	t.encodings[encodingName] = enc
	return enc, nil
}

// resolveEncoding determines the encoding name for a model.
func (t *TiktokenTokenizer) resolveEncoding(model string) string {
	modelLower := strings.ToLower(model)

	for _, me := range modelEncodings {
		if strings.HasPrefix(modelLower, me.prefix) {
			return me.encoding
		}
	}

	// Default to cl100k_base for unknown models
	return EncodingCL100kBase
}

// countKey derives the cache key for a text under an encoding.
func countKey(encoding, text string) string {
	sum := blake2b.Sum256([]byte(text))
	return encoding + ":" + hex.EncodeToString(sum[:])
}

// CountTokens counts tokens in a text string for a given model.
func (t *TiktokenTokenizer) CountTokens(text string, model string) (int, error) {
	if text == "" {
		return 0, nil
	}

	key := countKey(t.resolveEncoding(model), text)
	if t.counts != nil {
		if n, ok := t.counts.Get(key); ok {
			return n, nil
		}
	}

	enc, err := t.getEncoding(model)
	if err != nil {
		return 0, err
	}
	n := len(enc.Encode(text, nil, nil))

	if t.counts != nil {
		t.counts.Set(key, n, 1)
	}
	return n, nil
}
