package prompt

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/mandalnilabja/sommelier/internal/types"
)

// Builder renders pins and assembles the outbound message list.
// It is safe for concurrent use; only the base prompt may change after
// construction.
type Builder struct {
	basePrompt atomic.Pointer[string]
	locale     Locale
}

// NewBuilder creates a Builder for the given base prompt and locale.
func NewBuilder(basePrompt string, locale Locale) *Builder {
	b := &Builder{locale: ParseLocale(string(locale))}
	b.SetBasePrompt(basePrompt)
	return b
}

// BasePrompt returns the current base prompt.
func (b *Builder) BasePrompt() string {
	return *b.basePrompt.Load()
}

// SetBasePrompt replaces the base prompt for subsequent requests.
func (b *Builder) SetBasePrompt(s string) {
	b.basePrompt.Store(&s)
}

// Locale returns the locale used for rendering.
func (b *Builder) Locale() Locale {
	return b.locale
}

// LanguagePin renders the instruction pinning the reply language.
func (b *Builder) LanguagePin(lang types.Code) string {
	return fmt.Sprintf(b.locale.set().languagePin, b.locale.LanguageName(lang.String()))
}

// PricePin renders the instruction pinning the budget tier.
// The caller decides whether a price-pin is sent at all.
func (b *Builder) PricePin(priceRange types.Code) string {
	return fmt.Sprintf(b.locale.set().pricePin, b.locale.BudgetPhrase(priceRange.String()))
}

// SystemMessages returns the injected system messages in precedence order:
// base prompt, language-pin, then the price-pin when priceRange is set.
func (b *Builder) SystemMessages(lang, priceRange types.Code) []types.Message {
	msgs := []types.Message{
		types.NewSystemMessage(b.BasePrompt()),
		types.NewSystemMessage(b.LanguagePin(lang)),
	}
	if priceRange.IsSet() {
		msgs = append(msgs, types.NewSystemMessage(b.PricePin(priceRange)))
	}
	return msgs
}

// Assemble builds the full outbound list: the system messages followed by the
// caller's history, which is appended unmodified and in original order.
func (b *Builder) Assemble(req *types.RecommendRequest) ([]json.RawMessage, error) {
	system := b.SystemMessages(req.Lang, req.PriceRange)

	out := make([]json.RawMessage, 0, len(system)+len(req.Messages))
	for _, m := range system {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to encode system message: %w", err)
		}
		out = append(out, raw)
	}
	return append(out, req.Messages...), nil
}
