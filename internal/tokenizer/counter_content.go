package tokenizer

import (
	"strings"

	"github.com/mandalnilabja/sommelier/internal/types"
)

// countContent counts tokens for message content (text or multimodal).
func (t *TiktokenTokenizer) countContent(content types.Content, model string) (int, error) {
	if content.Text != "" {
		return t.CountTokens(content.Text, model)
	}

	total := 0
	for _, part := range content.Parts {
		switch part.Type {
		case types.ContentTypeText:
			tokens, err := t.CountTokens(part.Text, model)
			if err != nil {
				return 0, err
			}
			total += tokens

		case types.ContentTypeImageURL:
			total += t.countImageTokens(part.ImageURL)
		}
	}

	return total, nil
}

// countImageTokens calculates token cost for an image based on OpenAI's rules.
// Without image dimensions, high and auto detail assume the maximum tile count.
func (t *TiktokenTokenizer) countImageTokens(img *types.ImageURL) int {
	if img == nil {
		return 0
	}

	switch strings.ToLower(img.Detail) {
	case "low":
		return imageBaseTokens + (imageLowDetailTiles * imageTileTokens)
	default:
		return imageBaseTokens + (imageHighDetailMax * imageTileTokens)
	}
}
