package transport

import (
	"strings"

	"golang.org/x/text/width"
)

// dropped are removed from every utterance: spaces and the punctuation
// recognizers insert between phrases.
const dropped = " 　,.，．、。"

// Normalizer cleans recognized text before classification.
type Normalizer struct {
	// FoldWidth maps full-width ASCII to half-width and half-width katakana
	// to full-width before punctuation is stripped.
	FoldWidth bool
}

// Normalize returns the cleaned text. The result may be empty.
func (n Normalizer) Normalize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if n.FoldWidth {
		s = width.Fold.String(s)
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(dropped, r) {
			return -1
		}
		return r
	}, s)
}
