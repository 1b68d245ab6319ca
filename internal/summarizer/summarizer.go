package summarizer

import "context"

// Summarizer produces a short Japanese synopsis for one record.
type Summarizer interface {
	Summarize(ctx context.Context, title, abstract string) (string, error)
}

const fallbackRunes = 200

// Fallback is the deterministic summary used when the generative service
// is unavailable: the leading part of the abstract, or an empty string
// when there is no abstract to truncate. Counted in runes so Japanese
// abstracts are not cut mid-character.
func Fallback(abstract string) string {
	runes := []rune(abstract)
	if len(runes) <= fallbackRunes {
		return abstract
	}
	return string(runes[:fallbackRunes])
}
