package moderation

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// LangUnknown is the sentinel returned when no language can be detected at
// all (empty text, or no recognizable script). Unknown text routes to the
// multilingual classifier: scoring non-primary-language content with the
// primary-tuned model under-scores it, so the conservative route is the
// multilingual one.
const LangUnknown = "unknown"

// DefaultPrimaryLanguage is the ISO 639-3 code of the language the primary
// toxicity model is tuned for.
const DefaultPrimaryLanguage = "eng"

// DetectLanguage returns the ISO 639-3 code of the dominant language of text,
// or LangUnknown. The detector's best guess is accepted as-is: the trigram
// confidence gate rejects most short chat messages, which are the dominant
// input here, and routing those away from the primary model would starve the
// primary/canary path. Detection is best-effort and never fails hard.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}
	info := whatlanggo.Detect(text)
	code := whatlanggo.LangToString(info.Lang)
	if code == "" {
		return LangUnknown
	}
	return code
}
