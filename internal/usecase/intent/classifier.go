// Package intent classifies queries into retrieval intents and maps each
// intent to the vector/text weight split used by the hybrid ranker.
package intent

import (
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Marker groups are checked in a fixed priority order; the first group with a
// match wins. A query containing both "what is" and "why" is factual because
// factual markers are checked first.
var markerGroups = []struct {
	intent  domain.Intent
	markers []string
}{
	{domain.IntentFactual, []string{"what is", "define", "when", "who"}},
	{domain.IntentProcedural, []string{"how to", "steps", "process"}},
	{domain.IntentConceptual, []string{"why", "explain", "understand"}},
}

// Classify maps a raw query string to an intent. Pure function; empty or
// whitespace-only input classifies as balanced.
func Classify(query string) domain.Intent {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return domain.IntentBalanced
	}

	joined := " " + strings.Join(tokens, " ") + " "
	for _, group := range markerGroups {
		for _, marker := range group.markers {
			if strings.Contains(joined, " "+marker+" ") {
				return group.intent
			}
		}
	}
	return domain.IntentBalanced
}

// Tokenize lower-cases the text and splits it into alphanumeric tokens,
// treating every other rune as a separator.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		default:
			return true
		}
	})
}
