package rank

import (
	"strings"
	"time"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/usecase/intent"
)

const (
	boostDefinition   = 1.2
	boostKeyConcept   = 1.2
	boostExample      = 1.15
	boostSectionTitle = 1.1
	boostRecency      = 1.05

	// Full recency boost for documents updated within recencyHold; the boost
	// then decays linearly to 1.0 at recencyWindow.
	recencyHold   = 3 * 24 * time.Hour
	recencyWindow = 7 * 24 * time.Hour

	significantWordMinLen = 4
)

// Query phrases that signal the caller wants example content.
var exampleMarkers = []string{"example", "sample", "show me", "instance"}

// Common words too generic to count as a title/query overlap signal.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "before": {}, "being": {}, "between": {},
	"could": {}, "does": {}, "from": {}, "have": {}, "into": {},
	"more": {}, "most": {}, "other": {}, "over": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {},
	"them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "under": {}, "very": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {},
}

// Booster applies metadata-driven score boosts. Boosts are multiplicative
// and independent; every factor is at least 1.0, so a final score never
// drops below its combined score.
type Booster struct {
	clock func() time.Time
}

// NewBooster creates a booster using wall-clock time for recency.
func NewBooster() *Booster {
	return &Booster{clock: time.Now}
}

// WithClock overrides the time source. Test hook.
func (b *Booster) WithClock(clock func() time.Time) *Booster {
	b.clock = clock
	return b
}

// Apply computes each result's boost factor against the query text and
// updates its final score in place.
func (b *Booster) Apply(results []domain.ScoredResult, queryText string) {
	lowerQuery := strings.ToLower(queryText)
	queryWords := significantWords(queryText)
	now := b.clock()

	for i := range results {
		r := &results[i]
		factor := 1.0

		switch r.Meta.ChunkType {
		case "definition":
			factor *= boostDefinition
		case "key_concept":
			factor *= boostKeyConcept
		case "example":
			if containsExampleMarker(lowerQuery) {
				factor *= boostExample
			}
		}

		if titleSharesWord(r.Meta.SectionTitle, queryWords) {
			factor *= boostSectionTitle
		}

		factor *= recencyFactor(now, r.Meta.UpdatedAt)

		r.BoostFactor = factor
		r.FinalScore = r.CombinedScore * factor
	}
}

func containsExampleMarker(lowerQuery string) bool {
	for _, marker := range exampleMarkers {
		if strings.Contains(lowerQuery, marker) {
			return true
		}
	}
	return false
}

// significantWords returns the lower-cased words of text long enough to
// carry meaning, with stopwords removed.
func significantWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, tok := range intent.Tokenize(text) {
		if len(tok) < significantWordMinLen {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		words[tok] = struct{}{}
	}
	return words
}

func titleSharesWord(title string, queryWords map[string]struct{}) bool {
	if title == "" || len(queryWords) == 0 {
		return false
	}
	for _, tok := range intent.Tokenize(title) {
		if len(tok) < significantWordMinLen {
			continue
		}
		if _, ok := queryWords[tok]; ok {
			return true
		}
	}
	return false
}

// recencyFactor returns the freshness multiplier for a document updated at
// updatedAt: the full boost within recencyHold, decaying linearly to 1.0 at
// recencyWindow, and exactly 1.0 beyond it.
func recencyFactor(now, updatedAt time.Time) float64 {
	if updatedAt.IsZero() {
		return 1.0
	}
	age := now.Sub(updatedAt)
	if age < 0 {
		age = 0
	}
	if age >= recencyWindow {
		return 1.0
	}
	if age <= recencyHold {
		return boostRecency
	}
	frac := float64(recencyWindow-age) / float64(recencyWindow-recencyHold)
	return 1.0 + (boostRecency-1.0)*frac
}
