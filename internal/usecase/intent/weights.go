package intent

import (
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Fixed weight policy per intent. Every pair sums to 1.0.
var weightTable = map[domain.Intent]domain.WeightPair{
	domain.IntentFactual:    {Vector: 0.4, Text: 0.6},
	domain.IntentConceptual: {Vector: 0.8, Text: 0.2},
	domain.IntentProcedural: {Vector: 0.6, Text: 0.4},
	domain.IntentBalanced:   {Vector: 0.7, Text: 0.3},
}

// WeightsFor returns the vector/text weight split for an intent. The intent
// set is closed; an unknown value is a programming error and panics.
func WeightsFor(it domain.Intent) domain.WeightPair {
	w, ok := weightTable[it]
	if !ok {
		panic(fmt.Sprintf("intent: no weights for %q", it))
	}
	return w
}
