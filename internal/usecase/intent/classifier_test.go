package intent

import (
	"math"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.Intent
	}{
		{"what is", "What is strategic planning?", domain.IntentFactual},
		{"define", "Define market segmentation", domain.IntentFactual},
		{"when", "When did the merger close?", domain.IntentFactual},
		{"who", "Who approved the budget?", domain.IntentFactual},
		{"how to", "How to set up a retrieval pipeline", domain.IntentProcedural},
		{"steps", "Steps to create a business strategy", domain.IntentProcedural},
		{"process", "Describe the onboarding process", domain.IntentProcedural},
		{"why", "Why is strategic thinking important?", domain.IntentConceptual},
		{"explain", "Explain vector embeddings", domain.IntentConceptual},
		{"understand", "Help me understand churn", domain.IntentConceptual},
		{"no marker", "Business strategy examples", domain.IntentBalanced},
		{"empty", "", domain.IntentBalanced},
		{"whitespace only", "   \t\n", domain.IntentBalanced},
		{"punctuation only", "?!...", domain.IntentBalanced},
		// "whoever" must not match the "who" marker.
		{"marker inside a longer word", "Whoever wrote this report", domain.IntentBalanced},
		{"case insensitive", "WHAT IS a KPI", domain.IntentFactual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Fatalf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestClassify_FactualBeatsConceptual(t *testing.T) {
	// Both a factual and a conceptual marker are present; factual is checked
	// first and must win.
	got := Classify("What is the reason why revenue dropped?")
	if got != domain.IntentFactual {
		t.Fatalf("Classify = %q, want %q", got, domain.IntentFactual)
	}
}

func TestClassify_ProceduralBeatsConceptual(t *testing.T) {
	got := Classify("Explain how to deploy the service")
	if got != domain.IntentProcedural {
		t.Fatalf("Classify = %q, want %q", got, domain.IntentProcedural)
	}
}

func TestWeightsFor(t *testing.T) {
	tests := []struct {
		intent    domain.Intent
		vec, text float64
	}{
		{domain.IntentFactual, 0.4, 0.6},
		{domain.IntentConceptual, 0.8, 0.2},
		{domain.IntentProcedural, 0.6, 0.4},
		{domain.IntentBalanced, 0.7, 0.3},
	}
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			w := WeightsFor(tt.intent)
			if w.Vector != tt.vec || w.Text != tt.text {
				t.Fatalf("WeightsFor(%s) = %+v, want (%v, %v)", tt.intent, w, tt.vec, tt.text)
			}
			if math.Abs(w.Vector+w.Text-1.0) > 1e-9 {
				t.Fatalf("weights for %s sum to %v, want 1.0", tt.intent, w.Vector+w.Text)
			}
		})
	}
}

func TestWeightsFor_UnknownIntentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WeightsFor on an unknown intent did not panic")
		}
	}()
	WeightsFor(domain.Intent("exploratory"))
}

func TestEndToEndIntentWeights(t *testing.T) {
	tests := []struct {
		query     string
		intent    domain.Intent
		vec, text float64
	}{
		{"What is strategic planning?", domain.IntentFactual, 0.4, 0.6},
		{"Why is strategic thinking important?", domain.IntentConceptual, 0.8, 0.2},
		{"Steps to create a business strategy", domain.IntentProcedural, 0.6, 0.4},
		{"Business strategy examples", domain.IntentBalanced, 0.7, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			it := Classify(tt.query)
			if it != tt.intent {
				t.Fatalf("intent = %q, want %q", it, tt.intent)
			}
			w := WeightsFor(it)
			if w.Vector != tt.vec || w.Text != tt.text {
				t.Fatalf("weights = %+v, want (%v, %v)", w, tt.vec, tt.text)
			}
		})
	}
}
