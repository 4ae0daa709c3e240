package confidence

import (
	"testing"

	"triage_server/core/domain"
)

func TestAssessLevels(t *testing.T) {
	s := NewScorer()

	strongStats := domain.EntityStats{Count: 2, ValidatedCount: 2, HighConfidenceCount: 2, AvgConfidence: 0.9}
	strongActions := []domain.SuggestedAction{
		{ActionID: "pay_invoice", IsPrimary: true, URL: "https://pay.example.com/inv/123"},
		{ActionID: "view_invoice"},
	}

	tests := []struct {
		name      string
		intent    *domain.IntentResult
		stats     domain.EntityStats
		actions   []domain.SuggestedAction
		wantLevel domain.ConfidenceLevel
	}{
		{
			name:      "strong everything is very high",
			intent:    &domain.IntentResult{Intent: "billing.invoice.due", Confidence: 1.0, Source: domain.SourcePatternMatching},
			stats:     strongStats,
			actions:   strongActions,
			wantLevel: domain.LevelVeryHigh,
		},
		{
			name:      "fallback with nothing else is very low",
			intent:    &domain.IntentResult{Intent: "generic.transactional", Confidence: 0.5, Source: domain.SourceFallback},
			stats:     domain.EntityStats{},
			actions:   nil,
			wantLevel: domain.LevelVeryLow,
		},
		{
			name:      "validation error bottoms out",
			intent:    &domain.IntentResult{Intent: "generic.unknown", Confidence: 0.3, Source: domain.SourceValidationError},
			stats:     domain.EntityStats{},
			actions:   nil,
			wantLevel: domain.LevelVeryLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Assess(tt.intent, tt.stats, tt.actions)
			if got.Level != tt.wantLevel {
				t.Errorf("level = %q (overall %v), want %q", got.Level, got.OverallConfidence, tt.wantLevel)
			}
			if got.OverallConfidence < 0 || got.OverallConfidence > 1 {
				t.Errorf("overall %v outside [0,1]", got.OverallConfidence)
			}
			if len(got.Factors) == 0 {
				t.Error("assessment missing factor breakdown")
			}
		})
	}
}

func TestAssessSourceAdjustmentOrdering(t *testing.T) {
	s := NewScorer()

	stats := domain.EntityStats{Count: 1, ValidatedCount: 1, HighConfidenceCount: 1, AvgConfidence: 0.85}
	actions := []domain.SuggestedAction{{ActionID: "x", IsPrimary: true, URL: "https://example.com"}}

	intentAt := func(source domain.IntentSource) float64 {
		return s.Assess(&domain.IntentResult{Intent: "i", Confidence: 0.7, Source: source}, stats, actions).OverallConfidence
	}

	schema := intentAt(domain.SourceSchema)
	pattern := intentAt(domain.SourcePatternMatching)
	fallback := intentAt(domain.SourceFallback)

	if !(schema > pattern && pattern > fallback) {
		t.Errorf("adjustment ordering broken: schema %v, pattern %v, fallback %v", schema, pattern, fallback)
	}
}

func TestShouldShowConfirmation(t *testing.T) {
	s := NewScorer()

	// Medium level with zero validated entities asks for confirmation.
	medium := s.Assess(
		&domain.IntentResult{Intent: "i", Confidence: 0.8, Source: domain.SourcePatternMatching},
		domain.EntityStats{Count: 2, ValidatedCount: 0, AvgConfidence: 0.6},
		[]domain.SuggestedAction{{ActionID: "x", IsPrimary: true}},
	)
	if medium.Level != domain.LevelMedium {
		t.Fatalf("level = %q, want MEDIUM (overall %v)", medium.Level, medium.OverallConfidence)
	}
	if !medium.ShouldShowConfirmation {
		t.Error("medium with zero validated entities should ask for confirmation")
	}

	// Medium with validated entities does not.
	validated := s.Assess(
		&domain.IntentResult{Intent: "i", Confidence: 0.8, Source: domain.SourcePatternMatching},
		domain.EntityStats{Count: 2, ValidatedCount: 1, AvgConfidence: 0.6},
		[]domain.SuggestedAction{{ActionID: "x", IsPrimary: true}},
	)
	if validated.Level == domain.LevelMedium && validated.ShouldShowConfirmation {
		t.Error("medium with validated entities should not ask for confirmation")
	}

	// Low always asks.
	low := s.Assess(
		&domain.IntentResult{Intent: "i", Confidence: 0.3, Source: domain.SourceFallback},
		domain.EntityStats{},
		nil,
	)
	if !low.ShouldShowConfirmation {
		t.Error("low confidence should ask for confirmation")
	}
}

func TestActionQualityTemplatedURL(t *testing.T) {
	resolved := actionQuality([]domain.SuggestedAction{
		{ActionID: "x", IsPrimary: true, URL: "https://track.example.com/1Z999"},
	})
	templated := actionQuality([]domain.SuggestedAction{
		{ActionID: "x", IsPrimary: true, URL: "https://track.example.com/{{trackingNumber}}"},
	})

	if resolved <= templated {
		t.Errorf("resolved URL quality %v should exceed templated %v", resolved, templated)
	}
}

func TestActionQualityResolvedURLOnAnyAction(t *testing.T) {
	// The URL bonus counts any action with a resolved URL, not just the
	// primary one.
	got := actionQuality([]domain.SuggestedAction{
		{ActionID: "pay_invoice", IsPrimary: true, URL: "https://pay.example.com/{{paymentUrl}}"},
		{ActionID: "view_invoice", URL: "https://billing.example.com/inv/123"},
	})

	want := ActionQualityBase + ActionPrimaryBonus + ActionURLBonus + ActionMultipleBonus
	if got != want {
		t.Errorf("quality = %v, want %v", got, want)
	}
}

func TestHintsFor(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		level      domain.ConfidenceLevel
		wantStyle  string
		wantAutoOK bool
	}{
		{domain.LevelVeryHigh, "prominent", true},
		{domain.LevelHigh, "prominent", false},
		{domain.LevelMedium, "standard", false},
		{domain.LevelLow, "subtle", false},
		{domain.LevelVeryLow, "hidden", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := s.HintsFor(tt.level)
			if got.ActionButtonStyle != tt.wantStyle {
				t.Errorf("style = %q, want %q", got.ActionButtonStyle, tt.wantStyle)
			}
			if got.AutoExecuteEligible != tt.wantAutoOK {
				t.Errorf("autoExecute = %v, want %v", got.AutoExecuteEligible, tt.wantAutoOK)
			}
		})
	}
}
