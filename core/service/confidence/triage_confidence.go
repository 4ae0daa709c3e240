// Package confidence aggregates per-stage signals into one explainable
// assessment with UI hints.
package confidence

import (
	"fmt"
	"strings"

	"triage_server/core/domain"
)

// =============================================================================
// Confidence Scorer
// =============================================================================

// Component weights of the overall score.
const (
	WeightIntent  float64 = 0.50
	WeightEntity  float64 = 0.30
	WeightActions float64 = 0.20
)

// Entity quality blend.
const (
	EntityAvgConfWeight   float64 = 0.50
	EntityValidatedWeight float64 = 0.30
	EntityHighConfWeight  float64 = 0.20
	EntityQualityDefault  float64 = 0.50
)

// Action quality components.
const (
	ActionQualityBase   float64 = 0.60
	ActionPrimaryBonus  float64 = 0.20
	ActionURLBonus      float64 = 0.15
	ActionMultipleBonus float64 = 0.05
)

// Source adjustments applied after the weighted blend.
var sourceAdjustments = map[domain.IntentSource]float64{
	domain.SourceSchema:              0.10,
	domain.SourceAIHybrid:            0.05,
	domain.SourcePatternMatching:     0.00,
	domain.SourceFallback:            -0.10,
	domain.SourceInsufficientContent: -0.15,
	domain.SourceValidationError:     -0.20,
}

// Level thresholds, checked top-down.
const (
	ThresholdVeryHigh float64 = 0.90
	ThresholdHigh     float64 = 0.75
	ThresholdMedium   float64 = 0.60
	ThresholdLow      float64 = 0.40
)

// Scorer computes the aggregated confidence assessment.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Assess blends intent confidence, entity quality, and action quality into
// the overall assessment.
func (s *Scorer) Assess(intent *domain.IntentResult, stats domain.EntityStats, actions []domain.SuggestedAction) domain.ConfidenceAssessment {
	intentConf := domain.Clamp01(intent.Confidence)
	entityQuality := entityQuality(stats)
	actionQuality := actionQuality(actions)

	adjustment := sourceAdjustments[intent.Source]

	overall := domain.Clamp01(
		WeightIntent*intentConf +
			WeightEntity*entityQuality +
			WeightActions*actionQuality +
			adjustment,
	)

	level := levelFor(overall)

	return domain.ConfidenceAssessment{
		OverallConfidence:      overall,
		Level:                  level,
		ShouldShowConfirmation: shouldConfirm(level, stats),
		Breakdown: domain.ConfidenceBreakdown{
			IntentConfidence: intentConf,
			EntityQuality:    entityQuality,
			ActionQuality:    actionQuality,
			SourceAdjustment: adjustment,
		},
		Factors: buildFactors(intentConf, entityQuality, actionQuality, adjustment, intent.Source),
	}
}

// HintsFor derives UI hints from the confidence level alone.
func (s *Scorer) HintsFor(level domain.ConfidenceLevel) domain.UIHints {
	switch level {
	case domain.LevelVeryHigh:
		return domain.UIHints{ActionButtonStyle: "prominent", AutoExecuteEligible: true, ConfidenceBadge: "high"}
	case domain.LevelHigh:
		return domain.UIHints{ActionButtonStyle: "prominent", AutoExecuteEligible: false, ConfidenceBadge: "high"}
	case domain.LevelMedium:
		return domain.UIHints{ActionButtonStyle: "standard", AutoExecuteEligible: false, ConfidenceBadge: "medium"}
	case domain.LevelLow:
		return domain.UIHints{ActionButtonStyle: "subtle", AutoExecuteEligible: false, ConfidenceBadge: "low"}
	default:
		return domain.UIHints{ActionButtonStyle: "hidden", AutoExecuteEligible: false, ConfidenceBadge: "low"}
	}
}

// entityQuality blends average confidence, validation rate, and the share of
// high-confidence entities. No entities at all is neutral, not zero.
func entityQuality(stats domain.EntityStats) float64 {
	if stats.Count == 0 {
		return EntityQualityDefault
	}
	validatedRate := float64(stats.ValidatedCount) / float64(stats.Count)
	highConfRate := float64(stats.HighConfidenceCount) / float64(stats.Count)
	return domain.Clamp01(
		EntityAvgConfWeight*stats.AvgConfidence +
			EntityValidatedWeight*validatedRate +
			EntityHighConfWeight*highConfRate,
	)
}

// actionQuality rewards actionable suggestions: a primary exists, at least
// one URL is fully resolved (no leftover template placeholders), and
// alternatives exist.
func actionQuality(actions []domain.SuggestedAction) float64 {
	if len(actions) == 0 {
		return 0
	}

	quality := ActionQualityBase

	hasPrimary := false
	hasResolvedURL := false
	for i := range actions {
		if actions[i].IsPrimary {
			hasPrimary = true
		}
		if actions[i].URL != "" && !strings.Contains(actions[i].URL, "{{") {
			hasResolvedURL = true
		}
	}
	if hasPrimary {
		quality += ActionPrimaryBonus
	}
	if hasResolvedURL {
		quality += ActionURLBonus
	}
	if len(actions) >= 2 {
		quality += ActionMultipleBonus
	}

	return domain.Clamp01(quality)
}

func levelFor(overall float64) domain.ConfidenceLevel {
	switch {
	case overall >= ThresholdVeryHigh:
		return domain.LevelVeryHigh
	case overall >= ThresholdHigh:
		return domain.LevelHigh
	case overall >= ThresholdMedium:
		return domain.LevelMedium
	case overall >= ThresholdLow:
		return domain.LevelLow
	default:
		return domain.LevelVeryLow
	}
}

// shouldConfirm asks for user confirmation on low confidence, and on medium
// confidence when nothing was validated.
func shouldConfirm(level domain.ConfidenceLevel, stats domain.EntityStats) bool {
	switch level {
	case domain.LevelLow, domain.LevelVeryLow:
		return true
	case domain.LevelMedium:
		return stats.ValidatedCount == 0
	}
	return false
}

func buildFactors(intentConf, entityQuality, actionQuality, adjustment float64, source domain.IntentSource) []domain.ConfidenceFactor {
	factors := []domain.ConfidenceFactor{
		{
			Factor:       "intent_confidence",
			Contribution: WeightIntent * intentConf,
			Description:  fmt.Sprintf("intent classifier confidence %.2f", intentConf),
			Positive:     intentConf >= 0.5,
		},
		{
			Factor:       "entity_quality",
			Contribution: WeightEntity * entityQuality,
			Description:  fmt.Sprintf("entity extraction quality %.2f", entityQuality),
			Positive:     entityQuality >= 0.5,
		},
		{
			Factor:       "action_quality",
			Contribution: WeightActions * actionQuality,
			Description:  fmt.Sprintf("suggested action quality %.2f", actionQuality),
			Positive:     actionQuality >= 0.5,
		},
	}
	if adjustment != 0 {
		factors = append(factors, domain.ConfidenceFactor{
			Factor:       "source_adjustment",
			Contribution: adjustment,
			Description:  fmt.Sprintf("intent source %q adjustment", source),
			Positive:     adjustment > 0,
		})
	}
	return factors
}
