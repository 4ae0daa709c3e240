// Package actions re-ranks suggested actions by contextual relevance.
package actions

import (
	"sort"
	"time"

	"triage_server/core/domain"
)

// =============================================================================
// Action Prioritizer
// =============================================================================

// Scoring multipliers and factor weights.
const (
	// Base score decays with the rules engine's original priority and never
	// drops below the floor.
	BaseScoreFloor float64 = 0.10
	BaseScoreStep  float64 = 0.10

	// Readiness blends entity availability against average entity confidence.
	ReadinessAvailabilityWeight float64 = 0.70
	ReadinessConfidenceWeight   float64 = 0.30

	UrgencyMultiplier  float64 = 1.15
	OriginalPrimaryMul float64 = 1.20
)

// timeBucket names a period of the day for affinity lookups.
type timeBucket string

const (
	bucketEarlyMorning timeBucket = "early_morning" // 05-08
	bucketMorning      timeBucket = "morning"       // 08-12
	bucketAfternoon    timeBucket = "afternoon"     // 12-17
	bucketEvening      timeBucket = "evening"       // 17-22
	bucketNight        timeBucket = "night"         // 22-05
)

func bucketFor(hour int) timeBucket {
	switch {
	case hour >= 5 && hour < 8:
		return bucketEarlyMorning
	case hour >= 8 && hour < 12:
		return bucketMorning
	case hour >= 12 && hour < 17:
		return bucketAfternoon
	case hour >= 17 && hour < 22:
		return bucketEvening
	default:
		return bucketNight
	}
}

// timeAffinity maps action IDs to per-bucket multipliers. Actions not listed
// score a flat 1.0 at any hour.
var timeAffinity = map[string]map[timeBucket]float64{
	"pay_invoice": {
		bucketMorning:   1.10,
		bucketAfternoon: 1.05,
		bucketNight:     0.90,
	},
	"track_package": {
		bucketMorning:      1.05,
		bucketEarlyMorning: 1.05,
		bucketEvening:      1.05,
	},
	"add_to_calendar": {
		bucketMorning:   1.10,
		bucketAfternoon: 1.05,
	},
	"reply_accept": {
		bucketMorning:   1.05,
		bucketAfternoon: 1.05,
		bucketNight:     0.90,
	},
	"view_deal": {
		bucketEvening: 1.10,
		bucketNight:   1.05,
	},
	"unsubscribe": {
		bucketEvening: 1.05,
	},
	"check_in": {
		bucketEarlyMorning: 1.15,
		bucketMorning:      1.05,
	},
}

// typePreference maps an archetype to per-action-type multipliers. Ads favor
// external navigation; regular mail favors in-app handling.
var typePreference = map[domain.Archetype]map[domain.ActionType]float64{
	domain.ArchetypeAd: {
		domain.ActionGoTo:       1.10,
		domain.ActionInApp:      1.00,
		domain.ActionQuickReply: 0.90,
	},
	domain.ArchetypeMail: {
		domain.ActionGoTo:       0.95,
		domain.ActionInApp:      1.10,
		domain.ActionQuickReply: 1.05,
	},
}

// Context carries the ranking signals for one email.
type Context struct {
	Archetype domain.Archetype
	Urgent    bool
	Now       time.Time

	// Entities resolved for the email, with per-entity confidence. Readiness
	// of an action is how many of its required entities are present.
	Entities map[string]string
	Meta     map[string]*domain.EntityMeta
}

// Prioritizer re-scores and re-orders suggested actions. Input actions are
// never mutated; the result is a fresh slice with Priority renumbered from 1
// and exactly one primary (the top action), unless the input is empty.
type Prioritizer struct{}

// NewPrioritizer creates a prioritizer.
func NewPrioritizer() *Prioritizer {
	return &Prioritizer{}
}

// Prioritize ranks the candidate actions for the given context.
func (p *Prioritizer) Prioritize(candidates []domain.SuggestedAction, pctx Context) []domain.SuggestedAction {
	if len(candidates) == 0 {
		return []domain.SuggestedAction{}
	}
	if pctx.Now.IsZero() {
		pctx.Now = time.Now()
	}

	ranked := make([]domain.SuggestedAction, len(candidates))
	for i, action := range candidates {
		scored := action // copy
		scored.Score, scored.Factors = p.score(&action, pctx)
		ranked[i] = scored
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Priority = i + 1
		ranked[i].IsPrimary = i == 0
	}

	return ranked
}

// score computes the composite score and its factor breakdown.
func (p *Prioritizer) score(action *domain.SuggestedAction, pctx Context) (float64, map[string]float64) {
	base := 1.0 - BaseScoreStep*float64(action.Priority-1)
	if base < BaseScoreFloor {
		base = BaseScoreFloor
	}

	timeFactor := 1.0
	if affinities, ok := timeAffinity[action.ActionID]; ok {
		if mul, ok := affinities[bucketFor(pctx.Now.Hour())]; ok {
			timeFactor = mul
		}
	}

	readiness := entityReadiness(action.RequiredEntities, pctx)

	typeFactor := 1.0
	if prefs, ok := typePreference[pctx.Archetype]; ok {
		if mul, ok := prefs[action.ActionType]; ok {
			typeFactor = mul
		}
	}

	score := base * timeFactor * readiness * typeFactor

	factors := map[string]float64{
		"base":      base,
		"time":      timeFactor,
		"readiness": readiness,
		"type":      typeFactor,
	}

	if pctx.Urgent {
		score *= UrgencyMultiplier
		factors["urgency"] = UrgencyMultiplier
	}
	if action.IsPrimary {
		score *= OriginalPrimaryMul
		factors["original_primary"] = OriginalPrimaryMul
	}

	return score, factors
}

// entityReadiness blends how many required entities are available against
// their average confidence. No required entities means fully ready.
func entityReadiness(required []string, pctx Context) float64 {
	if len(required) == 0 {
		return 1.0
	}

	var available int
	var confSum float64
	for _, key := range required {
		if _, ok := pctx.Entities[key]; !ok {
			continue
		}
		available++
		if m, ok := pctx.Meta[key]; ok && m != nil {
			confSum += m.Confidence
		} else {
			confSum += 0.5
		}
	}

	availability := float64(available) / float64(len(required))
	avgConf := 0.0
	if available > 0 {
		avgConf = confSum / float64(available)
	}

	return ReadinessAvailabilityWeight*availability + ReadinessConfidenceWeight*avgConf
}
