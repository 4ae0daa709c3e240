// Package pipeline orchestrates classification end to end: intent, entity
// extraction and enhancement, action suggestion, ranking, and confidence.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"triage_server/core/agent/llm"
	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/actions"
	"triage_server/core/service/classification"
	"triage_server/core/service/confidence"
	"triage_server/core/service/extraction"
	"triage_server/pkg/logger"
)

// =============================================================================
// Classification Pipeline
// =============================================================================

const (
	// The secondary classifier runs only when the pattern result is weak.
	secondaryTriggerConfidence = 0.30

	defaultSecondaryTimeout = 5 * time.Second
	defaultCacheTTL         = 30 * time.Minute

	// The only failure marker surfaced in the _error field of fallback
	// results; every internal failure maps to it.
	errMarkerPipeline = "pipeline_error"
)

// Urgency cues checked against subject and body.
var urgencyCues = []string{
	"urgent", "asap", "immediately", "action required", "final notice",
	"expires today", "last chance", "overdue",
}

// Config tunes pipeline behavior. Zero values fall back to defaults.
type Config struct {
	SecondaryTimeout time.Duration
	CacheTTL         time.Duration
}

// Pipeline wires the stages together. Classify never returns an error: every
// failure path degrades to a well-formed fallback classification.
type Pipeline struct {
	classifier  *classification.IntentClassifier
	extractor   *extraction.Extractor
	enhancer    *extraction.Enhancer
	prioritizer *actions.Prioritizer
	scorer      *confidence.Scorer

	rules     out.RulesEngine
	cache     out.Cache
	secondary out.SecondaryClassifier

	secondaryTimeout time.Duration
	cacheTTL         time.Duration
}

// New creates a pipeline. rules is required; cache and secondary are
// optional collaborators and may be nil.
func New(taxonomy *classification.Taxonomy, rules out.RulesEngine, cache out.Cache, secondary out.SecondaryClassifier, cfg Config) *Pipeline {
	if taxonomy == nil {
		taxonomy = classification.NewTaxonomy()
	}
	if cfg.SecondaryTimeout <= 0 {
		cfg.SecondaryTimeout = defaultSecondaryTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Pipeline{
		classifier:       classification.NewIntentClassifier(taxonomy),
		extractor:        extraction.NewExtractor(),
		enhancer:         extraction.NewEnhancer(taxonomy),
		prioritizer:      actions.NewPrioritizer(),
		scorer:           confidence.NewScorer(),
		rules:            rules,
		cache:            cache,
		secondary:        secondary,
		secondaryTimeout: cfg.SecondaryTimeout,
		cacheTTL:         cfg.CacheTTL,
	}
}

// Classify runs the full pipeline for one email. The result is always
// well-formed; an internal panic degrades to the generic fallback shape.
func (p *Pipeline) Classify(ctx context.Context, email *domain.EmailInput) (result *domain.Classification) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic recovered: %v", r)
			result = fallbackClassification(errMarkerPipeline)
		}
	}()

	cacheKey := contentHash(email)
	if cached := p.cacheGet(ctx, cacheKey); cached != nil {
		return cached
	}

	intent := p.classifier.Classify(email)
	intent = p.maybeSecondary(ctx, email, intent)

	raw := p.extractor.Extract(email, intent.Intent)
	enhanced := p.enhancer.Enhance(raw, intent.Intent)

	suggested, err := p.rules.SuggestActions(ctx, intent.Intent, enhanced.Entities, out.ActionContext{
		Subject: safeSubject(email),
		From:    safeFrom(email),
	})
	if err != nil {
		logger.Error("rules engine failed: %v", err)
		return fallbackClassification(errMarkerPipeline)
	}

	ranked := p.prioritizer.Prioritize(suggested, actions.Context{
		Archetype: archetypeFor(intent.Intent),
		Urgent:    isUrgent(email),
		Now:       time.Now(),
		Entities:  enhanced.Entities,
		Meta:      enhanced.Meta,
	})

	assessment := p.scorer.Assess(intent, enhanced.Stats, ranked)

	result = &domain.Classification{
		Intent:        *intent,
		Entities:      enhanced.Entities,
		EntityMeta:    enhanced.Meta,
		Relationships: enhanced.Relationships,
		EntityStats:   enhanced.Stats,
		Actions:       ranked,
		Confidence:    assessment,
		UIHints:       p.scorer.HintsFor(assessment.Level),
	}

	p.cacheSet(ctx, cacheKey, result)
	return result
}

// maybeSecondary escalates weak pattern results to the AI classifier under a
// bounded timeout. Any secondary failure keeps the pattern result.
func (p *Pipeline) maybeSecondary(ctx context.Context, email *domain.EmailInput, pattern *domain.IntentResult) *domain.IntentResult {
	if p.secondary == nil {
		return pattern
	}
	if pattern.Confidence >= secondaryTriggerConfidence && pattern.Source != domain.SourceFallback {
		return pattern
	}
	// Structurally weak inputs have nothing more to analyze.
	if pattern.Source == domain.SourceValidationError || pattern.Source == domain.SourceInsufficientContent {
		return pattern
	}

	callCtx, cancel := context.WithTimeout(ctx, p.secondaryTimeout)
	defer cancel()

	aiResult, err := p.secondary.ClassifyWithBodyAnalysis(callCtx, email)
	if err != nil {
		logger.Warn("secondary classifier unavailable: %v", err)
		return pattern
	}

	return llm.MergeClassifications(pattern, aiResult)
}

func (p *Pipeline) cacheGet(ctx context.Context, key string) *domain.Classification {
	if p.cache == nil || key == "" {
		return nil
	}
	var cached domain.Classification
	hit, err := p.cache.GetJSON(ctx, out.CacheTypeClassification, key, &cached)
	if err != nil {
		logger.Warn("cache read failed: %v", err)
		return nil
	}
	if !hit {
		return nil
	}
	return &cached
}

func (p *Pipeline) cacheSet(ctx context.Context, key string, result *domain.Classification) {
	if p.cache == nil || key == "" || result.Error != "" {
		return
	}
	if err := p.cache.SetJSON(ctx, out.CacheTypeClassification, key, result, p.cacheTTL); err != nil {
		logger.Warn("cache write failed: %v", err)
	}
}

// fallbackClassification is the guaranteed-shape result for hard failures:
// generic intent, one in-app action, low confidence, error marker set.
func fallbackClassification(marker string) *domain.Classification {
	action := domain.SuggestedAction{
		ActionID:    "view_details",
		DisplayName: "View details",
		ActionType:  domain.ActionInApp,
		Priority:    1,
		IsPrimary:   true,
		Score:       1.0,
	}

	return &domain.Classification{
		Intent: domain.IntentResult{
			Intent:     classification.IntentUnknown,
			Confidence: 0.3,
			Source:     domain.SourceFallback,
		},
		Entities:   map[string]string{},
		EntityMeta: map[string]*domain.EntityMeta{},
		Actions:    []domain.SuggestedAction{action},
		Confidence: domain.ConfidenceAssessment{
			OverallConfidence:      0.3,
			Level:                  domain.LevelVeryLow,
			ShouldShowConfirmation: true,
		},
		UIHints: domain.UIHints{
			ActionButtonStyle:   "hidden",
			AutoExecuteEligible: false,
			ConfidenceBadge:     "low",
		},
		Error: marker,
	}
}

// contentHash keys the cache on the classification-relevant content only.
func contentHash(email *domain.EmailInput) string {
	if email == nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(email.Subject))
	h.Write([]byte{0})
	h.Write([]byte(email.From))
	h.Write([]byte{0})
	h.Write([]byte(email.To))
	h.Write([]byte{0})
	h.Write([]byte(email.Body))
	return hex.EncodeToString(h.Sum(nil))
}

// archetypeFor derives the mail-vs-advertisement archetype from the intent
// category.
func archetypeFor(intentID string) domain.Archetype {
	if strings.HasPrefix(intentID, "newsletter.") || strings.HasPrefix(intentID, "promotion.") {
		return domain.ArchetypeAd
	}
	return domain.ArchetypeMail
}

func isUrgent(email *domain.EmailInput) bool {
	if email == nil {
		return false
	}
	text := strings.ToLower(email.Subject + "\n" + email.Body)
	for _, cue := range urgencyCues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

func safeSubject(email *domain.EmailInput) string {
	if email == nil {
		return ""
	}
	return email.Subject
}

func safeFrom(email *domain.EmailInput) string {
	if email == nil {
		return ""
	}
	return email.From
}
