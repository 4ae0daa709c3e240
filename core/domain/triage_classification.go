package domain

// =============================================================================
// Intent
// =============================================================================

// IntentSource tags how an IntentResult was derived.
type IntentSource string

const (
	SourcePatternMatching     IntentSource = "pattern_matching"
	SourceFallback            IntentSource = "fallback"
	SourceSchema              IntentSource = "schema"
	SourceAIHybrid            IntentSource = "ai_hybrid"
	SourceValidationError     IntentSource = "validation_error"
	SourceInsufficientContent IntentSource = "insufficient_content"
)

// IntentResult is the outcome of intent classification. Classification never
// produces "no intent"; fallback outcomes carry fixed confidences instead.
type IntentResult struct {
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Source     IntentSource       `json:"source"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// =============================================================================
// Entities
// =============================================================================

// EntityType classifies the shape of an extracted value.
type EntityType string

const (
	EntityTypeDate   EntityType = "date"
	EntityTypeMoney  EntityType = "money"
	EntityTypeURL    EntityType = "url"
	EntityTypeEmail  EntityType = "email"
	EntityTypePhone  EntityType = "phone"
	EntityTypeID     EntityType = "id"
	EntityTypeNumber EntityType = "number"
	EntityTypeText   EntityType = "text"
)

// EntitySource tags how an entity entered the map.
type EntitySource string

const (
	EntitySourcePattern  EntitySource = "pattern_match"
	EntitySourceInferred EntitySource = "inferred_from_relationship"
)

// EntityMeta carries per-entity confidence and validation state. Every value
// present in the entity map has a corresponding EntityMeta entry.
type EntityMeta struct {
	Key        string       `json:"key"`
	Value      string       `json:"value"`
	Confidence float64      `json:"confidence"`
	Type       EntityType   `json:"type"`
	Validated  bool         `json:"validated"`
	Source     EntitySource `json:"source"`
	Corrected  bool         `json:"corrected,omitempty"`
}

// RelationshipKind distinguishes inferred entities from linked pairs.
type RelationshipKind string

const (
	RelationshipInferred RelationshipKind = "inferred"
	RelationshipRelated  RelationshipKind = "related"
)

// EntityRelationship records an implication or a semantic link between
// extracted entities.
type EntityRelationship struct {
	Kind          RelationshipKind `json:"kind"`
	Keys          []string         `json:"keys"`
	InferredKey   string           `json:"inferredKey,omitempty"`
	InferredValue string           `json:"inferredValue,omitempty"`
	Confidence    float64          `json:"confidence"`
}

// EntityStats aggregates extraction quality for the confidence scorer.
type EntityStats struct {
	Count               int     `json:"count"`
	ValidatedCount      int     `json:"validatedCount"`
	HighConfidenceCount int     `json:"highConfidenceCount"`
	AvgConfidence       float64 `json:"avgConfidence"`
}

// =============================================================================
// Actions
// =============================================================================

// ActionType describes how a suggested action is executed by the client.
type ActionType string

const (
	ActionGoTo       ActionType = "GO_TO"
	ActionInApp      ActionType = "IN_APP"
	ActionQuickReply ActionType = "QUICK_REPLY"
)

// SuggestedAction is one candidate follow-up action. The rules engine
// originates candidates; the prioritizer rewrites Priority, IsPrimary, Score
// and Factors.
type SuggestedAction struct {
	ActionID         string             `json:"actionId"`
	DisplayName      string             `json:"displayName"`
	ActionType       ActionType         `json:"actionType"`
	URL              string             `json:"url,omitempty"`
	RequiredEntities []string           `json:"requiredEntities,omitempty"`
	Priority         int                `json:"priority"`
	IsPrimary        bool               `json:"isPrimary"`
	Score            float64            `json:"score"`
	Factors          map[string]float64 `json:"factors,omitempty"`
}

// Archetype is the coarse mail-vs-advertisement classification that drives
// action-type preference during ranking.
type Archetype string

const (
	ArchetypeMail Archetype = "mail"
	ArchetypeAd   Archetype = "advertisement"
)

// =============================================================================
// Confidence
// =============================================================================

// ConfidenceLevel buckets the overall confidence for UI consumption.
type ConfidenceLevel string

const (
	LevelVeryHigh ConfidenceLevel = "VERY_HIGH"
	LevelHigh     ConfidenceLevel = "HIGH"
	LevelMedium   ConfidenceLevel = "MEDIUM"
	LevelLow      ConfidenceLevel = "LOW"
	LevelVeryLow  ConfidenceLevel = "VERY_LOW"
)

// ConfidenceFactor is one explainability entry in the assessment.
type ConfidenceFactor struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
	Description  string  `json:"description"`
	Positive     bool    `json:"positive"`
}

// ConfidenceBreakdown exposes the weighted sub-scores.
type ConfidenceBreakdown struct {
	IntentConfidence float64 `json:"intentConfidence"`
	EntityQuality    float64 `json:"entityQuality"`
	ActionQuality    float64 `json:"actionQuality"`
	SourceAdjustment float64 `json:"sourceAdjustment"`
}

// ConfidenceAssessment is the aggregated confidence for one classification.
type ConfidenceAssessment struct {
	OverallConfidence      float64             `json:"overallConfidence"`
	Level                  ConfidenceLevel     `json:"level"`
	ShouldShowConfirmation bool                `json:"shouldShowConfirmation"`
	Breakdown              ConfidenceBreakdown `json:"breakdown"`
	Factors                []ConfidenceFactor  `json:"factors"`
}

// UIHints is a pure function of the confidence level, precomputed for the
// client.
type UIHints struct {
	ActionButtonStyle   string `json:"actionButtonStyle"`
	AutoExecuteEligible bool   `json:"autoExecuteEligible"`
	ConfidenceBadge     string `json:"confidenceBadge"`
}

// =============================================================================
// Full classification
// =============================================================================

// Classification is the complete pipeline output for one email.
type Classification struct {
	Intent        IntentResult           `json:"intent"`
	Entities      map[string]string      `json:"entities"`
	EntityMeta    map[string]*EntityMeta `json:"entityMeta"`
	Relationships []EntityRelationship   `json:"relationships,omitempty"`
	EntityStats   EntityStats            `json:"entityStats"`
	Actions       []SuggestedAction      `json:"actions"`
	Confidence    ConfidenceAssessment   `json:"confidence"`
	UIHints       UIHints                `json:"uiHints"`
	Error         string                 `json:"_error,omitempty"`
}

// Clamp01 clamps a confidence value into [0, 1]. NaN maps to 0.5.
func Clamp01(v float64) float64 {
	if v != v { // NaN
		return 0.5
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
