// Package extraction implements pattern-based entity extraction and the
// confidence/validation/relationship enhancement layer on top of it.
package extraction

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"triage_server/core/domain"
	"triage_server/core/service/classification"
)

// =============================================================================
// Entity Enhancer
// =============================================================================

// Confidence tiers. Every entity starts at the baseline; validation moves it
// up or down, and being expected by the resolved intent adds a bonus.
const (
	ConfidenceBaseline   float64 = 0.60
	ConfidenceValidated  float64 = 0.85
	ConfidenceFailed     float64 = 0.40
	IntentExpectedBonus  float64 = 0.10
	RelatedPairBonus     float64 = 0.05
	InferredPenalty      float64 = 0.10
	HighConfidenceCutoff float64 = 0.80
	StatsEmptyAvgDefault float64 = 0.50
)

// Money validation bounds after normalization.
const (
	moneyMin float64 = 0.01
	moneyMax float64 = 1_000_000
)

// Type detection runs key-name checks in this order; the first hit wins.
var typeDetectors = []struct {
	Type     domain.EntityType
	Keywords []string
}{
	{domain.EntityTypeURL, []string{"url", "link"}},
	{domain.EntityTypeDate, []string{"date", "time", "deadline"}},
	{domain.EntityTypeMoney, []string{"amount", "price", "fee", "total", "balance"}},
	{domain.EntityTypeEmail, []string{"email"}},
	{domain.EntityTypePhone, []string{"phone"}},
	{domain.EntityTypeID, []string{"id", "number", "code"}},
}

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"Jan 2",
	"January 2",
	"Monday, Jan 2",
	"Monday, January 2, 2006",
}

// Carrier inference by tracking-number shape.
var carrierShapes = []struct {
	Pattern *regexp.Regexp
	Carrier string
}{
	{regexp.MustCompile(`^1Z[0-9A-Za-z]{16}$`), "UPS"},
	{regexp.MustCompile(`^\d{12}$`), "FedEx"},
	{regexp.MustCompile(`^9[234]\d{20,24}$`), "USPS"},
}

// Related entity pairs; co-presence links both and bumps both confidences.
var relatedPairs = [][2]string{
	{"invoiceId", "paymentUrl"},
	{"orderId", "trackingNumber"},
	{"amount", "dueDate"},
	{"meetingDate", "meetingUrl"},
}

// Enhancer validates, types, and scores raw entities and infers missing ones
// from relationships. It never fails; the worst outcome is an empty result.
type Enhancer struct {
	taxonomy *classification.Taxonomy
}

// NewEnhancer creates an enhancer over the intent taxonomy.
func NewEnhancer(taxonomy *classification.Taxonomy) *Enhancer {
	if taxonomy == nil {
		taxonomy = classification.NewTaxonomy()
	}
	return &Enhancer{taxonomy: taxonomy}
}

// EnhanceResult is the full enhancement outcome for one entity map.
type EnhanceResult struct {
	Entities      map[string]string
	Meta          map[string]*domain.EntityMeta
	Relationships []domain.EntityRelationship
	Stats         domain.EntityStats
}

// Enhance types and validates every entity, applies relationship inference,
// and aggregates stats. The input map is not mutated.
func (h *Enhancer) Enhance(raw map[string]string, intentID string) *EnhanceResult {
	res := &EnhanceResult{
		Entities: make(map[string]string, len(raw)+2),
		Meta:     make(map[string]*domain.EntityMeta, len(raw)+2),
	}

	entry := h.taxonomy.Lookup(intentID)

	for key, value := range raw {
		meta := h.enhanceOne(key, value, entry)
		res.Entities[key] = meta.Value
		res.Meta[key] = meta
	}

	h.inferRelationships(res)
	h.linkRelatedPairs(res)
	res.Stats = computeStats(res.Meta)

	return res
}

// enhanceOne builds the metadata for a single entity: detect type, validate,
// assign tiered confidence.
func (h *Enhancer) enhanceOne(key, value string, entry *classification.TaxonomyEntry) *domain.EntityMeta {
	meta := &domain.EntityMeta{
		Key:    key,
		Value:  value,
		Type:   detectType(key, value),
		Source: domain.EntitySourcePattern,
	}

	validated, normalized, corrected := validateValue(meta.Type, value)
	meta.Validated = validated
	if corrected {
		meta.Value = normalized
		meta.Corrected = true
	}

	switch {
	case validated:
		meta.Confidence = ConfidenceValidated
	case isValidatableType(meta.Type):
		meta.Confidence = ConfidenceFailed
	default:
		meta.Confidence = ConfidenceBaseline
	}

	if entry.ExpectsEntity(key) {
		meta.Confidence = domain.Clamp01(meta.Confidence + IntentExpectedBonus)
	}

	return meta
}

// detectType resolves the entity type from the key name first, then falls
// back to a numeric check on the value.
func detectType(key, value string) domain.EntityType {
	lower := strings.ToLower(key)
	for _, d := range typeDetectors {
		for _, kw := range d.Keywords {
			if strings.Contains(lower, kw) {
				return d.Type
			}
		}
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return domain.EntityTypeNumber
	}
	return domain.EntityTypeText
}

func isValidatableType(t domain.EntityType) bool {
	switch t {
	case domain.EntityTypeDate, domain.EntityTypeMoney, domain.EntityTypeURL, domain.EntityTypeID:
		return true
	}
	return false
}

// validateValue checks a value against its type. For money the value is
// normalized to a plain decimal string and the correction is flagged.
func validateValue(t domain.EntityType, value string) (validated bool, normalized string, corrected bool) {
	switch t {
	case domain.EntityTypeDate:
		return validateDate(value), value, false
	case domain.EntityTypeMoney:
		return validateMoney(value)
	case domain.EntityTypeURL:
		u, err := url.Parse(strings.TrimSpace(value))
		ok := err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		return ok, value, false
	case domain.EntityTypeID:
		return validateID(value), value, false
	}
	return false, value, false
}

// validateDate accepts any known layout whose resolved date falls within ten
// years of now. Layouts without a year assume the current year.
func validateDate(value string) bool {
	v := strings.TrimSpace(value)
	now := time.Now()
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if parsed.Year() == 0 {
			parsed = parsed.AddDate(now.Year(), 0, 0)
		}
		diff := parsed.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 10*365*24*time.Hour {
			return true
		}
	}
	return false
}

// validateMoney strips currency symbols and separators, range-checks, and
// returns the plain decimal form.
func validateMoney(value string) (bool, string, bool) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < moneyMin || amount > moneyMax {
		return false, value, false
	}
	normalized := strconv.FormatFloat(amount, 'f', -1, 64)
	return true, normalized, normalized != value
}

// validateID currently knows carrier tracking shapes; other IDs pass on
// length alone.
func validateID(value string) bool {
	v := strings.TrimSpace(value)
	for _, shape := range carrierShapes {
		if shape.Pattern.MatchString(v) {
			return true
		}
	}
	return len(v) >= 4
}

// inferRelationships derives absent entities implied by present ones. The
// canonical case: a carrier-shaped tracking number implies the carrier.
func (h *Enhancer) inferRelationships(res *EnhanceResult) {
	tracking, ok := res.Entities["trackingNumber"]
	if !ok {
		return
	}
	if _, exists := res.Entities["carrier"]; exists {
		return
	}

	for _, shape := range carrierShapes {
		if !shape.Pattern.MatchString(strings.TrimSpace(tracking)) {
			continue
		}
		sourceConf := ConfidenceBaseline
		if m := res.Meta["trackingNumber"]; m != nil {
			sourceConf = m.Confidence
		}
		conf := domain.Clamp01(sourceConf - InferredPenalty)

		res.Entities["carrier"] = shape.Carrier
		res.Meta["carrier"] = &domain.EntityMeta{
			Key:        "carrier",
			Value:      shape.Carrier,
			Confidence: conf,
			Type:       domain.EntityTypeText,
			Validated:  true,
			Source:     domain.EntitySourceInferred,
		}
		res.Relationships = append(res.Relationships, domain.EntityRelationship{
			Kind:          domain.RelationshipInferred,
			Keys:          []string{"trackingNumber"},
			InferredKey:   "carrier",
			InferredValue: shape.Carrier,
			Confidence:    conf,
		})
		return
	}
}

// linkRelatedPairs records semantic links between co-present entities and
// bumps both participants' confidence.
func (h *Enhancer) linkRelatedPairs(res *EnhanceResult) {
	for _, pair := range relatedPairs {
		a, okA := res.Meta[pair[0]]
		b, okB := res.Meta[pair[1]]
		if !okA || !okB {
			continue
		}
		a.Confidence = domain.Clamp01(a.Confidence + RelatedPairBonus)
		b.Confidence = domain.Clamp01(b.Confidence + RelatedPairBonus)

		conf := a.Confidence
		if b.Confidence < conf {
			conf = b.Confidence
		}
		res.Relationships = append(res.Relationships, domain.EntityRelationship{
			Kind:       domain.RelationshipRelated,
			Keys:       []string{pair[0], pair[1]},
			Confidence: conf,
		})
	}
}

// computeStats aggregates the per-entity metadata for the confidence scorer.
func computeStats(meta map[string]*domain.EntityMeta) domain.EntityStats {
	stats := domain.EntityStats{Count: len(meta)}
	if stats.Count == 0 {
		stats.AvgConfidence = StatsEmptyAvgDefault
		return stats
	}

	var sum float64
	for _, m := range meta {
		sum += m.Confidence
		if m.Validated {
			stats.ValidatedCount++
		}
		if m.Confidence >= HighConfidenceCutoff {
			stats.HighConfidenceCount++
		}
	}
	stats.AvgConfidence = sum / float64(stats.Count)
	return stats
}
