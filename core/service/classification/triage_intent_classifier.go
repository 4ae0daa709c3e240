// Package classification implements the score-based intent classification
// pipeline over the static intent taxonomy.
package classification

import (
	"strings"

	"triage_server/core/domain"
)

// =============================================================================
// Intent Classifier
// =============================================================================

// IntentClassifier scores every taxonomy entry against an email and picks a
// winner. It never fails: invalid or thin input yields a fixed-confidence
// fallback result instead of an error.
type IntentClassifier struct {
	taxonomy *Taxonomy
}

// NewIntentClassifier creates a classifier over the given taxonomy.
func NewIntentClassifier(taxonomy *Taxonomy) *IntentClassifier {
	if taxonomy == nil {
		taxonomy = NewTaxonomy()
	}
	return &IntentClassifier{taxonomy: taxonomy}
}

// Taxonomy exposes the catalog for downstream stages (entity expectation
// lookups, rules adapters).
func (c *IntentClassifier) Taxonomy() *Taxonomy {
	return c.taxonomy
}

// Classify resolves the intent for one email. Always returns a well-formed
// IntentResult.
func (c *IntentClassifier) Classify(email *domain.EmailInput) *domain.IntentResult {
	switch email.Validate() {
	case domain.InputInvalid:
		return &domain.IntentResult{
			Intent:     IntentUnknown,
			Confidence: ConfidenceValidationError,
			Source:     domain.SourceValidationError,
		}
	case domain.InputInsufficient:
		return &domain.IntentResult{
			Intent:     IntentUnknown,
			Confidence: ConfidenceInsufficient,
			Source:     domain.SourceInsufficientContent,
		}
	}

	// Self-sent mail is a note to self, at fixed high confidence.
	if email.IsSelfSent() {
		return &domain.IntentResult{
			Intent:     IntentSelfNote,
			Confidence: ConfidenceSelfNote,
			Source:     domain.SourcePatternMatching,
		}
	}

	scores := c.scoreAll(email)

	winner, winnerScore := pickWinner(scores, c.taxonomy)
	confidence := domain.Clamp01(winnerScore / MaxScoreNorm)

	if winner == "" || confidence < MinConfidence {
		return c.fallback(email, scores)
	}

	return &domain.IntentResult{
		Intent:     winner,
		Confidence: confidence,
		Source:     domain.SourcePatternMatching,
		Scores:     scores,
	}
}

// scoreAll runs the generic scorer: field-weighted triggers, negative
// patterns, then the declarative boost tables.
func (c *IntentClassifier) scoreAll(email *domain.EmailInput) map[string]float64 {
	subject, snippet, body := email.SearchText()
	sender := strings.ToLower(email.From)
	combined := subject + "\n" + body

	scores := make(map[string]float64, len(c.taxonomy.Entries()))

	for _, entry := range c.taxonomy.Entries() {
		var score float64

		for _, trigger := range entry.Triggers {
			if strings.Contains(subject, trigger) {
				score += SubjectWeight
			}
			if snippet != "" && strings.Contains(snippet, trigger) {
				score += SnippetWeight
			}
			if strings.Contains(body, trigger) {
				score += BodyWeight
			}
		}

		for _, neg := range entry.NegativePatterns {
			if strings.Contains(subject, neg) {
				score -= NegativeMultiplier * SubjectWeight
			}
			if snippet != "" && strings.Contains(snippet, neg) {
				score -= NegativeMultiplier * SnippetWeight
			}
			if strings.Contains(body, neg) {
				score -= NegativeMultiplier * BodyWeight
			}
		}

		scores[entry.ID] = score
	}

	// Sender-based boosts
	for _, b := range senderBoosts {
		if !strings.Contains(sender, b.Substring) {
			continue
		}
		c.applyBoost(scores, b.IntentID, b.Category, b.Boost)
	}

	// Value-shape boosts
	for _, b := range shapeBoosts {
		if !b.Pattern.MatchString(combined) {
			continue
		}
		c.applyBoost(scores, b.IntentID, b.Category, b.Boost)
	}

	// Entity-based disambiguation
	for _, rule := range disambiguationRules {
		if !rule.Pattern.MatchString(combined) {
			continue
		}
		if _, ok := scores[rule.BoostIntent]; ok {
			scores[rule.BoostIntent] += rule.Boost
		}
		if _, ok := scores[rule.PenalizeIntent]; ok {
			scores[rule.PenalizeIntent] -= rule.Penalty
		}
	}

	// Thread-reply signals boost the thread entry but never short-circuit,
	// so a more specific intent with a stronger signal still wins.
	if isThreadReply(subject, body) {
		if _, ok := scores[IntentThreadReply]; ok {
			scores[IntentThreadReply] += ThreadReplyBoost
		}
	}

	return scores
}

func (c *IntentClassifier) applyBoost(scores map[string]float64, intentID, category string, boost float64) {
	if intentID != "" {
		if _, ok := scores[intentID]; ok {
			scores[intentID] += boost
		}
		return
	}
	for _, entry := range c.taxonomy.Entries() {
		if entry.Category == category {
			scores[entry.ID] += boost
		}
	}
}

// pickWinner selects the highest score. On an exact tie the entry outside
// the generic fallback category wins.
func pickWinner(scores map[string]float64, taxonomy *Taxonomy) (string, float64) {
	var winner string
	var best float64

	for _, entry := range taxonomy.Entries() {
		score := scores[entry.ID]
		if score <= 0 {
			continue
		}
		switch {
		case winner == "" || score > best:
			winner = entry.ID
			best = score
		case score == best && isGeneric(taxonomy, winner) && !isGeneric(taxonomy, entry.ID):
			winner = entry.ID
		}
	}

	return winner, best
}

func isGeneric(taxonomy *Taxonomy, id string) bool {
	entry := taxonomy.Lookup(id)
	return entry != nil && entry.Category == CategoryGeneric
}

// fallback applies the secondary heuristic when no entry scored above the
// minimum threshold: newsletter cues win over the generic transactional
// bucket, at fixed confidence.
func (c *IntentClassifier) fallback(email *domain.EmailInput, scores map[string]float64) *domain.IntentResult {
	intent := IntentTransactional

	subject := strings.ToLower(email.Subject)
	sender := strings.ToLower(email.From)
	if strings.Contains(sender, "newsletter") || strings.Contains(sender, "news@") ||
		strings.Contains(sender, "digest") ||
		strings.Contains(subject, "newsletter") || strings.Contains(subject, "digest") ||
		strings.Contains(strings.ToLower(email.Body), "unsubscribe") {
		intent = IntentNewsletter
	}

	return &domain.IntentResult{
		Intent:     intent,
		Confidence: ConfidenceFallback,
		Source:     domain.SourceFallback,
		Scores:     scores,
	}
}

// isThreadReply detects reply/forward subject prefixes and quoted-body
// markers.
func isThreadReply(subject, body string) bool {
	trimmed := strings.TrimSpace(subject)
	for _, prefix := range replySubjectPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	for _, marker := range quotedBodyMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return strings.HasPrefix(body, "> ")
}
