// Package llm provides the AI-backed secondary classifier used when the
// pattern classifier resolves with low confidence.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"

	"triage_server/core/domain"
	"triage_server/core/service/classification"
	"triage_server/pkg/logger"
)

// =============================================================================
// Secondary Classifier
// =============================================================================

const (
	classifySystemPrompt = `You are an email intent classifier. Given an email, pick exactly one intent ID from the allowed list. Respond with a JSON object: {"intent": "<id>", "confidence": <0.0-1.0>}. Use only intent IDs from the list.`

	maxBodyChars = 2000
)

type classifyResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// SecondaryClassifier implements the AI fallback over the completion client,
// guarded by a circuit breaker so a degraded upstream fails fast.
type SecondaryClassifier struct {
	client   *Client
	taxonomy *classification.Taxonomy
	cb       *gobreaker.CircuitBreaker
}

// NewSecondaryClassifier creates the classifier with breaker defaults tuned
// for a slow LLM upstream.
func NewSecondaryClassifier(client *Client, taxonomy *classification.Taxonomy) *SecondaryClassifier {
	cbSettings := gobreaker.Settings{
		Name:        "llm-classify",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &SecondaryClassifier{
		client:   client,
		taxonomy: taxonomy,
		cb:       gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// BreakerState reports the breaker state for health endpoints.
func (s *SecondaryClassifier) BreakerState() string {
	return s.cb.State().String()
}

// ClassifyWithBodyAnalysis asks the model for an intent over the full body.
// The returned result carries the schema source; the caller decides how to
// merge it with the pattern result.
func (s *SecondaryClassifier) ClassifyWithBodyAnalysis(ctx context.Context, email *domain.EmailInput) (*domain.IntentResult, error) {
	if email == nil {
		return nil, fmt.Errorf("llm classify: nil email")
	}

	prompt := s.buildPrompt(email)

	raw, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.CompleteJSON(ctx, classifySystemPrompt, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("llm classify: %w", err)
	}

	content, _ := raw.(string)
	parsed, err := parseClassifyResponse(content)
	if err != nil {
		return nil, err
	}

	if s.taxonomy.Lookup(parsed.Intent) == nil {
		return nil, fmt.Errorf("llm classify: unknown intent %q", parsed.Intent)
	}

	return &domain.IntentResult{
		Intent:     parsed.Intent,
		Confidence: domain.Clamp01(parsed.Confidence),
		Source:     domain.SourceSchema,
	}, nil
}

func (s *SecondaryClassifier) buildPrompt(email *domain.EmailInput) string {
	var b strings.Builder
	b.WriteString("Allowed intent IDs:\n")
	for _, id := range s.taxonomy.IDs() {
		b.WriteString("- ")
		b.WriteString(id)
		b.WriteByte('\n')
	}
	b.WriteString("\nEmail:\n")
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&b, "From: %s\n", email.From)
	fmt.Fprintf(&b, "Body:\n%s\n", truncateBody(email.Body, maxBodyChars))
	return b.String()
}

// parseClassifyResponse tolerates markdown fences around the JSON object.
func parseClassifyResponse(content string) (*classifyResponse, error) {
	cleaned := cleanJSONResponse(content)

	var parsed classifyResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("llm classify: malformed response: %w", err)
	}
	if parsed.Intent == "" {
		return nil, fmt.Errorf("llm classify: empty intent in response")
	}
	return &parsed, nil
}

func cleanJSONResponse(content string) string {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func truncateBody(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

// =============================================================================
// Merge
// =============================================================================

// MergeClassifications combines the pattern result with an AI result. A
// usable AI result overrides the intent and tags the hybrid source; a nil AI
// result keeps the pattern result untouched.
func MergeClassifications(pattern, ai *domain.IntentResult) *domain.IntentResult {
	if ai == nil {
		return pattern
	}
	if pattern == nil {
		return ai
	}

	merged := &domain.IntentResult{
		Intent:     ai.Intent,
		Confidence: domain.Clamp01(ai.Confidence),
		Source:     domain.SourceAIHybrid,
		Scores:     pattern.Scores,
	}

	// Agreement between the two classifiers is itself a signal.
	if ai.Intent == pattern.Intent && merged.Confidence < pattern.Confidence {
		merged.Confidence = pattern.Confidence
	}

	return merged
}
