package out

import (
	"context"

	"triage_server/core/domain"
)

// SecondaryClassifier is the network-based fallback classifier, invoked when
// the pattern classifier has low confidence. Calls are bounded by the
// pipeline's timeout; a failed call keeps the pattern result.
type SecondaryClassifier interface {
	ClassifyWithBodyAnalysis(ctx context.Context, email *domain.EmailInput) (*domain.IntentResult, error)
}
