package out

import (
	"context"

	"triage_server/core/domain"
)

// ActionContext is the minimal email context the rules engine receives
// alongside the resolved intent and entities.
type ActionContext struct {
	Subject string
	From    string
}

// RulesEngine maps a resolved intent and its entities to an unranked list of
// candidate actions. The pipeline only ranks candidates, it never originates
// them.
type RulesEngine interface {
	SuggestActions(ctx context.Context, intent string, entities map[string]string, actionCtx ActionContext) ([]domain.SuggestedAction, error)
}
