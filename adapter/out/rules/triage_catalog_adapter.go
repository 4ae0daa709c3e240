// Package rules provides the in-process action catalog: a declarative
// mapping from resolved intents to candidate follow-up actions.
package rules

import (
	"context"
	"strings"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/core/service/classification"
)

// =============================================================================
// Action Catalog
// =============================================================================

// catalogEntry is one candidate action template. URL templates reference
// entities as {{key}}; unresolved placeholders survive so the confidence
// scorer can see them.
type catalogEntry struct {
	ActionID         string
	DisplayName      string
	ActionType       domain.ActionType
	URLTemplate      string
	RequiredEntities []string
	Priority         int
	IsPrimary        bool
}

// intentCatalog maps exact intent IDs to their candidates. Lookup falls back
// to the category prefix, then to the default set.
var intentCatalog = map[string][]catalogEntry{
	classification.IntentShippingNotice: {
		{ActionID: "track_package", DisplayName: "Track package", ActionType: domain.ActionGoTo,
			URLTemplate: "{{trackingUrl}}", RequiredEntities: []string{"trackingNumber"}, Priority: 1, IsPrimary: true},
		{ActionID: "view_order", DisplayName: "View order", ActionType: domain.ActionGoTo,
			URLTemplate: "{{orderUrl}}", RequiredEntities: []string{"orderId"}, Priority: 2},
		{ActionID: "set_reminder", DisplayName: "Remind me on delivery day", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"deliveryDate"}, Priority: 3},
	},
	"commerce.shipping.delivered": {
		{ActionID: "view_order", DisplayName: "View order", ActionType: domain.ActionGoTo,
			URLTemplate: "{{orderUrl}}", Priority: 1, IsPrimary: true},
		{ActionID: "archive", DisplayName: "Archive", ActionType: domain.ActionInApp, Priority: 2},
	},
	classification.IntentOrderConfirm: {
		{ActionID: "view_order", DisplayName: "View order", ActionType: domain.ActionGoTo,
			URLTemplate: "{{orderUrl}}", RequiredEntities: []string{"orderId"}, Priority: 1, IsPrimary: true},
		{ActionID: "track_package", DisplayName: "Track package", ActionType: domain.ActionGoTo,
			URLTemplate: "{{trackingUrl}}", RequiredEntities: []string{"trackingNumber"}, Priority: 2},
	},
	classification.IntentInvoiceDue: {
		{ActionID: "pay_invoice", DisplayName: "Pay invoice", ActionType: domain.ActionGoTo,
			URLTemplate: "{{paymentUrl}}", RequiredEntities: []string{"invoiceId", "amount"}, Priority: 1, IsPrimary: true},
		{ActionID: "view_invoice", DisplayName: "View invoice", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"invoiceId"}, Priority: 2},
		{ActionID: "set_reminder", DisplayName: "Remind me before due date", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"dueDate"}, Priority: 3},
	},
	"billing.payment.receipt": {
		{ActionID: "view_receipt", DisplayName: "View receipt", ActionType: domain.ActionGoTo,
			URLTemplate: "{{receiptUrl}}", Priority: 1, IsPrimary: true},
		{ActionID: "archive", DisplayName: "Archive", ActionType: domain.ActionInApp, Priority: 2},
	},
	"billing.payment.failed": {
		{ActionID: "update_payment", DisplayName: "Update payment method", ActionType: domain.ActionGoTo,
			URLTemplate: "{{paymentUrl}}", Priority: 1, IsPrimary: true},
	},
	classification.IntentSelfNote: {
		{ActionID: "set_reminder", DisplayName: "Set reminder", ActionType: domain.ActionInApp, Priority: 1, IsPrimary: true},
		{ActionID: "add_to_tasks", DisplayName: "Add to tasks", ActionType: domain.ActionInApp, Priority: 2},
	},
	classification.IntentThreadReply: {
		{ActionID: "quick_reply", DisplayName: "Quick reply", ActionType: domain.ActionQuickReply, Priority: 1, IsPrimary: true},
		{ActionID: "open_thread", DisplayName: "Open conversation", ActionType: domain.ActionInApp, Priority: 2},
	},
	"account.security.alert": {
		{ActionID: "review_activity", DisplayName: "Review activity", ActionType: domain.ActionGoTo,
			URLTemplate: "{{actionUrl}}", Priority: 1, IsPrimary: true},
		{ActionID: "change_password", DisplayName: "Change password", ActionType: domain.ActionGoTo,
			URLTemplate: "{{resetUrl}}", Priority: 2},
	},
	"account.verification": {
		{ActionID: "verify_account", DisplayName: "Verify account", ActionType: domain.ActionGoTo,
			URLTemplate: "{{verifyUrl}}", RequiredEntities: []string{"verificationCode"}, Priority: 1, IsPrimary: true},
	},
	"account.password_reset": {
		{ActionID: "reset_password", DisplayName: "Reset password", ActionType: domain.ActionGoTo,
			URLTemplate: "{{resetUrl}}", RequiredEntities: []string{"resetUrl"}, Priority: 1, IsPrimary: true},
	},
	"travel.checkin": {
		{ActionID: "check_in", DisplayName: "Check in", ActionType: domain.ActionGoTo,
			URLTemplate: "{{checkinUrl}}", RequiredEntities: []string{"confirmationCode"}, Priority: 1, IsPrimary: true},
		{ActionID: "view_itinerary", DisplayName: "View itinerary", ActionType: domain.ActionInApp, Priority: 2},
	},
	classification.IntentNewsletter: {
		{ActionID: "view_in_browser", DisplayName: "View in browser", ActionType: domain.ActionGoTo,
			URLTemplate: "{{actionUrl}}", Priority: 1, IsPrimary: true},
		{ActionID: "unsubscribe", DisplayName: "Unsubscribe", ActionType: domain.ActionGoTo,
			URLTemplate: "{{unsubscribeUrl}}", RequiredEntities: []string{"unsubscribeUrl"}, Priority: 2},
	},
}

// categoryCatalog covers categories whose intents share one candidate set.
var categoryCatalog = map[string][]catalogEntry{
	"calendar": {
		{ActionID: "add_to_calendar", DisplayName: "Add to calendar", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"meetingDate"}, Priority: 1, IsPrimary: true},
		{ActionID: "reply_accept", DisplayName: "Accept", ActionType: domain.ActionQuickReply, Priority: 2},
		{ActionID: "join_meeting", DisplayName: "Join meeting", ActionType: domain.ActionGoTo,
			URLTemplate: "{{meetingUrl}}", RequiredEntities: []string{"meetingUrl"}, Priority: 3},
	},
	"travel": {
		{ActionID: "view_itinerary", DisplayName: "View itinerary", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"confirmationCode"}, Priority: 1, IsPrimary: true},
		{ActionID: "add_to_calendar", DisplayName: "Add to calendar", ActionType: domain.ActionInApp,
			RequiredEntities: []string{"departureDate"}, Priority: 2},
	},
	"promotion": {
		{ActionID: "view_deal", DisplayName: "View deal", ActionType: domain.ActionGoTo,
			URLTemplate: "{{dealUrl}}", Priority: 1, IsPrimary: true},
		{ActionID: "unsubscribe", DisplayName: "Unsubscribe", ActionType: domain.ActionGoTo,
			URLTemplate: "{{unsubscribeUrl}}", RequiredEntities: []string{"unsubscribeUrl"}, Priority: 2},
	},
}

// defaultCatalog applies when no intent or category entry matches.
var defaultCatalog = []catalogEntry{
	{ActionID: "view_details", DisplayName: "View details", ActionType: domain.ActionInApp, Priority: 1, IsPrimary: true},
}

// CatalogAdapter implements the rules engine over the static catalog.
type CatalogAdapter struct{}

// NewCatalogAdapter creates the adapter.
func NewCatalogAdapter() *CatalogAdapter {
	return &CatalogAdapter{}
}

var _ out.RulesEngine = (*CatalogAdapter)(nil)

// SuggestActions resolves the candidate set for an intent and materializes
// URL templates from the entity map. Unresolvable placeholders stay in the
// URL; downstream scoring treats them as not-ready.
func (a *CatalogAdapter) SuggestActions(ctx context.Context, intent string, entities map[string]string, actionCtx out.ActionContext) ([]domain.SuggestedAction, error) {
	entries := a.lookup(intent)

	actions := make([]domain.SuggestedAction, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, domain.SuggestedAction{
			ActionID:         entry.ActionID,
			DisplayName:      entry.DisplayName,
			ActionType:       entry.ActionType,
			URL:              resolveTemplate(entry.URLTemplate, entities),
			RequiredEntities: entry.RequiredEntities,
			Priority:         entry.Priority,
			IsPrimary:        entry.IsPrimary,
		})
	}
	return actions, nil
}

func (a *CatalogAdapter) lookup(intent string) []catalogEntry {
	if entries, ok := intentCatalog[intent]; ok {
		return entries
	}
	if i := strings.Index(intent, "."); i > 0 {
		if entries, ok := categoryCatalog[intent[:i]]; ok {
			return entries
		}
	}
	return defaultCatalog
}

// resolveTemplate substitutes {{key}} placeholders with entity values.
func resolveTemplate(template string, entities map[string]string) string {
	if template == "" || !strings.Contains(template, "{{") {
		return template
	}
	resolved := template
	for key, value := range entities {
		resolved = strings.ReplaceAll(resolved, "{{"+key+"}}", value)
	}
	return resolved
}
