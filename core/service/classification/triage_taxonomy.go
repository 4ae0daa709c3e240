// Package classification implements the score-based intent classification
// pipeline over the static intent taxonomy.
package classification

// =============================================================================
// Intent Taxonomy
// =============================================================================

// TaxonomyEntry is one leaf of the intent taxonomy. Entries are immutable
// and loaded once at process start.
type TaxonomyEntry struct {
	ID               string
	Category         string
	SubCategory      string
	Triggers         []string
	NegativePatterns []string
	RequiredEntities []string
	OptionalEntities []string
}

// Well-known intent IDs referenced by the classifier and the orchestrator.
const (
	IntentSelfNote       = "personal.self_note"
	IntentThreadReply    = "conversation.thread_reply"
	IntentShippingNotice = "commerce.shipping.notification"
	IntentOrderConfirm   = "commerce.order.confirmation"
	IntentInvoiceDue     = "billing.invoice.due"
	IntentNewsletter     = "newsletter.digest"
	IntentTransactional  = "generic.transactional"
	IntentUnknown        = "generic.unknown"
)

// CategoryGeneric is the fallback category; on an exact score tie the entry
// outside this category wins.
const CategoryGeneric = "generic"

// Taxonomy is the static catalog of all intents.
type Taxonomy struct {
	entries []TaxonomyEntry
	byID    map[string]*TaxonomyEntry
}

// NewTaxonomy builds the catalog from the default entry table.
func NewTaxonomy() *Taxonomy {
	return newTaxonomyFrom(defaultTaxonomy)
}

func newTaxonomyFrom(entries []TaxonomyEntry) *Taxonomy {
	t := &Taxonomy{entries: entries, byID: make(map[string]*TaxonomyEntry, len(entries))}
	for i := range t.entries {
		t.byID[t.entries[i].ID] = &t.entries[i]
	}
	return t
}

// Entries returns all taxonomy entries. The slice is shared and read-only.
func (t *Taxonomy) Entries() []TaxonomyEntry {
	return t.entries
}

// Lookup returns the entry for an intent ID, or nil.
func (t *Taxonomy) Lookup(id string) *TaxonomyEntry {
	return t.byID[id]
}

// IDs returns every intent ID in catalog order.
func (t *Taxonomy) IDs() []string {
	ids := make([]string, len(t.entries))
	for i, e := range t.entries {
		ids[i] = e.ID
	}
	return ids
}

// ExpectsEntity reports whether the entry lists key as required or optional.
func (e *TaxonomyEntry) ExpectsEntity(key string) bool {
	if e == nil {
		return false
	}
	for _, k := range e.RequiredEntities {
		if k == key {
			return true
		}
	}
	for _, k := range e.OptionalEntities {
		if k == key {
			return true
		}
	}
	return false
}

// defaultTaxonomy is the built-in intent catalog. Trigger phrases are
// matched lowercased with field weights; negative patterns subtract at 1.5x
// the same weights.
var defaultTaxonomy = []TaxonomyEntry{
	{
		ID:               IntentSelfNote,
		Category:         "personal",
		SubCategory:      "self_note",
		Triggers:         []string{"note to self", "reminder:"},
		OptionalEntities: []string{"dueDate"},
	},
	{
		ID:               IntentThreadReply,
		Category:         "conversation",
		SubCategory:      "thread_reply",
		Triggers:         []string{"wrote:", "original message"},
		OptionalEntities: []string{"senderEmail"},
	},

	// === Commerce ===
	{
		ID:          IntentOrderConfirm,
		Category:    "commerce",
		SubCategory: "order",
		Triggers: []string{
			"order confirmed", "order confirmation", "your order", "order placed",
			"thank you for your order", "order received", "purchase confirmation",
		},
		NegativePatterns: []string{"has shipped", "out for delivery", "invoice"},
		RequiredEntities: []string{"orderId"},
		OptionalEntities: []string{"amount", "orderUrl"},
	},
	{
		ID:          IntentShippingNotice,
		Category:    "commerce",
		SubCategory: "shipping",
		Triggers: []string{
			"shipped", "has shipped", "on its way", "tracking number",
			"out for delivery", "track your package", "shipment",
		},
		NegativePatterns: []string{"delivered to your", "was delivered"},
		RequiredEntities: []string{"trackingNumber"},
		OptionalEntities: []string{"carrier", "orderId", "trackingUrl", "deliveryDate"},
	},
	{
		ID:          "commerce.shipping.delivered",
		Category:    "commerce",
		SubCategory: "shipping",
		Triggers: []string{
			"delivered", "was delivered", "delivered to your", "delivery complete",
		},
		NegativePatterns: []string{"out for delivery", "will be delivered"},
		OptionalEntities: []string{"orderId", "trackingNumber"},
	},

	// === Billing ===
	{
		ID:          IntentInvoiceDue,
		Category:    "billing",
		SubCategory: "invoice",
		Triggers: []string{
			"invoice", "due", "payment due", "amount due", "invoice due",
			"balance due", "pay now",
		},
		NegativePatterns: []string{"payment received", "paid in full", "receipt"},
		RequiredEntities: []string{"invoiceId", "amount"},
		OptionalEntities: []string{"dueDate", "paymentUrl"},
	},
	{
		ID:          "billing.payment.receipt",
		Category:    "billing",
		SubCategory: "receipt",
		Triggers: []string{
			"receipt", "payment received", "payment confirmed", "payment successful",
			"thank you for your payment", "paid in full",
		},
		NegativePatterns: []string{"payment due", "payment failed"},
		RequiredEntities: []string{"amount"},
		OptionalEntities: []string{"invoiceId", "receiptUrl"},
	},
	{
		ID:          "billing.payment.failed",
		Category:    "billing",
		SubCategory: "payment",
		Triggers: []string{
			"payment failed", "payment declined", "card was declined",
			"unable to process", "update your payment",
		},
		RequiredEntities: []string{"amount"},
		OptionalEntities: []string{"paymentUrl"},
	},
	{
		ID:          "billing.subscription.renewal",
		Category:    "billing",
		SubCategory: "subscription",
		Triggers: []string{
			"subscription", "renews", "renewal", "will renew", "auto-renew",
		},
		NegativePatterns: []string{"unsubscribe"},
		OptionalEntities: []string{"amount", "renewalDate"},
	},

	// === Calendar ===
	{
		ID:          "calendar.meeting.invite",
		Category:    "calendar",
		SubCategory: "invite",
		Triggers: []string{
			"meeting invitation", "calendar invitation", "invited you",
			"meeting request", "has invited you", "proposed time",
		},
		NegativePatterns: []string{"cancelled", "canceled"},
		RequiredEntities: []string{"meetingDate"},
		OptionalEntities: []string{"meetingTime", "meetingUrl", "location"},
	},
	{
		ID:          "calendar.meeting.reminder",
		Category:    "calendar",
		SubCategory: "reminder",
		Triggers: []string{
			"meeting reminder", "starting soon", "upcoming meeting", "starts in",
		},
		RequiredEntities: []string{"meetingDate"},
		OptionalEntities: []string{"meetingTime", "meetingUrl"},
	},

	// === Account ===
	{
		ID:          "account.security.alert",
		Category:    "account",
		SubCategory: "security",
		Triggers: []string{
			"security alert", "suspicious activity", "new sign-in", "new login",
			"unusual activity", "was accessed",
		},
		OptionalEntities: []string{"actionUrl", "deviceName"},
	},
	{
		ID:          "account.verification",
		Category:    "account",
		SubCategory: "verification",
		Triggers: []string{
			"verify your email", "verification code", "confirm your email",
			"activate your account", "one-time code",
		},
		RequiredEntities: []string{"verificationCode"},
		OptionalEntities: []string{"verifyUrl"},
	},
	{
		ID:          "account.password_reset",
		Category:    "account",
		SubCategory: "password",
		Triggers: []string{
			"password reset", "reset your password", "forgot your password",
			"change your password",
		},
		RequiredEntities: []string{"resetUrl"},
	},

	// === Travel ===
	{
		ID:          "travel.flight.confirmation",
		Category:    "travel",
		SubCategory: "flight",
		Triggers: []string{
			"flight confirmation", "itinerary", "booking confirmed",
			"e-ticket", "your flight", "boarding pass",
		},
		RequiredEntities: []string{"confirmationCode"},
		OptionalEntities: []string{"flightNumber", "departureDate"},
	},
	{
		ID:          "travel.checkin",
		Category:    "travel",
		SubCategory: "checkin",
		Triggers: []string{
			"check in now", "check-in is open", "online check-in", "check in for your flight",
		},
		RequiredEntities: []string{"confirmationCode"},
		OptionalEntities: []string{"checkinUrl", "flightNumber"},
	},

	// === Newsletter / Promotion ===
	{
		ID:          IntentNewsletter,
		Category:    "newsletter",
		SubCategory: "digest",
		Triggers: []string{
			"newsletter", "weekly digest", "daily digest", "this week in",
			"unsubscribe", "view in browser",
		},
		OptionalEntities: []string{"unsubscribeUrl"},
	},
	{
		ID:          "promotion.deal",
		Category:    "promotion",
		SubCategory: "deal",
		Triggers: []string{
			"% off", "sale", "discount", "limited time", "deal", "coupon",
			"free shipping", "today only",
		},
		OptionalEntities: []string{"dealUrl", "promoCode"},
	},

	// === Generic fallbacks ===
	{
		ID:          IntentTransactional,
		Category:    CategoryGeneric,
		SubCategory: "transactional",
		Triggers: []string{
			"do not reply", "automated message", "notification",
		},
		OptionalEntities: []string{"actionUrl"},
	},
	{
		ID:          IntentUnknown,
		Category:    CategoryGeneric,
		SubCategory: "unknown",
	},
}
