// Package classification implements the score-based intent classification
// pipeline over the static intent taxonomy.
package classification

import "regexp"

// =============================================================================
// Scoring Constants
// =============================================================================

const (
	// Field weights for trigger matching (subject > snippet > body).
	SubjectWeight float64 = 3.0
	SnippetWeight float64 = 2.0
	BodyWeight    float64 = 1.0

	// Negative patterns subtract at this multiple of the field weight.
	NegativeMultiplier float64 = 1.5

	// Thread-reply signals add this to the thread-reply entry instead of
	// short-circuiting, so a stronger specific intent can still win.
	ThreadReplyBoost float64 = 8.0

	// Raw scores normalize against this fixed maximum to yield confidence.
	MaxScoreNorm float64 = 12.0

	// Below this normalized confidence the winner is discarded and the
	// fallback heuristic decides.
	MinConfidence float64 = 0.20
)

// Fixed confidences for non-pattern outcomes.
const (
	ConfidenceSelfNote        float64 = 0.95
	ConfidenceFallback        float64 = 0.50
	ConfidenceInsufficient    float64 = 0.40
	ConfidenceValidationError float64 = 0.30
)

// =============================================================================
// Contextual Boost Tables
// =============================================================================
//
// The classifier treats these as data: one generic pass evaluates every row
// against the email, so no category branch can order-depend on another.

// senderBoost adds to one intent (IntentID set) or to every entry of a
// category (Category set) when the sender address contains the substring.
type senderBoost struct {
	Substring string
	IntentID  string
	Category  string
	Boost     float64
}

var senderBoosts = []senderBoost{
	// Shipping / logistics senders
	{Substring: "shipment", IntentID: IntentShippingNotice, Boost: 2.0},
	{Substring: "tracking", IntentID: IntentShippingNotice, Boost: 2.0},
	{Substring: "ups.com", IntentID: IntentShippingNotice, Boost: 2.0},
	{Substring: "fedex.com", IntentID: IntentShippingNotice, Boost: 2.0},
	{Substring: "usps.com", IntentID: IntentShippingNotice, Boost: 2.0},
	{Substring: "dhl.com", IntentID: IntentShippingNotice, Boost: 2.0},

	// Commerce platforms
	{Substring: "amazon.", Category: "commerce", Boost: 1.5},
	{Substring: "ebay.", Category: "commerce", Boost: 1.5},
	{Substring: "etsy.", Category: "commerce", Boost: 1.5},
	{Substring: "shopify", Category: "commerce", Boost: 1.5},
	{Substring: "aliexpress", Category: "commerce", Boost: 1.5},

	// Billing / payments
	{Substring: "billing", Category: "billing", Boost: 1.5},
	{Substring: "invoice", IntentID: IntentInvoiceDue, Boost: 2.0},
	{Substring: "stripe.com", Category: "billing", Boost: 1.5},
	{Substring: "paypal.com", Category: "billing", Boost: 1.5},
	{Substring: "square", Category: "billing", Boost: 1.0},

	// Travel platforms
	{Substring: "booking.com", Category: "travel", Boost: 1.5},
	{Substring: "airbnb.", Category: "travel", Boost: 1.5},
	{Substring: "expedia.", Category: "travel", Boost: 1.5},
	{Substring: "delta.com", Category: "travel", Boost: 1.5},
	{Substring: "united.com", Category: "travel", Boost: 1.5},

	// Calendar / scheduling
	{Substring: "calendar", Category: "calendar", Boost: 1.5},
	{Substring: "calendly", Category: "calendar", Boost: 1.5},
	{Substring: "zoom.us", Category: "calendar", Boost: 1.0},

	// Account / identity
	{Substring: "security", Category: "account", Boost: 1.5},
	{Substring: "account", Category: "account", Boost: 1.0},

	// Newsletter / marketing ESPs
	{Substring: "newsletter", IntentID: IntentNewsletter, Boost: 2.0},
	{Substring: "news@", IntentID: IntentNewsletter, Boost: 1.5},
	{Substring: "digest", IntentID: IntentNewsletter, Boost: 1.5},
	{Substring: "substack.com", IntentID: IntentNewsletter, Boost: 2.0},
	{Substring: "mailchimp", Category: "promotion", Boost: 1.0},
	{Substring: "promo", Category: "promotion", Boost: 1.5},
	{Substring: "marketing", Category: "promotion", Boost: 1.5},
	{Substring: "deals", Category: "promotion", Boost: 1.5},

	// Automated senders lean transactional
	{Substring: "noreply", IntentID: IntentTransactional, Boost: 1.0},
	{Substring: "no-reply", IntentID: IntentTransactional, Boost: 1.0},
	{Substring: "donotreply", IntentID: IntentTransactional, Boost: 1.0},
}

// shapeBoost adds when a value shape appears in the combined subject+body.
type shapeBoost struct {
	Name     string
	Pattern  *regexp.Regexp
	IntentID string
	Category string
	Boost    float64
}

var shapeBoosts = []shapeBoost{
	{
		Name:     "tracking-shape",
		Pattern:  regexp.MustCompile(`\b(1Z[0-9A-Za-z]{16}|\d{12}|9[234]\d{20,24})\b`),
		IntentID: IntentShippingNotice,
		Boost:    2.5,
	},
	{
		Name:     "money-shape",
		Pattern:  regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d{1,2})?`),
		Category: "billing",
		Boost:    1.5,
	},
	{
		Name:     "date-shape",
		Pattern:  regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b`),
		Category: "calendar",
		Boost:    1.0,
	},
	{
		Name:     "url-dense",
		Pattern:  regexp.MustCompile(`(?s)https?://\S+.*https?://\S+.*https?://\S+`),
		Category: "newsletter",
		Boost:    1.0,
	},
	{
		Name:     "url-dense-promo",
		Pattern:  regexp.MustCompile(`(?s)https?://\S+.*https?://\S+.*https?://\S+`),
		Category: "promotion",
		Boost:    1.0,
	},
}

// disambiguationRule boosts one entry and penalizes a commonly-confused
// sibling when a specific textual cue appears.
type disambiguationRule struct {
	Name           string
	Pattern        *regexp.Regexp
	BoostIntent    string
	Boost          float64
	PenalizeIntent string
	Penalty        float64
}

var disambiguationRules = []disambiguationRule{
	{
		Name:           "invoice-due",
		Pattern:        regexp.MustCompile(`(?is)invoice[\s\S]{0,120}?due`),
		BoostIntent:    IntentInvoiceDue,
		Boost:          2.5,
		PenalizeIntent: IntentOrderConfirm,
		Penalty:        2.0,
	},
	{
		Name:           "order-number",
		Pattern:        regexp.MustCompile(`(?i)order\s*#\s*[\w-]+`),
		BoostIntent:    IntentOrderConfirm,
		Boost:          2.0,
		PenalizeIntent: IntentInvoiceDue,
		Penalty:        1.5,
	},
	{
		Name:           "receipt-paid",
		Pattern:        regexp.MustCompile(`(?i)(payment\s+(received|confirmed|successful)|paid\s+in\s+full)`),
		BoostIntent:    "billing.payment.receipt",
		Boost:          2.0,
		PenalizeIntent: IntentInvoiceDue,
		Penalty:        2.0,
	},
	{
		Name:           "delivered-not-shipping",
		Pattern:        regexp.MustCompile(`(?i)(was\s+delivered|delivered\s+to\s+your)`),
		BoostIntent:    "commerce.shipping.delivered",
		Boost:          2.0,
		PenalizeIntent: IntentShippingNotice,
		Penalty:        1.5,
	},
}

// Thread-reply signals: subject prefixes and quoted-body markers.
var (
	replySubjectPrefixes = []string{"re:", "fwd:", "fw:"}
	quotedBodyMarkers    = []string{"wrote:", "-----original message-----", "\n> "}
)
