// Package extraction implements pattern-based entity extraction and the
// confidence/validation/relationship enhancement layer on top of it.
package extraction

import (
	"regexp"
	"strings"

	"triage_server/core/domain"
)

// =============================================================================
// Entity Extractor
// =============================================================================

// entityPattern is one declarative extraction rule. The first capture group
// is the entity value; FirstOnly keeps the first match, which is the rule
// for every key (one value per key in the output map).
type entityPattern struct {
	Key     string
	Pattern *regexp.Regexp
}

// Domain-area pattern tables. All areas run on every email; the resolved
// intent only adds area-specific patterns on top (see intentPatterns).
var (
	orderPatterns = []entityPattern{
		{Key: "orderId", Pattern: regexp.MustCompile(`(?i)\border\s*#?\s*([A-Z0-9][A-Z0-9-]{4,24})\b`)},
		{Key: "orderUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*order\S*)`)},
	}

	trackingPatterns = []entityPattern{
		{Key: "trackingNumber", Pattern: regexp.MustCompile(`\b(1Z[0-9A-Za-z]{16})\b`)},
		{Key: "trackingNumber", Pattern: regexp.MustCompile(`(?i)tracking\s*(?:number|no\.?|#)?[:\s]+([A-Z0-9]{8,34})\b`)},
		{Key: "carrier", Pattern: regexp.MustCompile(`(?i)\bcarrier[:\s]+([A-Za-z][A-Za-z ]{1,19})\b`)},
		{Key: "carrier", Pattern: regexp.MustCompile(`\b(UPS|FedEx|USPS|DHL)\b`)},
		{Key: "trackingUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*track\S*)`)},
		{Key: "deliveryDate", Pattern: regexp.MustCompile(`(?i)(?:arriving|delivery|expected)[^.\n]{0,20}?\b((?:mon|tue|wed|thu|fri|sat|sun)[a-z]*,?\s+)?((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?)`)},
	}

	paymentPatterns = []entityPattern{
		{Key: "invoiceId", Pattern: regexp.MustCompile(`(?i)\binvoice\s*#?\s*([A-Z]{2,5}-?\d{2,4}-?\d{1,8})\b`)},
		{Key: "amount", Pattern: regexp.MustCompile(`(?i)(?:amount|total|price|fee|balance)[^$€£\d]{0,12}([$€£]\s?\d[\d,]*(?:\.\d{1,2})?)`)},
		{Key: "amount", Pattern: regexp.MustCompile(`([$€£]\s?\d[\d,]*(?:\.\d{1,2})?)`)},
		{Key: "dueDate", Pattern: regexp.MustCompile(`(?i)\bdue\s+(?:on\s+|by\s+)?((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?)`)},
		{Key: "dueDate", Pattern: regexp.MustCompile(`(?i)\bdue\s+(?:on\s+|by\s+)?(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})`)},
		{Key: "paymentUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*(?:pay|invoice|billing)\S*)`)},
		{Key: "receiptUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*receipt\S*)`)},
	}

	meetingPatterns = []entityPattern{
		{Key: "meetingDate", Pattern: regexp.MustCompile(`(?i)\b((?:mon|tues|wednes|thurs|fri|satur|sun)day,?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?)`)},
		{Key: "meetingDate", Pattern: regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?)\s+(?:at|@)\s+\d`)},
		{Key: "meetingTime", Pattern: regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s?(?:am|pm))\b`)},
		{Key: "meetingUrl", Pattern: regexp.MustCompile(`(https?://\S*(?:zoom\.us|meet\.google\.com|teams\.microsoft\.com)\S*)`)},
		{Key: "location", Pattern: regexp.MustCompile(`(?i)\blocation[:\s]+([^\n.]{3,60})`)},
	}

	accountPatterns = []entityPattern{
		{Key: "verificationCode", Pattern: regexp.MustCompile(`(?i)code(?:\s+is)?[:\s]+(\d{4,8})\b`)},
		{Key: "resetUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*(?:reset|password)\S*)`)},
		{Key: "verifyUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*(?:verify|confirm|activate)\S*)`)},
		{Key: "deviceName", Pattern: regexp.MustCompile(`(?i)(?:from|on)\s+a?\s*new\s+device[:\s]+([^\n.]{3,40})`)},
	}

	travelPatterns = []entityPattern{
		{Key: "flightNumber", Pattern: regexp.MustCompile(`(?i)\bflight\s*#?\s*([A-Z]{2}\s?\d{2,4})\b`)},
		{Key: "confirmationCode", Pattern: regexp.MustCompile(`(?i)confirmation\s*(?:code|number|#)?[:\s]+([A-Z0-9]{5,8})\b`)},
		{Key: "departureDate", Pattern: regexp.MustCompile(`(?i)(?:depart(?:s|ing|ure)?)[^.\n]{0,20}?((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?)`)},
		{Key: "checkinUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*check-?in\S*)`)},
	}

	generalPatterns = []entityPattern{
		{Key: "actionUrl", Pattern: regexp.MustCompile(`(https?://[^\s<>"]+)`)},
		{Key: "senderEmail", Pattern: regexp.MustCompile(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)},
		{Key: "unsubscribeUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*unsub\S*)`)},
		{Key: "phoneNumber", Pattern: regexp.MustCompile(`(\+?\d{1,2}[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})\b`)},
	}
)

// intentPatterns adds extra area patterns keyed by taxonomy category
// prefix, on top of the base pass.
var intentPatterns = map[string][]entityPattern{
	"commerce": {
		{Key: "itemCount", Pattern: regexp.MustCompile(`(?i)\b(\d{1,3})\s+items?\b`)},
	},
	"billing": {
		{Key: "accountNumber", Pattern: regexp.MustCompile(`(?i)account\s*(?:number|#)[:\s]+([A-Z0-9*-]{4,20})\b`)},
	},
	"promotion": {
		{Key: "promoCode", Pattern: regexp.MustCompile(`(?i)(?:code|coupon)[:\s]+([A-Z0-9]{4,15})\b`)},
		{Key: "dealUrl", Pattern: regexp.MustCompile(`(?i)(https?://\S*(?:deal|sale|offer|shop)\S*)`)},
	},
	"travel": {
		{Key: "airline", Pattern: regexp.MustCompile(`\b(Delta|United|American Airlines|Southwest|JetBlue|Lufthansa|Air France|KLM)\b`)},
	},
}

// Extractor performs pattern-based extraction of typed values from email
// text, intent-aware via category-prefix patterns.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the raw entity map for an email under a resolved intent.
// Absence of a pattern match simply omits the key; malformed input yields an
// empty map, never an error.
func (x *Extractor) Extract(email *domain.EmailInput, intentID string) map[string]string {
	entities := make(map[string]string)
	if email == nil {
		return entities
	}

	text := email.Subject + "\n" + email.Body
	if email.Snippet != "" {
		text += "\n" + email.Snippet
	}

	areas := [][]entityPattern{
		orderPatterns, trackingPatterns, paymentPatterns,
		meetingPatterns, accountPatterns, travelPatterns, generalPatterns,
	}
	for _, area := range areas {
		applyPatterns(entities, area, text)
	}

	if prefix := categoryPrefix(intentID); prefix != "" {
		if extra, ok := intentPatterns[prefix]; ok {
			applyPatterns(entities, extra, text)
		}
	}

	return entities
}

// applyPatterns fills entities with the first match per key. Earlier rows
// for the same key take precedence (more specific shapes are listed first).
func applyPatterns(entities map[string]string, patterns []entityPattern, text string) {
	for _, p := range patterns {
		if _, exists := entities[p.Key]; exists {
			continue
		}
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		// The value is the last non-empty capture group.
		var value string
		for i := len(m) - 1; i >= 1; i-- {
			if m[i] != "" {
				value = m[i]
				break
			}
		}
		value = strings.TrimSpace(value)
		if value != "" {
			entities[p.Key] = value
		}
	}
}

func categoryPrefix(intentID string) string {
	if i := strings.Index(intentID, "."); i > 0 {
		return intentID[:i]
	}
	return intentID
}
