package classification

import (
	"testing"

	"triage_server/core/domain"
)

func TestClassifyValidationOutcomes(t *testing.T) {
	c := NewIntentClassifier(nil)

	tests := []struct {
		name       string
		email      *domain.EmailInput
		wantIntent string
		wantConf   float64
		wantSource domain.IntentSource
	}{
		{
			name:       "nil email",
			email:      nil,
			wantIntent: IntentUnknown,
			wantConf:   ConfidenceValidationError,
			wantSource: domain.SourceValidationError,
		},
		{
			name:       "empty subject and body",
			email:      &domain.EmailInput{From: "someone@example.com"},
			wantIntent: IntentUnknown,
			wantConf:   ConfidenceInsufficient,
			wantSource: domain.SourceInsufficientContent,
		},
		{
			name:       "whitespace only",
			email:      &domain.EmailInput{Subject: "   ", Body: "\n\t"},
			wantIntent: IntentUnknown,
			wantConf:   ConfidenceInsufficient,
			wantSource: domain.SourceInsufficientContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.email)
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.wantIntent)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", got.Source, tt.wantSource)
			}
		})
	}
}

func TestClassifySelfSent(t *testing.T) {
	c := NewIntentClassifier(nil)

	email := &domain.EmailInput{
		Subject: "buy milk",
		From:    "Jordan <jordan@example.com>",
		To:      "jordan@example.com",
		Body:    "and eggs",
	}

	got := c.Classify(email)
	if got.Intent != IntentSelfNote {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentSelfNote)
	}
	if got.Confidence != ConfidenceSelfNote {
		t.Errorf("confidence = %v, want %v", got.Confidence, ConfidenceSelfNote)
	}
	if got.Source != domain.SourcePatternMatching {
		t.Errorf("source = %q, want %q", got.Source, domain.SourcePatternMatching)
	}
}

func TestClassifyShippingNotification(t *testing.T) {
	c := NewIntentClassifier(nil)

	email := &domain.EmailInput{
		Subject: "Your order has shipped",
		From:    "shipment-tracking@amazon.com",
		To:      "customer@example.com",
		Body:    "Your package is on its way. Tracking number: 1Z999AA10123456784",
	}

	got := c.Classify(email)
	if got.Intent != IntentShippingNotice {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentShippingNotice)
	}
	if got.Confidence <= 0.7 {
		t.Errorf("confidence = %v, want > 0.7", got.Confidence)
	}
	if got.Confidence < 0 || got.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", got.Confidence)
	}
	if got.Source != domain.SourcePatternMatching {
		t.Errorf("source = %q, want %q", got.Source, domain.SourcePatternMatching)
	}

	// The confusable sibling must lose: "has shipped" is a negative pattern
	// for order confirmations.
	if got.Scores[IntentOrderConfirm] >= got.Scores[IntentShippingNotice] {
		t.Errorf("order confirmation score %v should be below shipping score %v",
			got.Scores[IntentOrderConfirm], got.Scores[IntentShippingNotice])
	}
}

func TestClassifyInvoiceDue(t *testing.T) {
	c := NewIntentClassifier(nil)

	email := &domain.EmailInput{
		Subject: "Invoice INV-2025-1234 due Oct 30",
		From:    "billing@supplier.com",
		To:      "ap@company.com",
		Body:    "Amount due: $1,250.00. Pay by October 30.",
	}

	got := c.Classify(email)
	if got.Intent != IntentInvoiceDue {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentInvoiceDue)
	}
	if got.Confidence <= 0.75 {
		t.Errorf("confidence = %v, want > 0.75", got.Confidence)
	}
}

func TestClassifyThreadReply(t *testing.T) {
	c := NewIntentClassifier(nil)

	email := &domain.EmailInput{
		Subject: "Re: lunch tomorrow",
		From:    "sam@example.com",
		To:      "alex@example.com",
		Body:    "Sounds good.\n\nOn Mon, Alex wrote:\n> want to grab lunch?",
	}

	got := c.Classify(email)
	if got.Intent != IntentThreadReply {
		t.Fatalf("intent = %q, want %q", got.Intent, IntentThreadReply)
	}
}

func TestClassifyFallback(t *testing.T) {
	c := NewIntentClassifier(nil)

	tests := []struct {
		name       string
		email      *domain.EmailInput
		wantIntent string
	}{
		{
			name: "bland mail falls back to transactional",
			email: &domain.EmailInput{
				Subject: "Hello",
				From:    "person@example.com",
				Body:    "Just checking in about that thing.",
			},
			wantIntent: IntentTransactional,
		},
		{
			name: "newsletter cues win the fallback",
			email: &domain.EmailInput{
				Subject: "Hello",
				From:    "news@example.com",
				Body:    "Some light reading for you.",
			},
			wantIntent: IntentNewsletter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.email)
			if got.Intent != tt.wantIntent {
				t.Errorf("intent = %q, want %q", got.Intent, tt.wantIntent)
			}
			if got.Source != domain.SourceFallback {
				t.Errorf("source = %q, want %q", got.Source, domain.SourceFallback)
			}
			if got.Confidence != ConfidenceFallback {
				t.Errorf("confidence = %v, want %v", got.Confidence, ConfidenceFallback)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewIntentClassifier(nil)

	email := &domain.EmailInput{
		Subject: "Your order has shipped",
		From:    "shipment-tracking@amazon.com",
		Body:    "Tracking number: 1Z999AA10123456784",
	}

	first := c.Classify(email)
	for i := 0; i < 10; i++ {
		got := c.Classify(email)
		if got.Intent != first.Intent || got.Confidence != first.Confidence || got.Source != first.Source {
			t.Fatalf("run %d differs: got %+v, want %+v", i, got, first)
		}
	}
}

func TestTaxonomyLookup(t *testing.T) {
	tax := NewTaxonomy()

	if tax.Lookup(IntentShippingNotice) == nil {
		t.Fatalf("Lookup(%q) = nil", IntentShippingNotice)
	}
	if tax.Lookup("no.such.intent") != nil {
		t.Errorf("Lookup of unknown id should be nil")
	}

	entry := tax.Lookup(IntentShippingNotice)
	if !entry.ExpectsEntity("trackingNumber") {
		t.Errorf("shipping entry should expect trackingNumber")
	}
	if !entry.ExpectsEntity("carrier") {
		t.Errorf("shipping entry should expect carrier as optional")
	}
	if entry.ExpectsEntity("invoiceId") {
		t.Errorf("shipping entry should not expect invoiceId")
	}

	if len(tax.IDs()) != len(tax.Entries()) {
		t.Errorf("IDs and Entries lengths differ")
	}
}
