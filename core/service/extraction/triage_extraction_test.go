package extraction

import (
	"testing"

	"triage_server/core/domain"
	"triage_server/core/service/classification"
)

func TestExtractShippingEntities(t *testing.T) {
	x := NewExtractor()

	email := &domain.EmailInput{
		Subject: "Your order has shipped",
		From:    "shipment-tracking@amazon.com",
		Body:    "Your package is on its way. Tracking number: 1Z999AA10123456784",
	}

	entities := x.Extract(email, classification.IntentShippingNotice)

	if got := entities["trackingNumber"]; got != "1Z999AA10123456784" {
		t.Errorf("trackingNumber = %q, want %q", got, "1Z999AA10123456784")
	}
}

func TestExtractInvoiceEntities(t *testing.T) {
	x := NewExtractor()

	email := &domain.EmailInput{
		Subject: "Invoice INV-2025-1234 due Oct 30",
		From:    "billing@supplier.com",
		Body:    "Amount due: $1,250.00. Pay by October 30.",
	}

	entities := x.Extract(email, classification.IntentInvoiceDue)

	if got := entities["invoiceId"]; got != "INV-2025-1234" {
		t.Errorf("invoiceId = %q, want %q", got, "INV-2025-1234")
	}
	if got := entities["amount"]; got != "$1,250.00" {
		t.Errorf("amount = %q, want %q", got, "$1,250.00")
	}
	if got := entities["dueDate"]; got != "Oct 30" {
		t.Errorf("dueDate = %q, want %q", got, "Oct 30")
	}
}

func TestExtractNilAndEmpty(t *testing.T) {
	x := NewExtractor()

	if got := x.Extract(nil, classification.IntentUnknown); len(got) != 0 {
		t.Errorf("Extract(nil) = %v, want empty map", got)
	}
	if got := x.Extract(&domain.EmailInput{}, ""); len(got) != 0 {
		t.Errorf("Extract(empty) = %v, want empty map", got)
	}
}

func TestEnhanceInfersCarrierFromTracking(t *testing.T) {
	h := NewEnhancer(nil)

	tests := []struct {
		name        string
		tracking    string
		wantCarrier string
	}{
		{"UPS shape", "1Z999AA10123456784", "UPS"},
		{"FedEx shape", "123456789012", "FedEx"},
		{"USPS shape", "9400110200881234567890", "USPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Enhance(map[string]string{"trackingNumber": tt.tracking}, classification.IntentShippingNotice)

			if got := res.Entities["carrier"]; got != tt.wantCarrier {
				t.Fatalf("carrier = %q, want %q", got, tt.wantCarrier)
			}

			meta := res.Meta["carrier"]
			if meta == nil {
				t.Fatal("carrier metadata missing")
			}
			if meta.Source != domain.EntitySourceInferred {
				t.Errorf("carrier source = %q, want %q", meta.Source, domain.EntitySourceInferred)
			}

			trackingConf := res.Meta["trackingNumber"].Confidence
			if want := domain.Clamp01(trackingConf - InferredPenalty); meta.Confidence != want {
				t.Errorf("carrier confidence = %v, want %v", meta.Confidence, want)
			}

			if len(res.Relationships) == 0 {
				t.Fatal("expected an inferred relationship")
			}
			rel := res.Relationships[0]
			if rel.Kind != domain.RelationshipInferred || rel.InferredKey != "carrier" {
				t.Errorf("relationship = %+v, want inferred carrier", rel)
			}
		})
	}
}

func TestEnhanceKeepsExplicitCarrier(t *testing.T) {
	h := NewEnhancer(nil)

	res := h.Enhance(map[string]string{
		"trackingNumber": "1Z999AA10123456784",
		"carrier":        "DHL",
	}, classification.IntentShippingNotice)

	if got := res.Entities["carrier"]; got != "DHL" {
		t.Errorf("carrier = %q, explicit value must not be overridden", got)
	}
	for _, rel := range res.Relationships {
		if rel.Kind == domain.RelationshipInferred {
			t.Errorf("no inference should happen when carrier is present")
		}
	}
}

func TestEnhanceMoneyNormalization(t *testing.T) {
	h := NewEnhancer(nil)

	res := h.Enhance(map[string]string{"amount": "$1,250.00"}, classification.IntentInvoiceDue)

	meta := res.Meta["amount"]
	if meta == nil {
		t.Fatal("amount metadata missing")
	}
	if meta.Type != domain.EntityTypeMoney {
		t.Errorf("type = %q, want %q", meta.Type, domain.EntityTypeMoney)
	}
	if !meta.Validated {
		t.Error("amount should validate")
	}
	if !meta.Corrected {
		t.Error("normalized amount should be flagged corrected")
	}
	if res.Entities["amount"] != "1250" {
		t.Errorf("normalized amount = %q, want %q", res.Entities["amount"], "1250")
	}
}

func TestEnhanceMoneyOutOfRange(t *testing.T) {
	h := NewEnhancer(nil)

	res := h.Enhance(map[string]string{"amount": "$99,000,000"}, "")

	meta := res.Meta["amount"]
	if meta.Validated {
		t.Error("out-of-range amount should fail validation")
	}
	if meta.Confidence != ConfidenceFailed {
		t.Errorf("confidence = %v, want %v", meta.Confidence, ConfidenceFailed)
	}
	if res.Entities["amount"] != "$99,000,000" {
		t.Errorf("failed validation must keep the original value")
	}
}

func TestEnhanceTypeDetection(t *testing.T) {
	h := NewEnhancer(nil)

	tests := []struct {
		key      string
		value    string
		wantType domain.EntityType
	}{
		{"paymentUrl", "https://pay.example.com/x", domain.EntityTypeURL},
		{"dueDate", "Oct 30", domain.EntityTypeDate},
		{"amount", "$10", domain.EntityTypeMoney},
		{"senderEmail", "a@b.com", domain.EntityTypeEmail},
		{"phoneNumber", "555-123-4567", domain.EntityTypePhone},
		{"orderId", "A1B2C3D4", domain.EntityTypeID},
		{"itemCount", "3", domain.EntityTypeNumber},
		{"location", "Room 4B", domain.EntityTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			res := h.Enhance(map[string]string{tt.key: tt.value}, "")
			if got := res.Meta[tt.key].Type; got != tt.wantType {
				t.Errorf("type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestEnhanceIntentExpectedBonus(t *testing.T) {
	h := NewEnhancer(nil)

	expected := h.Enhance(map[string]string{"trackingNumber": "1Z999AA10123456784"}, classification.IntentShippingNotice)
	unexpected := h.Enhance(map[string]string{"trackingNumber": "1Z999AA10123456784"}, classification.IntentNewsletter)

	if expected.Meta["trackingNumber"].Confidence <= unexpected.Meta["trackingNumber"].Confidence {
		t.Errorf("intent-expected entity should score higher: %v vs %v",
			expected.Meta["trackingNumber"].Confidence, unexpected.Meta["trackingNumber"].Confidence)
	}
}

func TestEnhanceStats(t *testing.T) {
	h := NewEnhancer(nil)

	res := h.Enhance(map[string]string{
		"invoiceId": "INV-2025-1234",
		"amount":    "$1,250.00",
		"location":  "somewhere",
	}, classification.IntentInvoiceDue)

	if res.Stats.Count != 3 {
		t.Errorf("count = %d, want 3", res.Stats.Count)
	}
	if res.Stats.ValidatedCount == 0 {
		t.Error("expected at least one validated entity")
	}
	if res.Stats.AvgConfidence <= 0 || res.Stats.AvgConfidence > 1 {
		t.Errorf("avg confidence %v outside (0,1]", res.Stats.AvgConfidence)
	}

	empty := h.Enhance(map[string]string{}, "")
	if empty.Stats.Count != 0 || empty.Stats.AvgConfidence != StatsEmptyAvgDefault {
		t.Errorf("empty stats = %+v", empty.Stats)
	}
}
